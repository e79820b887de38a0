package uuid

import "testing"

func TestNew(t *testing.T) {
	a := New()
	b := New()

	if !IsValid(a) || !IsValid(b) {
		t.Fatalf("expected valid UUIDs, got %q and %q", a, b)
	}
	if a == b {
		t.Fatal("expected distinct UUIDs")
	}
	if a[14] != '7' {
		t.Errorf("expected version 7, got %q", a)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190F5C2-3C1B-7A6E-8D3F-1C2B3A4D5E6F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190f5c2-3c1b-7a6e-8d3f-1c2b3a4d5e6f" {
		t.Errorf("expected canonical lower-case form, got %q", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	if _, err := Parse(" 0190f5c2-3c1b-7a6e-8d3f-1c2b3a4d5e6f\n"); err != nil {
		t.Errorf("expected surrounding whitespace to be ignored: %v", err)
	}
}
