package auth

import (
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"
)

func testUser() *models.User {
	u := &models.User{Email: "jane@example.com"}
	u.ID = "0190f1c2-7a3b-7c4d-8e5f-0123456789ab"
	return u
}

func TestIssuer_GenerateAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	token, err := issuer.Generate(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != testUser().ID {
		t.Errorf("expected user id %s, got %s", testUser().ID, claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("expected email, got %s", claims.Email)
	}
}

func TestIssuer_Parse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.Generate(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("rejects_wrong_secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).Parse(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects_expired_token", func(t *testing.T) {
		later := NewIssuer("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := later.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := issuer.Parse("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestNewResetToken(t *testing.T) {
	token, hash, err := NewResetToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != 40 {
		t.Errorf("expected 40 hex chars, got %d", len(token))
	}
	if hash != HashToken(token) {
		t.Error("hash does not match token")
	}
	if len(hash) != 64 {
		t.Errorf("expected sha256 hex digest, got %d chars", len(hash))
	}

	other, _, _ := NewResetToken()
	if other == token {
		t.Error("expected tokens to differ")
	}
}
