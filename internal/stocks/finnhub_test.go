package stocks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"
)

func newFinnhubMock(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL, "test-key")
}

func TestParseSymbols(t *testing.T) {
	got := ParseSymbols(" aapl, MSFT,,aapl ,tsla ")
	want := []string{"AAPL", "MSFT", "TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if ParseSymbols(" , ") != nil {
		t.Error("expected nil for blank input")
	}
}

func TestClient_Quotes(t *testing.T) {
	t.Run("fetches_every_symbol", func(t *testing.T) {
		prices := map[string]float64{"AAPL": 189.5, "MSFT": 410.25}
		client := newFinnhubMock(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/quote" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("X-Finnhub-Token") != "test-key" {
				t.Errorf("expected api token header")
			}
			if r.URL.Query().Has("token") {
				t.Errorf("api token must not be sent in the query string")
			}
			_ = json.NewEncoder(w).Encode(map[string]float64{"c": prices[r.URL.Query().Get("symbol")]})
		})

		got, err := client.Quotes(context.Background(), []string{"AAPL", "MSFT"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got["AAPL"].String() != "189.5" || got["MSFT"].String() != "410.25" {
			t.Errorf("unexpected quotes %v", got)
		}
	})

	t.Run("fails_when_one_symbol_fails", func(t *testing.T) {
		client := newFinnhubMock(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("symbol") == "BAD" {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"API limit reached"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]float64{"c": 1})
		})

		_, err := client.Quotes(context.Background(), []string{"AAPL", "BAD"})
		var upErr *UpstreamError
		if !errors.As(err, &upErr) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if upErr.Status != http.StatusTooManyRequests || upErr.Detail != `{"error":"API limit reached"}` {
			t.Errorf("unexpected upstream error %+v", upErr)
		}
	})
}

func TestClient_History(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	t.Run("maps_candles", func(t *testing.T) {
		client := newFinnhubMock(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if r.URL.Path != "/stock/candle" || q.Get("resolution") != "D" {
				t.Errorf("unexpected request %s", r.URL)
			}
			if q.Get("to") != strconv.FormatInt(now.Unix(), 10) ||
				q.Get("from") != strconv.FormatInt(now.Add(-30*24*time.Hour).Unix(), 10) {
				t.Errorf("unexpected window from=%s to=%s", q.Get("from"), q.Get("to"))
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"s": "ok",
				"t": []int64{time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC).Unix(), time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC).Unix()},
				"c": []float64{170.1, 171.2},
			})
		})
		client.now = func() time.Time { return now }

		points, err := client.History(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(points) != 2 || points[0].Date != "Mar 28" || points[1].Price.String() != "171.2" {
			t.Errorf("unexpected points %+v", points)
		}
	})

	t.Run("no_data_is_empty", func(t *testing.T) {
		client := newFinnhubMock(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"s":"no_data"}`))
		})

		points, err := client.History(context.Background(), "ZZZZ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if points == nil || len(points) != 0 {
			t.Errorf("expected empty slice, got %v", points)
		}
	})

	t.Run("upstream_failure", func(t *testing.T) {
		client := newFinnhubMock(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := client.History(context.Background(), "AAPL")
		var upErr *UpstreamError
		if !errors.As(err, &upErr) || upErr.Status != http.StatusForbidden {
			t.Errorf("expected 403 UpstreamError, got %v", err)
		}
	})
}

func TestUpstreamError_PublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *UpstreamError
		want string
	}{
		{"status_and_detail", &UpstreamError{Endpoint: "/quote", Symbol: "AAPL", Status: 429, Detail: "API limit reached"}, "/quote AAPL: status 429: API limit reached"},
		{"status_only", &UpstreamError{Endpoint: "/quote", Symbol: "AAPL", Status: 403}, "/quote AAPL: status 403"},
		{"bad_payload", &UpstreamError{Endpoint: "/quote", Symbol: "AAPL", Status: 200, Err: errors.New("decoding response: EOF")}, "/quote AAPL: invalid response"},
		{"transport", &UpstreamError{Endpoint: "/quote", Symbol: "AAPL", Err: errors.New(`Get "http://x/quote?token=secret": refused`)}, "/quote AAPL: provider unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.PublicMessage(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
