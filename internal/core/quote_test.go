package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestZenQuotesProvider(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"with author", http.StatusOK, `[{"q":"Water is life.","a":"Anon"}]`, "\"Water is life.\" — Anon"},
		{"without author", http.StatusOK, `[{"q":"Water is life.","a":""}]`, "Water is life."},
		{"empty list", http.StatusOK, `[]`, FallbackQuotes[1]},
		{"missing text", http.StatusOK, `[{"a":"Anon"}]`, FallbackQuotes[1]},
		{"not json", http.StatusOK, `<html>`, FallbackQuotes[1]},
		{"server error", http.StatusTooManyRequests, `[{"q":"x","a":"y"}]`, FallbackQuotes[1]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := NewZenQuotesProvider(srv.URL, srv.Client(), zap.NewNop())
			if got := p.FetchQuote(context.Background()); got != tc.want {
				t.Fatalf("quote = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestZenQuotesProviderFailures(t *testing.T) {
	if got := NewZenQuotesProvider("::not a url", nil, zap.NewNop()).FetchQuote(context.Background()); got != FallbackQuotes[0] {
		t.Fatalf("bad url quote = %q", got)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	if got := NewZenQuotesProvider(url, nil, zap.NewNop()).FetchQuote(context.Background()); got != FallbackQuotes[2] {
		t.Fatalf("network failure quote = %q", got)
	}
}

func TestIsFallbackQuote(t *testing.T) {
	for _, q := range FallbackQuotes {
		if !IsFallbackQuote(q) {
			t.Fatalf("%q should be a fallback", q)
		}
	}
	if IsFallbackQuote("Drink up.") {
		t.Fatalf("real quote reported as fallback")
	}
}
