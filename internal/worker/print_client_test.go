package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchPrintHTMLSendsHeaders(t *testing.T) {
	var gotSecret, gotCorrelation, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Internal-Secret")
		gotCorrelation = r.Header.Get("X-Correlation-ID")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!DOCTYPE html><html></html>"))
	}))
	defer server.Close()

	html, err := fetchPrintHTML(context.Background(), server.URL, 42, "s3cret", "corr-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if html != "<!DOCTYPE html><html></html>" {
		t.Fatalf("html = %q", html)
	}
	if gotSecret != "s3cret" {
		t.Fatalf("secret header = %q", gotSecret)
	}
	if gotCorrelation != "corr-1" {
		t.Fatalf("correlation header = %q", gotCorrelation)
	}
	if gotPath != "/v1/internal/documents/42/print" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestFetchPrintHTMLClassifiesFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, errPrintNotFound},
		{"unrenderable", http.StatusBadRequest, errPrintUnrenderable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			_, err := fetchPrintHTML(context.Background(), server.URL, 1, "s", "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchPrintHTMLRequiresSecret(t *testing.T) {
	if _, err := fetchPrintHTML(context.Background(), "http://localhost:9", 1, " ", ""); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := fetchPrintHTML(context.Background(), "  ", 1, "s", ""); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
