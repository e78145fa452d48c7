package httpx

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"
)

func TestWriteErrorEnvelope(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")

	rec := httptest.NewRecorder()
	WriteError(ctx, rec, NewError("product_not_found", "product not found", 404))

	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "product_not_found" {
		t.Fatalf("error = %v", payload["error"])
	}
	if payload["message"] != "product not found" {
		t.Fatalf("message = %v", payload["message"])
	}
	if payload["request_id"] != "req-123" {
		t.Fatalf("request_id = %v", payload["request_id"])
	}
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name  string
		value string
		limit int
		want  string
	}{
		{name: "ascii under limit", value: "hello", limit: 10, want: "hello"},
		{name: "ascii at limit", value: "hello", limit: 5, want: "hello"},
		{name: "ascii truncated", value: "hello world", limit: 5, want: "hello"},
		{name: "multibyte truncated whole", value: "héllo wörld", limit: 5, want: "héllo"},
		{name: "cjk truncated whole", value: "商品が見つかりません", limit: 4, want: "商品が見"},
		{name: "newlines collapsed", value: "a\nb\rc", limit: 10, want: "a b c"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitize(tc.value, tc.limit)
			if got != tc.want {
				t.Fatalf("sanitize(%q, %d) = %q, want %q", tc.value, tc.limit, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("sanitize produced invalid UTF-8: %q", got)
			}
			if strings.ContainsAny(got, "\n\r") {
				t.Fatalf("sanitize left line breaks: %q", got)
			}
		})
	}
}
