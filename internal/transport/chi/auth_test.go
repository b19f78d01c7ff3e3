package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	keys := []string{"key-one", "key-two"}
	tests := []struct {
		name     string
		keys     []string
		path     string
		header   string
		wantCode int
		wantMsg  string
	}{
		{name: "no keys disables auth", keys: nil, path: "/api/chat", wantCode: http.StatusOK},
		{name: "empty keys disable auth", keys: []string{"", ""}, path: "/api/chat", wantCode: http.StatusOK},
		{name: "missing header", keys: keys, path: "/api/chat", wantCode: http.StatusUnauthorized,
			wantMsg: "missing authorization header"},
		{name: "basic scheme", keys: keys, path: "/api/chat", header: "Basic dXNlcjpwYXNz",
			wantCode: http.StatusUnauthorized, wantMsg: "authorization header must use Bearer scheme"},
		{name: "empty bearer", keys: keys, path: "/api/chat", header: "Bearer ",
			wantCode: http.StatusUnauthorized, wantMsg: "authorization header must use Bearer scheme"},
		{name: "unknown key", keys: keys, path: "/api/chat", header: "Bearer nope",
			wantCode: http.StatusUnauthorized, wantMsg: "invalid api key"},
		{name: "first key", keys: keys, path: "/api/chat", header: "Bearer key-one", wantCode: http.StatusOK},
		{name: "second key", keys: keys, path: "/api/chat", header: "Bearer key-two", wantCode: http.StatusOK},
		{name: "lowercase scheme", keys: keys, path: "/api/chat", header: "bearer key-two", wantCode: http.StatusOK},
		{name: "prefix of a key", keys: keys, path: "/api/chat", header: "Bearer key-",
			wantCode: http.StatusUnauthorized, wantMsg: "invalid api key"},
		{name: "health is public", keys: keys, path: "/health", wantCode: http.StatusOK},
		{name: "metrics is public", keys: keys, path: "/metrics", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(tt.keys)(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusUnauthorized {
				return
			}
			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header")
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != ErrorCodeUnauthorized || body.Message != tt.wantMsg {
				t.Errorf("body = %+v, want code %q message %q", body, ErrorCodeUnauthorized, tt.wantMsg)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", http.NoBody)
	req.Header.Set("Authorization", "Bearer  abc ")
	if tok, ok := bearerToken(req); !ok || tok != "abc" {
		t.Errorf("bearerToken = %q, %v", tok, ok)
	}
}
