package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gen "github.com/kailas-cloud/memedex/internal/transport/generated"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doAuth(h http.Handler, method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeCode(t *testing.T, rr *httptest.ResponseRecorder) gen.ErrorResponseCode {
	t.Helper()
	var errResp gen.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return errResp.Code
}

func TestAuthMiddleware_NoKeys_PassThrough(t *testing.T) {
	for name, keys := range map[string]AuthKeys{
		"nil":           {},
		"empty strings": {ReadWrite: []string{"", ""}, ReadOnly: []string{""}},
	} {
		t.Run(name, func(t *testing.T) {
			h := BearerAuthMiddleware(keys)(okHandler())
			if rr := doAuth(h, "DELETE", "/api/memes/1", ""); rr.Code != http.StatusOK {
				t.Errorf("got %d, want 200", rr.Code)
			}
		})
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	h := BearerAuthMiddleware(AuthKeys{ReadWrite: []string{"secret"}})(okHandler())

	tests := []struct {
		name  string
		authz string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"wrong key", "Bearer wrong-key"},
		{"prefix of key", "Bearer secre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuth(h, "GET", "/api/memes", tt.authz)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want 401", rr.Code)
			}
			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
			if code := decodeCode(t, rr); code != gen.ErrorResponseCodeUnauthorized {
				t.Errorf("code = %s, want unauthorized", code)
			}
		})
	}
}

func TestAuthMiddleware_ReadWriteKeys(t *testing.T) {
	h := BearerAuthMiddleware(AuthKeys{ReadWrite: []string{"key1", "key2"}})(okHandler())

	for _, key := range []string{"key1", "key2"} {
		for _, method := range []string{"GET", "POST", "PATCH", "DELETE"} {
			if rr := doAuth(h, method, "/api/memes", "Bearer "+key); rr.Code != http.StatusOK {
				t.Errorf("%s %s: got %d, want 200", key, method, rr.Code)
			}
		}
	}
	if rr := doAuth(h, "GET", "/api/memes", "bearer key1"); rr.Code != http.StatusOK {
		t.Errorf("lowercase scheme: got %d, want 200", rr.Code)
	}
}

func TestAuthMiddleware_ReadOnlyKeys(t *testing.T) {
	h := BearerAuthMiddleware(AuthKeys{ReadWrite: []string{"admin"}, ReadOnly: []string{"viewer"}})(okHandler())

	if rr := doAuth(h, "GET", "/api/memes?q=cat", "Bearer viewer"); rr.Code != http.StatusOK {
		t.Errorf("read-only GET: got %d, want 200", rr.Code)
	}
	for _, method := range []string{"POST", "PATCH", "DELETE"} {
		rr := doAuth(h, method, "/api/memes/1", "Bearer viewer")
		if rr.Code != http.StatusForbidden {
			t.Errorf("read-only %s: got %d, want 403", method, rr.Code)
			continue
		}
		if code := decodeCode(t, rr); code != gen.ErrorResponseCodeForbidden {
			t.Errorf("read-only %s: code = %s, want forbidden", method, code)
		}
	}
	if rr := doAuth(h, "DELETE", "/api/memes/1", "Bearer admin"); rr.Code != http.StatusOK {
		t.Errorf("read-write DELETE: got %d, want 200", rr.Code)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	h := BearerAuthMiddleware(AuthKeys{ReadWrite: []string{"secret"}})(okHandler())

	for _, path := range []string{"/health", "/metrics"} {
		if rr := doAuth(h, "GET", path, ""); rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want 200", path, rr.Code)
		}
	}
}
