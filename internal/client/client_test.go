package client

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alphabot-ai/skillswap/internal/model"
)

func TestGenerateCredentials(t *testing.T) {
	creds, err := GenerateCredentials("ada")
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}

	if creds.Name != "ada" {
		t.Errorf("expected name 'ada', got '%s'", creds.Name)
	}

	if creds.PublicKey == "" {
		t.Error("expected non-empty public key")
	}

	if len(creds.PrivateKey) == 0 {
		t.Error("expected non-empty private key")
	}
}

func TestCredentialsSign(t *testing.T) {
	creds, err := GenerateCredentials("ada")
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}

	sig := creds.Sign("test message")
	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	pub, _ := base64.StdEncoding.DecodeString(creds.PublicKey)
	if !ed25519.Verify(ed25519.PublicKey(pub), []byte("test message"), raw) {
		t.Fatalf("signature does not verify")
	}
}

func TestCredentialsFromKeys(t *testing.T) {
	orig, err := GenerateCredentials("ada")
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}

	loaded, err := CredentialsFromKeys("ada", orig.PublicKey, orig.PrivateKeyBase64())
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if loaded.Sign("hello") != orig.Sign("hello") {
		t.Fatalf("expected loaded key to sign like the original")
	}

	if _, err := CredentialsFromKeys("ada", orig.PublicKey, base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Fatalf("expected short key to be rejected")
	}
}

func TestClientNew(t *testing.T) {
	c := New("https://example.com")

	if c.BaseURL != "https://example.com" {
		t.Errorf("expected base URL 'https://example.com', got '%s'", c.BaseURL)
	}

	if c.HTTPClient == nil {
		t.Error("expected non-nil HTTP client")
	}

	if c.IsAuthenticated() {
		t.Error("expected new client to not be authenticated")
	}
}

func TestCallReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "admin access required"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Token = "tok"
	_, err := c.Report()
	if err == nil {
		t.Fatalf("expected error")
	}
	if StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%v)", StatusCode(err), err)
	}
	if err.Error() != "report failed (403): admin access required" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestAuditLogQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/admin/logs" || q.Get("target_type") != "user" || q.Get("target_id") != "7" || q.Get("limit") != "5" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode([]model.AuditEntry{{ID: 1, AdminID: 2, Action: model.ActionBanUser, TargetType: model.TargetUser, TargetID: 7}})
	}))
	defer srv.Close()

	entries, err := New(srv.URL).AuditLog(model.TargetUser, 7, 5)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != model.ActionBanUser {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestRegisterConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/challenge":
			_ = json.NewEncoder(w).Encode(map[string]string{"challenge": "abc"})
		case "/api/accounts":
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "display_name already taken"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	creds, _ := GenerateCredentials("ada")
	if _, err := New(srv.URL).Register(creds, "", ""); err != ErrAlreadyRegistered {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}
