package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/habibpatelhabib78-png/dailymate-app/internal/model"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	if pub == "" {
		t.Error("expected non-empty public key")
	}
	if priv == "" {
		t.Error("expected non-empty private key")
	}

	// Public key should be base64url-encoded, 65 bytes uncompressed P-256 point
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	// Private key should be base64url-encoded, 32 bytes P-256 scalar
	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) != 32 {
		t.Errorf("private key length = %d, want 32", len(privBytes))
	}

	// a second pair must differ
	pub2, _, _ := GenerateVAPIDKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func TestGenerateVAPIDKeysAlwaysFullLength(t *testing.T) {
	for i := 0; i < 64; i++ {
		_, priv, err := GenerateVAPIDKeys()
		if err != nil {
			t.Fatalf("generate VAPID keys: %v", err)
		}
		b, err := base64.RawURLEncoding.DecodeString(priv)
		if err != nil {
			t.Fatalf("decode private key: %v", err)
		}
		if len(b) != 32 {
			t.Fatalf("private key length = %d, want 32", len(b))
		}
	}
}

// testSubscription returns a subscription with real browser-style keys
// pointing at endpoint.
func testSubscription(t *testing.T, endpoint string) *model.PushSubscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate subscription key: %v", err)
	}
	auth := make([]byte, 16)
	if _, err := rand.Read(auth); err != nil {
		t.Fatalf("generate auth secret: %v", err)
	}
	return &model.PushSubscription{
		ID:        1,
		Endpoint:  endpoint,
		P256dhKey: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		AuthKey:   base64.RawURLEncoding.EncodeToString(auth),
	}
}

func TestServiceSendStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
		fails   bool
	}{
		{"created", http.StatusCreated, nil, false},
		{"gone", http.StatusGone, ErrExpired, true},
		{"not found", http.StatusNotFound, ErrExpired, true},
		{"server error", http.StatusInternalServerError, nil, true},
	}

	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}
	svc := NewService(pub, priv, "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := make(chan string, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth <- r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := svc.Send(context.Background(), testSubscription(t, srv.URL+"/push/abc"), Payload{Title: "Alarm", Body: "Meds"})
			if tt.fails != (err != nil) {
				t.Fatalf("Send() error = %v, want failure %v", err, tt.fails)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
			}
			if got := <-auth; got == "" {
				t.Error("request carried no VAPID authorization")
			}
		})
	}
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService("pub", "priv", "")
	if svc.subscriber != DefaultSubscriber {
		t.Errorf("subscriber = %q, want %q", svc.subscriber, DefaultSubscriber)
	}
	if !svc.Enabled() {
		t.Error("service with keys should be enabled")
	}
	if NewService("", "", "").Enabled() {
		t.Error("service without keys should be disabled")
	}
	if got := svc.VAPIDPublicKey(); got != "pub" {
		t.Errorf("VAPIDPublicKey() = %q, want %q", got, "pub")
	}
}
