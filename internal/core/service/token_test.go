package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, zerolog.Nop())

	token, err := codec.Issue("acc-1", domain.RoleProcessing)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.SubjectID != "acc-1" {
		t.Errorf("SubjectID = %q, want acc-1", claims.SubjectID)
	}
	if claims.Role != domain.RoleProcessing {
		t.Errorf("Role = %q, want processing", claims.Role)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, zerolog.Nop())

	issued := time.Now()
	codec.now = func() time.Time { return issued }
	token, err := codec.Issue("acc-1", domain.RoleStudent)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Jump past the ttl; the same codec must now reject the token.
	codec.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := codec.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("Validate after expiry = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := NewTokenCodec("secret-a", time.Hour, zerolog.Nop())
	verifier := NewTokenCodec("secret-b", time.Hour, zerolog.Nop())

	token, err := issuer.Issue("acc-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("Validate with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, zerolog.Nop())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestTokenCodec_DefaultTTL(t *testing.T) {
	codec := NewTokenCodec("test-secret", 0, zerolog.Nop())
	if codec.ttl != DefaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", codec.ttl, DefaultTokenTTL)
	}
}
