package service

import (
	"strings"
	"testing"
	"time"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", 0)
	in := domain.Identity{ID: "p1", Username: "partner1", Email: "p1@example.com", Role: domain.RolePartner}

	token, err := svc.Issue(in)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	out, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if *out != in {
		t.Fatalf("expected %+v, got %+v", in, *out)
	}
}

func TestTokenService_DefaultTTLIsSevenDays(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", 0)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(domain.Identity{ID: "p1", Role: domain.RolePartner})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(7*24*time.Hour - time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	svc.now = func() time.Time { return issued.Add(7*24*time.Hour + time.Minute) }
	if _, err := svc.Verify(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestTokenService_RejectsTamperedSignature(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue(domain.Identity{ID: "p1", Role: domain.RolePartner})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.Verify(tampered); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenService("other", time.Hour).Issue(domain.Identity{ID: "admin", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenService("secret", time.Hour).Verify(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	if _, err := NewTokenService("secret", time.Hour).Verify("not-a-token"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
