package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func newTestService(ttlMin int, at time.Time) *TokenService {
	s := NewTokenService("test-secret-please-ignore", ttlMin)
	s.now = func() time.Time { return at }
	return s
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(60, base)

	cases := []struct {
		name   string
		userID uint64
		roles  []string
	}{
		{"user role", 42, []string{"USER"}},
		{"admin roles", 7, []string{"USER", "ADMIN"}},
		{"large id", 18446744073709551614, []string{"USER"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, exp, err := s.Issue(tc.userID, tc.roles)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if !exp.Equal(base.Add(60 * time.Minute)) {
				t.Errorf("expiry = %v, want %v", exp, base.Add(60*time.Minute))
			}
			uid, roles, err := s.Validate(raw)
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if uid != tc.userID {
				t.Errorf("subject = %d, want %d", uid, tc.userID)
			}
			if len(roles) != len(tc.roles) {
				t.Fatalf("roles = %v, want %v", roles, tc.roles)
			}
			for i := range roles {
				if roles[i] != tc.roles[i] {
					t.Errorf("roles = %v, want %v", roles, tc.roles)
				}
			}
		})
	}
}

func TestValidate_Expiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(60, base)
	raw, exp, err := s.Issue(1, []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Just before expiry the token still validates.
	s.now = func() time.Time { return exp.Add(-time.Second) }
	if _, _, err := s.Validate(raw); err != nil {
		t.Fatalf("Validate before expiry: %v", err)
	}

	// Past expiry it fails with the expiry sentinel, not a generic error.
	s.now = func() time.Time { return exp.Add(time.Second) }
	if _, _, err := s.Validate(raw); err != ErrExpiredToken {
		t.Fatalf("Validate after expiry = %v, want ErrExpiredToken", err)
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(60, base)
	raw, _, err := s.Issue(1, []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	// Flipping any single bit of the MAC must fail verification.
	for i := range sig {
		for bit := 0; bit < 8; bit++ {
			mutated := make([]byte, len(sig))
			copy(mutated, sig)
			mutated[i] ^= 1 << bit
			forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(mutated)
			if _, _, err := s.Validate(forged); err != ErrBadSignature {
				t.Fatalf("bit %d of byte %d flipped: err = %v, want ErrBadSignature", bit, i, err)
			}
		}
	}
}

func TestValidate_WrongKey(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(60, base)
	raw, _, err := issuer.Issue(1, []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := NewTokenService("a-different-secret", 60)
	other.now = func() time.Time { return base }
	if _, _, err := other.Validate(raw); err != ErrBadSignature {
		t.Fatalf("Validate with wrong key = %v, want ErrBadSignature", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	s := newTestService(60, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	for _, raw := range []string{
		"",
		"not-a-token",
		"a.b",
		"%%%.%%%.%%%",
		"eyJhbGciOiJIUzI1NiJ9",
	} {
		if _, _, err := s.Validate(raw); err != ErrMalformedToken {
			t.Errorf("Validate(%q) = %v, want ErrMalformedToken", raw, err)
		}
	}
}

func TestIssue_NoKey(t *testing.T) {
	s := NewTokenService("", 60)
	if _, _, err := s.Issue(1, []string{"USER"}); err != ErrSigning {
		t.Fatalf("Issue without key = %v, want ErrSigning", err)
	}
}
