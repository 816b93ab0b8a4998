package auth

import (
	"testing"
	"time"

	"github.com/backsoul/teamquiz/pkg/errs"
)

func newTokens() *TokenService {
	return NewTokenService("admin-secret", "team-secret", time.Hour, time.Hour)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	tokens := newTokens()

	signed, err := tokens.SignAdminToken("user-1", "admin@example.com")
	if err != nil {
		t.Fatalf("SignAdminToken: %v", err)
	}

	principal, err := tokens.VerifyToken(signed)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if principal.Role != RoleAdmin || principal.UserID != "user-1" || principal.Email != "admin@example.com" {
		t.Errorf("principal = %+v", principal)
	}
}

func TestTeamTokenRoundTrip(t *testing.T) {
	tokens := newTokens()

	signed, err := tokens.SignTeamToken("team-1", "Red", "session-1")
	if err != nil {
		t.Fatalf("SignTeamToken: %v", err)
	}

	principal, err := tokens.VerifyToken(signed)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if principal.Role != RoleTeam || principal.TeamID != "team-1" || principal.TeamName != "Red" || principal.SessionID != "session-1" {
		t.Errorf("principal = %+v", principal)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	tokens := newTokens()

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := tokens.VerifyToken(raw); !errs.IsUnauthorized(err) {
			t.Errorf("VerifyToken(%q): err = %v, want Unauthorized", raw, err)
		}
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	tokens := newTokens()
	other := NewTokenService("other-admin", "other-team", time.Hour, time.Hour)

	adminToken, err := other.SignAdminToken("user-1", "admin@example.com")
	if err != nil {
		t.Fatalf("SignAdminToken: %v", err)
	}
	if _, err := tokens.VerifyToken(adminToken); !errs.IsUnauthorized(err) {
		t.Errorf("foreign admin token: err = %v, want Unauthorized", err)
	}

	teamToken, err := other.SignTeamToken("team-1", "Red", "session-1")
	if err != nil {
		t.Fatalf("SignTeamToken: %v", err)
	}
	if _, err := tokens.VerifyToken(teamToken); !errs.IsUnauthorized(err) {
		t.Errorf("foreign team token: err = %v, want Unauthorized", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	expired := NewTokenService("admin-secret", "team-secret", -time.Minute, -time.Minute)
	tokens := newTokens()

	signed, err := expired.SignAdminToken("user-1", "admin@example.com")
	if err != nil {
		t.Fatalf("SignAdminToken: %v", err)
	}
	if _, err := tokens.VerifyToken(signed); !errs.IsUnauthorized(err) {
		t.Errorf("expired token: err = %v, want Unauthorized", err)
	}
}
