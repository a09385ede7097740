package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/server/models"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	actor := models.Actor{ID: 123, Role: models.RoleSupervisor}

	tok, err := GenerateToken(actor, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := GetActorFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetActorFromToken error: %v", err)
	}
	if got != actor {
		t.Fatalf("actor mismatch: got %+v want %+v", got, actor)
	}
}

func TestGetActorFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	actor := models.Actor{ID: 1, Role: models.RoleAgent}

	tok, err := GenerateToken(actor, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetActorFromToken(tok, secret)
	if err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expired token must not report as invalid: %v", err)
	}
}

func TestGetActorFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(models.Actor{ID: 2, Role: models.RoleAdmin}, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetActorFromToken(tok, []byte("wrong-secret"))
	if err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestGetActorFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetActorFromToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestCanUpdateEmployer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actor   models.Actor
		creator int64
		want    bool
	}{
		{"supervisor, not creator", models.Actor{ID: 2, Role: models.RoleSupervisor}, 1, true},
		{"admin, not creator", models.Actor{ID: 2, Role: models.RoleAdmin}, 1, true},
		{"validation agent, not creator", models.Actor{ID: 2, Role: models.RoleValidationAgent}, 1, true},
		{"field agent, not creator", models.Actor{ID: 2, Role: models.RoleAgent}, 1, false},
		{"admin but creator", models.Actor{ID: 1, Role: models.RoleAdmin}, 1, false},
		{"supervisor but creator", models.Actor{ID: 1, Role: models.RoleSupervisor}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanUpdateEmployer(tt.actor, tt.creator); got != tt.want {
				t.Fatalf("CanUpdateEmployer = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
}
