package security

import (
	"testing"
	"time"

	"blogsphere/internal/domain/model"
	"blogsphere/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

func initTestJWT(t *testing.T, exp time.Duration) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: exp}
	InitJWT()
}

func TestGenerateTokenVerifies(t *testing.T) {
	initTestJWT(t, time.Hour)

	user := &model.User{ID: "u1", Username: "alice", Role: model.RoleUser}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if _, err := jwtauth.VerifyToken(TokenAuth, token); err != nil {
		t.Fatalf("expected token to verify: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	initTestJWT(t, -time.Hour)

	token, err := GenerateToken(&model.User{ID: "u1", Username: "alice", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := jwtauth.VerifyToken(TokenAuth, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestIdentityFromClaims(t *testing.T) {
	claims := jwt.MapClaims{"user_id": "u1", "username": "alice", "role": model.RoleAdmin}
	identity, err := IdentityFromClaims(claims)
	if err != nil {
		t.Fatalf("identity from claims: %v", err)
	}
	if identity.UserID != "u1" || identity.Username != "alice" || !identity.IsAdmin() {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestIdentityFromClaimsMissing(t *testing.T) {
	cases := []jwt.MapClaims{
		{"username": "alice", "role": "user"},
		{"user_id": "u1", "role": "user"},
		{"user_id": "u1", "username": "alice"},
		{"user_id": 42, "username": "alice", "role": "user"},
	}
	for i, claims := range cases {
		if _, err := IdentityFromClaims(claims); err == nil {
			t.Fatalf("case %d: expected error for claims %v", i, claims)
		}
	}
}
