package security

import (
	"errors"
	"time"

	"blogsphere/internal/domain/model"
	"blogsphere/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues a self-contained bearer token carrying the user's
// id, username and role. The guard never consults the database, so the
// token stays valid until expiry even if the user record changes.
func GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(config.AppConfig.JWTExp).Unix(),
		"iat":      now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUsernameFromClaims(claims jwt.MapClaims) (string, error) {
	username, ok := claims["username"].(string)
	if !ok {
		return "", errors.New("username claim is missing or not a string")
	}
	return username, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

// IdentityFromClaims assembles the request identity from decoded claims.
func IdentityFromClaims(claims jwt.MapClaims) (model.Identity, error) {
	userID, err := GetUserIDFromClaims(claims)
	if err != nil {
		return model.Identity{}, err
	}
	username, err := GetUsernameFromClaims(claims)
	if err != nil {
		return model.Identity{}, err
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return model.Identity{}, err
	}
	return model.Identity{UserID: userID, Username: username, Role: role}, nil
}
