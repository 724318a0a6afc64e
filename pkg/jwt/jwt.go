package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secretKey = []byte("devmatch_dev_secret")

// Configure swaps the signing secret. Called once at startup from config;
// the default only exists for local development and tests.
func Configure(secret string) {
	if secret != "" {
		secretKey = []byte(secret)
	}
}

type jwtUserDataClaims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

func CreateToken(id int, username string) (string, error) {
	claims := jwtUserDataClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		UserID:   id,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func ValidateToken(tokenString string) (*jwtUserDataClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtUserDataClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*jwtUserDataClaims)
	if !ok {
		return nil, errors.New("could not parse claims")
	}

	return claims, nil
}
