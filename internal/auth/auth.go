// server/internal/auth/auth.go
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeID"`
	WardNumber string `json:"wardNumber"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// JWT Generation
var jwtSecret = []byte("CHANGE_ME_IN_CONFIG")

// SetSecret installs the signing secret from configuration. Call once at startup.
func SetSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

// Secret returns the installed signing secret for token parsing.
func Secret() []byte {
	return jwtSecret
}

func GenerateJWT(email, role, employeeID, wardNumber string, expiration time.Duration) (string, error) {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	expirationTime := time.Now().Add(expiration)
	claims := &JWTClaims{
		Email:      email,
		Role:       role,
		EmployeeID: employeeID,
		WardNumber: wardNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
