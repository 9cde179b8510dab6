package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-management-api-server/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func newTestRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/")
	group.Use(Authenticate())
	if len(roles) > 0 {
		group.Use(Authorize(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"employeeID": c.GetString("user_employee_id")})
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	auth.SetSecret("middleware-test-secret")

	token, err := auth.GenerateJWT("doctor@hospital.local", "doctor", "EMP-001", "W-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"missing bearer prefix", token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	auth.SetSecret("middleware-test-secret")

	claims := &auth.JWTClaims{
		Email:      "doctor@hospital.local",
		Role:       "doctor",
		EmployeeID: "EMP-001",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.Secret())
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthorize(t *testing.T) {
	auth.SetSecret("middleware-test-secret")

	pharmacistToken, err := auth.GenerateJWT("ph@hospital.local", "pharmacist", "EMP-010", "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	nurseToken, err := auth.GenerateJWT("nurse@hospital.local", "nurse", "EMP-011", "W-2", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	router := newTestRouter("pharmacist", "superadmin")

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"allowed role", pharmacistToken, http.StatusOK},
		{"forbidden role", nurseToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
