package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/shared/auth"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth())
	r.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/v1/flows/flow-1", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": UserIDFromContext(c),
			"token":  TokenFromContext(c),
		})
	})
	return r
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/flows/flow-1", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Anmeldung erforderlich") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestAuthAllowsLoginWithoutToken(t *testing.T) {
	r := newAuthRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAuthStoresIdentityAndRawToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.SignJWT(auth.Claims{UserID: "user-1", Email: "max@example.de"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/flows/flow-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"userId":"user-1"`) {
		t.Fatalf("body = %s", resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), token) {
		t.Fatalf("raw token not stored: %s", resp.Body.String())
	}
}

func TestAuthReportsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	past := time.Now().UTC().Add(-time.Hour).Unix()
	token, err := auth.SignJWT(auth.Claims{UserID: "user-1", Exp: past, Iat: past - 3600})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	r := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/flows/flow-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Token abgelaufen") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	r := newAuthRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/api/v1/flows/flow-1", nil))

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
