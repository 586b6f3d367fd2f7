package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gefest173/meteora/internal/token"
	"github.com/gefest173/meteora/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine builds a minimal gin engine with the Auth middleware protecting
// GET /protected. The handler writes the subject from context so we can
// assert it was set.
func newEngine(issuer *token.Issuer) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, "%s", c.GetString("email"))
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if w := get(newEngine(issuer), ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if w := get(newEngine(issuer), "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_MalformedToken_Returns401(t *testing.T) {
	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if w := get(newEngine(issuer), "Bearer not.a.jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ExpiredToken_Returns401(t *testing.T) {
	expired := token.NewIssuer([]byte(testKey), -time.Hour)
	raw, err := expired.Issue("a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if w := get(newEngine(issuer), "Bearer "+raw); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_WrongKey_Returns401(t *testing.T) {
	other := token.NewIssuer([]byte("a-completely-different-signing-key!"), time.Hour)
	raw, err := other.Issue("a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	if w := get(newEngine(issuer), "Bearer "+raw); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_SetsSubject(t *testing.T) {
	issuer := token.NewIssuer([]byte(testKey), time.Hour)
	raw, err := issuer.Issue("a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := get(newEngine(issuer), "Bearer "+raw)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "a@x.com" {
		t.Errorf("subject = %q, want %q", w.Body.String(), "a@x.com")
	}
}
