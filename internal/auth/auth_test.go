package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/store"
)

func TestAuthenticate(t *testing.T) {
	doc := store.Seed()

	u, err := Authenticate(doc, "TCH_001", "teacher123", "teacher")
	if err != nil {
		t.Fatalf("expected login to succeed: %v", err)
	}
	if u.Name != "John Teacher" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := Authenticate(doc, "TCH_001", "teacher123", "principal"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	// Unknown user and wrong password must be indistinguishable.
	_, errUnknown := Authenticate(doc, "TCH_999", "teacher123", "teacher")
	_, errWrongPw := Authenticate(doc, "TCH_001", "nope", "teacher")
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errUnknown, errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatal("unknown-user and wrong-password errors must match")
	}

	// A teacher id cannot log in through the student list.
	if _, err := Authenticate(doc, "TCH_001", "teacher123", "student"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials across roles, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	id := Identity{UserID: "STU_001", Role: "student", Name: "Alice Student"}
	sess, err := Issue(id, "classtrack", "test-key", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if sess.TokenID == "" {
		t.Fatal("expected a token id")
	}

	claims, err := Parse(sess.Token, "test-key", "classtrack")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "STU_001" || claims.Role != "student" || claims.Name != "Alice Student" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := Parse(sess.Token, "other-key", "classtrack"); err == nil {
		t.Fatal("expected parse failure with wrong key")
	}
	if _, err := Parse(sess.Token, "test-key", "other-issuer"); err == nil {
		t.Fatal("expected parse failure with wrong issuer")
	}
}

func newTestRouter(m *Middleware, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", m.Require(roles...), func(c *gin.Context) {
		id := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	return r
}

func TestRequireRejectsMissingAndWrongRole(t *testing.T) {
	m := &Middleware{SigningKey: "test-key", Issuer: "classtrack"}
	r := newTestRouter(m, "admin")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	sess, err := Issue(Identity{UserID: "STU_001", Role: "student", Name: "Alice"}, "classtrack", "test-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", w.Code)
	}
}

func TestRequireLegacyFallback(t *testing.T) {
	m := &Middleware{SigningKey: "test-key", Issuer: "classtrack", Fallbacks: LegacyFallbacks()}
	r := newTestRouter(m, "teacher")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected fallback identity to be accepted, got %d", w.Code)
	}

	// Admin routes never get a fallback identity.
	rAdmin := newTestRouter(m, "admin")
	w = httptest.NewRecorder()
	rAdmin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for admin without token, got %d", w.Code)
	}
}
