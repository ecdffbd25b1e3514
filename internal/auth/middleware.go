package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Middleware gates routes on a valid session token and role.
type Middleware struct {
	SigningKey string
	Issuer     string
	Revoker    *Revoker

	// Fallbacks maps role to the identity assumed when no token is
	// presented. Only populated when the legacy identity fallback is
	// enabled; empty in normal operation.
	Fallbacks map[string]Identity
}

// LegacyFallbacks are the identities the original system assumed outside a
// session: teacher requests ran as TCH_001 and student requests as STU_001.
func LegacyFallbacks() map[string]Identity {
	return map[string]Identity{
		"teacher": {UserID: "TCH_001", Role: "teacher", Name: "John Teacher"},
		"student": {UserID: "STU_001", Role: "student", Name: "Alice Student"},
	}
}

// Require returns a handler enforcing a bearer session token whose role is
// one of roles (any authenticated role when empty).
func (m *Middleware) Require(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			for _, role := range roles {
				if id, ok := m.Fallbacks[role]; ok {
					c.Set(identityKey, id)
					c.Next()
					return
				}
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, m.SigningKey, m.Issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}
		if m.Revoker.Revoked(c.Request.Context(), claims.ID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "session expired"})
			return
		}
		if len(roles) > 0 && !roleAllowed(claims.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
			return
		}
		c.Set(identityKey, Identity{UserID: claims.Subject, Role: claims.Role, Name: claims.Name})
		c.Set("claims", claims)
		c.Next()
	}
}

func roleAllowed(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// IdentityFrom returns the identity set by Require.
func IdentityFrom(c *gin.Context) Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(Identity)
	return id
}

// ClaimsFrom returns the parsed claims, if the request carried a token.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
