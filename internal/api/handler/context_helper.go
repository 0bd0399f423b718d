package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kasperversteeg/kade-shifts/pkg/response"
)

// MustGetUserID extracts user_id from the Gin context. When the JWT
// middleware did not inject it, writes a 401 and returns false; the
// caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetRole extracts role from the Gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// getAccessToken extracts the access token's JTI and expiry injected
// by the JWT middleware. Both are zero-valued when absent; logout
// treats that as nothing to revoke.
func getAccessToken(c *gin.Context) (jti string, expiry time.Time) {
	if v, exists := c.Get("access_jti"); exists {
		jti, _ = v.(string)
	}
	if v, exists := c.Get("access_expiry"); exists {
		expiry, _ = v.(time.Time)
	}
	return jti, expiry
}
