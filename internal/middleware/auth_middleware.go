package middleware

import (
	"net/http"
	"strings"

	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	// IdentityKey is the gin context key carrying the resolved caller.
	IdentityKey = "identity"

	// GuestHeader carries a self-asserted guest username (7 digits).
	GuestHeader = "X-Guest-Username"
)

// IdentityMiddleware resolves the caller on every request: a valid JWT
// yields an authenticated identity, a guest header yields a guest
// identity, and neither yields an anonymous reader. It never rejects;
// the permission engine decides what each identity may do.
func IdentityMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Anonymous()

		if tokenString := bearerToken(c); tokenString != "" {
			claims, err := utils.ValidateToken(tokenString, jwtSecret)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid or expired token",
				})
				c.Abort()
				return
			}
			id = identity.Authenticated(claims.UserID, claims.Username, claims.Role)
			c.Set("claims", claims)
		} else if guestName := c.GetHeader(GuestHeader); guestName != "" {
			guest, ok := identity.Guest(guestName)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Guest usernames must be exactly 7 digits",
				})
				c.Abort()
				return
			}
			id = guest
		}

		c.Set(IdentityKey, id)
		c.Next()
	}
}

// RequireAuthenticated rejects guests and anonymous callers. Use it on
// routes that need a durable account (registration-backed features).
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if id.IsGuest || !id.IsResolved() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireResolved rejects only anonymous callers; guests pass.
func RequireResolved() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsResolved() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "A user or guest identity is required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminMiddleware requires the admin role. Guests have no role and can
// never pass.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity resolved by IdentityMiddleware,
// or an anonymous one when the middleware did not run.
func CurrentIdentity(c *gin.Context) identity.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Anonymous()
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != authHeader {
			return token
		}
	}
	// Cookie fallback: the browser client stores the token HTTP-only.
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}
