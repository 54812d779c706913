// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the identity contract consumed by the marketplace
// routes. Token issuance and verification live in the upstream gateway; by
// the time a request reaches this service, the gateway has translated the
// session into plain identity headers. The middleware here only lifts those
// headers into the request context and enforces presence/role.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity headers injected by the authenticating gateway.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// Roles understood by the service.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Context keys under which the identity is stored.
const (
	ctxKeyUserID   = "userID"
	ctxKeyUserName = "userName"
	ctxKeyUserRole = "userRole"
)

// Identity requires a gateway-authenticated user on every request and
// stashes (id, name, role) in the Gin context. Requests without X-User-ID
// are rejected with 401 — the checkout core never operates on an anonymous
// caller. An unrecognized role collapses to "user".
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}

		role := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderUserRole)))
		if role != RoleAdmin {
			role = RoleUser
		}

		c.Set(ctxKeyUserID, uid)
		c.Set(ctxKeyUserName, strings.TrimSpace(c.GetHeader(HeaderUserName)))
		c.Set(ctxKeyUserRole, role)
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers with 403. Must run after Identity().
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserRole(c) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "forbidden",
				"message":    "admin access required",
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id from the Gin context, or "".
func UserID(c *gin.Context) string { return ctxString(c, ctxKeyUserID) }

// UserName returns the authenticated user's display name, or "".
func UserName(c *gin.Context) string { return ctxString(c, ctxKeyUserName) }

// UserRole returns the caller's role; empty when Identity() did not run.
func UserRole(c *gin.Context) string { return ctxString(c, ctxKeyUserRole) }

func ctxString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
