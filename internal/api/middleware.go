package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// corsMiddleware allows the tablet frontends, which are served from other
// origins on the restaurant LAN, to reach the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// licenseGate blocks every request in its group while the license is
// invalid. Validity is recomputed per request; the process never stops
// serving the public endpoints.
func (s *Server) licenseGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := s.licenses.Verify()
		s.metrics.LicenseCheck(checkOutcome(status.Valid, status.Expired, status.Tampered))
		if !status.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":         "LICENSE_EXPIRED",
				"reason":        status.Reason,
				"daysRemaining": status.DaysRemaining,
			})
			return
		}
		c.Next()
	}
}

func checkOutcome(valid, expired, tampered bool) string {
	switch {
	case valid:
		return "valid"
	case expired:
		return "expired"
	case tampered:
		return "tampered"
	default:
		return "invalid"
	}
}

// adminAuth guards destructive admin operations in production with a bearer
// token signed with the configured admin secret. Development mode skips the
// check so local resets stay frictionless.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.cfg.IsProduction() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(s.cfg.AdminTokenSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}
