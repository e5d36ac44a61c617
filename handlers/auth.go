package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/FTCService/JSJREWARD/services"

	"github.com/gin-gonic/gin"
)

// extractToken pulls the bearer token out of the Authorization header. The SSO
// server issues "Token <key>" style headers.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	for _, prefix := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	return ""
}

// BusinessAuthMiddleware verifies the request against the SSO server and puts
// the business principal on the context.
func BusinessAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := AuthServer.VerifyBusinessToken(extractToken(c))
		if err != nil {
			if errors.Is(err, services.ErrAuthServerUnreachable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Authentication service unreachable. Try again later."})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization token is missing or incorrect."})
			}
			c.Abort()
			return
		}

		c.Set("business_id", principal.BusinessID)
		c.Set("business_name", principal.BusinessName)
		c.Next()
	}
}

// MemberAuthMiddleware verifies the request against the SSO server and puts
// the member principal on the context.
func MemberAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := AuthServer.VerifyMemberToken(extractToken(c))
		if err != nil {
			if errors.Is(err, services.ErrAuthServerUnreachable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Authentication service unreachable. Try again later."})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization token is missing or incorrect."})
			}
			c.Abort()
			return
		}

		c.Set("card_number", principal.CardNumber)
		c.Set("full_name", principal.FullName)
		c.Next()
	}
}

func businessID(c *gin.Context) int64 {
	return c.GetInt64("business_id")
}

func memberCardNumber(c *gin.Context) string {
	return c.GetString("card_number")
}
