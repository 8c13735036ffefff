package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pollen-calendar/internal/domain/auth"
	apperrors "github.com/yanqian/pollen-calendar/pkg/errors"
)

// authMiddleware rejects requests without a valid access token.
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// optionalAuthMiddleware attaches claims when a token is present. A present but invalid token
// still fails the request.
func optionalAuthMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, err := bearerToken(header)
		if err != nil {
			abortWithError(c, err)
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "missing authorization header", nil)
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "invalid authorization header", nil)
	}
	return strings.TrimSpace(token), nil
}
