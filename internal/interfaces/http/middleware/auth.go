package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/auth"
	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

// TokenVerifier checks an operator bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RoleResolver maps an operator id to its permission role.
type RoleResolver interface {
	RoleOf(operatorID string) string
}

type AuthMiddleware struct {
	verifier TokenVerifier
	roles    RoleResolver
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, roles RoleResolver, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		roles:    roles,
		logger:   logger,
	}
}

// RequireOperator authenticates the caller and stores its operator id and
// role in the context. Browsers opening the WebSocket cannot set headers, so
// a `token` query parameter is accepted as well.
func (m *AuthMiddleware) RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")

		if token == "" {
			authHeader := c.GetHeader(constants.HeaderAuthorization)
			if authHeader == "" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
				c.Abort()
				return
			}

			token = parts[1]
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOperatorID, claims.OperatorID)
		c.Set(constants.ContextKeyOperatorRole, m.roles.RoleOf(claims.OperatorID))

		c.Next()
	}
}
