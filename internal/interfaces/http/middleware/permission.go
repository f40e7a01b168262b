package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

// PermissionChecker answers whether a role may perform action on resource.
type PermissionChecker interface {
	Enforce(role, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	checker PermissionChecker
	logger  logger.Interface
}

func NewPermissionMiddleware(checker PermissionChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePermission must run after RequireOperator.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.GetString(constants.ContextKeyOperatorID)
		if operatorID == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "operator not authenticated")
			c.Abort()
			return
		}

		if !m.Allowed(c, resource, action) {
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Allowed checks the caller's role inline, for decisions that depend on the
// request itself. Checker errors deny.
func (m *PermissionMiddleware) Allowed(c *gin.Context, resource, action string) bool {
	role := c.GetString(constants.ContextKeyOperatorRole)
	allowed, err := m.checker.Enforce(role, resource, action)
	if err != nil {
		m.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false
	}
	if !allowed {
		m.logger.Warnw("permission denied",
			"operator_id", c.GetString(constants.ContextKeyOperatorID),
			"role", role,
			"resource", resource,
			"action", action)
	}
	return allowed
}
