package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/permission"
	transferhandlers "github.com/Saaayurii/Chat-sub000/internal/interfaces/http/handlers/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/interfaces/http/middleware"
)

type TransferRouteConfig struct {
	TransferHandler      *transferhandlers.TransferHandler
	WSHandler            *transferhandlers.WSHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimitMiddleware  *middleware.RateLimitMiddleware
}

func SetupTransferRoutes(engine *gin.Engine, config *TransferRouteConfig) {
	h := config.TransferHandler
	perm := config.PermissionMiddleware

	transfers := engine.Group("/transfer")
	transfers.Use(config.AuthMiddleware.RequireOperator())
	{
		// one upgrade per socket; not rate limited
		transfers.GET("/ws", config.WSHandler.Serve)

		limited := transfers.Group("")
		limited.Use(config.RateLimitMiddleware.Limit())

		// Register specific paths BEFORE /:transferId
		limited.POST("/request",
			perm.RequirePermission(permission.ResourceTransfer, permission.ActionRequest),
			h.RequestTransfer)
		limited.PUT("/respond",
			perm.RequirePermission(permission.ResourceTransfer, permission.ActionRespond),
			h.RespondTransfer)
		limited.DELETE("/cancel/:transferId",
			perm.RequirePermission(permission.ResourceTransfer, permission.ActionCancel),
			h.CancelTransfer)
		limited.GET("/history",
			perm.RequirePermission(permission.ResourceTransfer, permission.ActionRead),
			h.History)

		queue := limited.Group("/queue")
		{
			queue.POST("/add",
				perm.RequirePermission(permission.ResourceQueue, permission.ActionEnqueue),
				h.Enqueue)
			queue.GET("/position/:queueId",
				perm.RequirePermission(permission.ResourceQueue, permission.ActionRead),
				h.QueuePosition)
			// assigning for someone else is checked inside the handler
			queue.POST("/assign/:operatorId",
				perm.RequirePermission(permission.ResourceQueue, permission.ActionAssignNext),
				h.AssignNext)
			queue.DELETE("/remove/:queueId",
				perm.RequirePermission(permission.ResourceQueue, permission.ActionRemove),
				h.RemoveEntry)
			queue.GET("/stats",
				perm.RequirePermission(permission.ResourceQueue, permission.ActionRead),
				h.QueueStats)
		}

		limited.POST("/auto-assign",
			perm.RequirePermission(permission.ResourceAssignment, permission.ActionAutoAssign),
			h.AutoAssign)
		limited.POST("/bulk-assign",
			perm.RequirePermission(permission.ResourceAssignment, permission.ActionBulkAssign),
			h.BulkAssign)

		// Generic parameterized route (must come LAST)
		limited.GET("/:transferId",
			perm.RequirePermission(permission.ResourceTransfer, permission.ActionRead),
			h.GetTransfer)
	}
}
