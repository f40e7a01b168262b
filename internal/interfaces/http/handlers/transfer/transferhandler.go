// Package transfer provides the HTTP and WebSocket handlers of the transfer service.
package transfer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/usecases"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/permission"
	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	"github.com/Saaayurii/Chat-sub000/internal/shared/id"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

// PermissionGate decides request-dependent permissions inline.
type PermissionGate interface {
	Allowed(c *gin.Context, resource, action string) bool
}

type TransferHandler struct {
	requestTransferUC usecases.RequestTransferExecutor
	respondTransferUC usecases.RespondTransferExecutor
	cancelTransferUC  usecases.CancelTransferExecutor
	getTransferUC     usecases.GetTransferExecutor
	historyUC         usecases.TransferHistoryExecutor
	enqueueUC         usecases.EnqueueExecutor
	queuePositionUC   usecases.QueuePositionExecutor
	assignNextUC      usecases.AssignNextExecutor
	removeEntryUC     usecases.RemoveEntryExecutor
	queueStatsUC      usecases.QueueStatsExecutor
	autoAssignUC      usecases.AutoAssignExecutor
	bulkAssignUC      usecases.BulkAssignExecutor
	gate              PermissionGate
	logger            logger.Interface
}

// Executors groups the use cases the handler serves.
type Executors struct {
	RequestTransfer usecases.RequestTransferExecutor
	RespondTransfer usecases.RespondTransferExecutor
	CancelTransfer  usecases.CancelTransferExecutor
	GetTransfer     usecases.GetTransferExecutor
	History         usecases.TransferHistoryExecutor
	Enqueue         usecases.EnqueueExecutor
	QueuePosition   usecases.QueuePositionExecutor
	AssignNext      usecases.AssignNextExecutor
	RemoveEntry     usecases.RemoveEntryExecutor
	QueueStats      usecases.QueueStatsExecutor
	AutoAssign      usecases.AutoAssignExecutor
	BulkAssign      usecases.BulkAssignExecutor
}

func NewTransferHandler(ex Executors, gate PermissionGate, log logger.Interface) *TransferHandler {
	return &TransferHandler{
		requestTransferUC: ex.RequestTransfer,
		respondTransferUC: ex.RespondTransfer,
		cancelTransferUC:  ex.CancelTransfer,
		getTransferUC:     ex.GetTransfer,
		historyUC:         ex.History,
		enqueueUC:         ex.Enqueue,
		queuePositionUC:   ex.QueuePosition,
		assignNextUC:      ex.AssignNext,
		removeEntryUC:     ex.RemoveEntry,
		queueStatsUC:      ex.QueueStats,
		autoAssignUC:      ex.AutoAssign,
		bulkAssignUC:      ex.BulkAssign,
		gate:              gate,
		logger:            log,
	}
}

// RequestTransfer handles POST /transfer/request
// @Summary Request a transfer
// @Description Offer the caller's conversation to another operator
// @Tags transfers
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body RequestTransferRequest true "Transfer offer"
// @Success 201 {object} utils.APIResponse{data=dto.TransferDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /transfer/request [post]
func (h *TransferHandler) RequestTransfer(c *gin.Context) {
	var req RequestTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for request transfer", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.requestTransferUC.Execute(c.Request.Context(), req.ToCommand(callerID(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Transfer requested")
}

// RespondTransfer handles PUT /transfer/respond
// @Summary Respond to a transfer
// @Description Accept or reject a pending transfer addressed to the caller
// @Tags transfers
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body RespondTransferRequest true "Response"
// @Success 200 {object} utils.APIResponse{data=dto.TransferDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /transfer/respond [put]
func (h *TransferHandler) RespondTransfer(c *gin.Context) {
	var req RespondTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for respond transfer", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err := id.ValidatePrefix(req.TransferID, id.PrefixTransfer); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid transfer ID format, expected tr_xxxxx"))
		return
	}

	result, err := h.respondTransferUC.Execute(c.Request.Context(), usecases.RespondTransferCommand{
		TransferID:  req.TransferID,
		Accepted:    *req.Accepted,
		Reason:      req.Reason,
		RespondedBy: callerID(c),
		AnyParty:    h.gate.Allowed(c, permission.ResourceTransfer, permission.ActionRespondAny),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Transfer "+result.Status, result)
}

// CancelTransfer handles DELETE /transfer/cancel/:transferId
// @Summary Cancel a transfer
// @Description Withdraw a pending transfer the caller requested
// @Tags transfers
// @Produce json
// @Security Bearer
// @Param transferId path string true "Transfer ID (tr_xxx)"
// @Success 200 {object} utils.APIResponse{data=dto.TransferDTO}
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /transfer/cancel/{transferId} [delete]
func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	transferID, err := utils.ParseSIDParam(c, "transferId", id.PrefixTransfer, "transfer")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.cancelTransferUC.Execute(c.Request.Context(), usecases.CancelTransferCommand{
		TransferID:  transferID,
		CancelledBy: callerID(c),
		AnyParty:    h.gate.Allowed(c, permission.ResourceTransfer, permission.ActionCancelAny),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Transfer cancelled", result)
}

// GetTransfer handles GET /transfer/:transferId
// @Summary Get a transfer
// @Tags transfers
// @Produce json
// @Security Bearer
// @Param transferId path string true "Transfer ID (tr_xxx)"
// @Success 200 {object} utils.APIResponse{data=dto.TransferDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /transfer/{transferId} [get]
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	transferID, err := utils.ParseSIDParam(c, "transferId", id.PrefixTransfer, "transfer")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTransferUC.Execute(c.Request.Context(), usecases.GetTransferQuery{TransferID: transferID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// History handles GET /transfer/history?limit=
// @Summary Transfer history
// @Description Transfers the caller sent or received, newest first
// @Tags transfers
// @Produce json
// @Security Bearer
// @Param limit query int false "Max results" default(20)
// @Success 200 {object} utils.APIResponse{data=[]dto.TransferDTO}
// @Router /transfer/history [get]
func (h *TransferHandler) History(c *gin.Context) {
	limit, err := utils.ParseLimit(c, "limit", constants.DefaultHistoryLimit, constants.MaxHistoryLimit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.historyUC.Execute(c.Request.Context(), usecases.TransferHistoryQuery{
		OperatorID: callerID(c),
		Limit:      limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Enqueue handles POST /transfer/queue/add
// @Summary Queue a visitor
// @Tags queue
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body EnqueueRequest true "Visitor to queue"
// @Success 201 {object} utils.APIResponse{data=usecases.EnqueueResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /transfer/queue/add [post]
func (h *TransferHandler) Enqueue(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for enqueue", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.enqueueUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Visitor queued")
}

// QueuePosition handles GET /transfer/queue/position/:queueId
// @Summary Queue position
// @Tags queue
// @Produce json
// @Security Bearer
// @Param queueId path string true "Queue entry ID (qe_xxx)"
// @Success 200 {object} utils.APIResponse{data=dto.PositionDTO}
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /transfer/queue/position/{queueId} [get]
func (h *TransferHandler) QueuePosition(c *gin.Context) {
	queueID, err := utils.ParseSIDParam(c, "queueId", id.PrefixQueueEntry, "queue entry")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.queuePositionUC.Execute(c.Request.Context(), usecases.QueuePositionQuery{QueueID: queueID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AssignNext handles POST /transfer/queue/assign/:operatorId. Assigning on
// behalf of another operator needs the supervisor permission.
// @Summary Assign the next visitor
// @Description Hand the highest-ranked waiting visitor to the operator
// @Tags queue
// @Produce json
// @Security Bearer
// @Param operatorId path string true "Operator ID"
// @Success 200 {object} utils.APIResponse{data=dto.QueueEntryDTO}
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /transfer/queue/assign/{operatorId} [post]
func (h *TransferHandler) AssignNext(c *gin.Context) {
	operatorID := c.Param("operatorId")
	if !utils.IsOpaqueID(operatorID) {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid operator ID"))
		return
	}
	if operatorID != callerID(c) && !h.gate.Allowed(c, permission.ResourceQueue, permission.ActionAssignFor) {
		utils.ErrorResponse(c, http.StatusForbidden, "cannot assign on behalf of another operator")
		return
	}

	result, err := h.assignNextUC.Execute(c.Request.Context(), usecases.AssignNextCommand{OperatorID: operatorID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result == nil {
		utils.SuccessResponse(c, http.StatusOK, "Queue is empty", nil)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Visitor assigned", result)
}

// RemoveEntry handles DELETE /transfer/queue/remove/:queueId
// @Summary Remove a queue entry
// @Tags queue
// @Produce json
// @Security Bearer
// @Param queueId path string true "Queue entry ID (qe_xxx)"
// @Success 200 {object} utils.APIResponse{data=dto.QueueEntryDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /transfer/queue/remove/{queueId} [delete]
func (h *TransferHandler) RemoveEntry(c *gin.Context) {
	queueID, err := utils.ParseSIDParam(c, "queueId", id.PrefixQueueEntry, "queue entry")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.removeEntryUC.Execute(c.Request.Context(), usecases.RemoveEntryCommand{QueueID: queueID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Queue entry removed", result)
}

// QueueStats handles GET /transfer/queue/stats
// @Summary Queue statistics
// @Tags queue
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=dto.QueueStatsDTO}
// @Router /transfer/queue/stats [get]
func (h *TransferHandler) QueueStats(c *gin.Context) {
	result, err := h.queueStatsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AutoAssign handles POST /transfer/auto-assign
// @Summary Auto-assign a conversation
// @Description Pick the least-loaded eligible operator, or queue the visitor when none qualifies
// @Tags assignment
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body AutoAssignRequest true "Conversation to assign"
// @Success 200 {object} utils.APIResponse{data=dto.AutoAssignResultDTO}
// @Success 202 {object} utils.APIResponse{data=dto.AutoAssignResultDTO}
// @Failure 400 {object} utils.APIResponse
// @Router /transfer/auto-assign [post]
func (h *TransferHandler) AutoAssign(c *gin.Context) {
	var req AutoAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for auto assign", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.autoAssignUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Assignment == nil {
		utils.SuccessResponse(c, http.StatusAccepted, "No operator available, visitor queued", result)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Conversation assigned", result)
}

// BulkAssign handles POST /transfer/bulk-assign
// @Summary Bulk assign
// @Description Assign the next waiting visitor to each operator in turn (supervisors only)
// @Tags assignment
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body BulkAssignRequest true "Operators"
// @Success 200 {object} utils.APIResponse{data=dto.BulkAssignResultDTO}
// @Failure 403 {object} utils.APIResponse
// @Router /transfer/bulk-assign [post]
func (h *TransferHandler) BulkAssign(c *gin.Context) {
	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for bulk assign", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.bulkAssignUC.Execute(c.Request.Context(), usecases.BulkAssignCommand{OperatorIDs: req.OperatorIDs})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func callerID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyOperatorID)
}
