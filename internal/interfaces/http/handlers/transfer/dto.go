package transfer

import (
	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/usecases"
)

type RequestTransferRequest struct {
	ToOperatorID   string `json:"to_operator_id" binding:"required,opaque_id"`
	ConversationID string `json:"conversation_id" binding:"required,opaque_id"`
	VisitorID      string `json:"visitor_id" binding:"required,opaque_id"`
	Reason         string `json:"reason,omitempty" binding:"max=1000"`
	Note           string `json:"note,omitempty" binding:"max=1000"`
}

func (r *RequestTransferRequest) ToCommand(fromOperatorID string) usecases.RequestTransferCommand {
	return usecases.RequestTransferCommand{
		FromOperatorID: fromOperatorID,
		ToOperatorID:   r.ToOperatorID,
		ConversationID: r.ConversationID,
		VisitorID:      r.VisitorID,
		Reason:         r.Reason,
		Note:           r.Note,
	}
}

type RespondTransferRequest struct {
	TransferID string `json:"transfer_id" binding:"required"`
	// Accepted is a pointer so an omitted field is rejected rather than read as false.
	Accepted *bool  `json:"accepted" binding:"required"`
	Reason   string `json:"reason,omitempty" binding:"max=1000"`
}

type EnqueueRequest struct {
	VisitorID      string   `json:"visitor_id" binding:"required,opaque_id"`
	ConversationID string   `json:"conversation_id" binding:"required,opaque_id"`
	Priority       int      `json:"priority" binding:"gte=-100,lte=100"`
	Tags           []string `json:"tags,omitempty" binding:"max=20,dive,max=64"`
}

func (r *EnqueueRequest) ToCommand() usecases.EnqueueCommand {
	return usecases.EnqueueCommand{
		VisitorID:      r.VisitorID,
		ConversationID: r.ConversationID,
		Priority:       r.Priority,
		Tags:           r.Tags,
	}
}

type AutoAssignRequest struct {
	VisitorID      string   `json:"visitor_id" binding:"required,opaque_id"`
	ConversationID string   `json:"conversation_id" binding:"required,opaque_id"`
	Priority       int      `json:"priority" binding:"gte=-100,lte=100"`
	Tags           []string `json:"tags,omitempty" binding:"max=20,dive,max=64"`
	Exclude        []string `json:"exclude,omitempty" binding:"max=100"`
}

func (r *AutoAssignRequest) ToCommand() usecases.AutoAssignCommand {
	return usecases.AutoAssignCommand{
		VisitorID:      r.VisitorID,
		ConversationID: r.ConversationID,
		Priority:       r.Priority,
		Tags:           r.Tags,
		Exclude:        r.Exclude,
	}
}

type BulkAssignRequest struct {
	OperatorIDs []string `json:"operator_ids" binding:"required,min=1,max=100,dive,opaque_id"`
}
