package dto

import (
	"time"

	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
)

type TransferDTO struct {
	ID             string     `json:"id"`
	FromOperatorID string     `json:"from_operator_id"`
	ToOperatorID   string     `json:"to_operator_id"`
	ConversationID string     `json:"conversation_id"`
	VisitorID      string     `json:"visitor_id"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	Note           string     `json:"note,omitempty"`
	ResponseReason string     `json:"response_reason,omitempty"`
	RequestedAt    time.Time  `json:"requested_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func ToTransferDTO(t *transfer.TransferRequest) *TransferDTO {
	if t == nil {
		return nil
	}
	return &TransferDTO{
		ID:             t.SID(),
		FromOperatorID: t.FromOperatorID(),
		ToOperatorID:   t.ToOperatorID(),
		ConversationID: t.ConversationID(),
		VisitorID:      t.VisitorID(),
		Status:         t.Status().String(),
		Reason:         t.Reason(),
		Note:           t.Note(),
		ResponseReason: t.ResponseReason(),
		RequestedAt:    t.RequestedAt(),
		RespondedAt:    t.RespondedAt(),
		CompletedAt:    t.CompletedAt(),
	}
}

func ToTransferDTOs(list []*transfer.TransferRequest) []*TransferDTO {
	result := make([]*TransferDTO, 0, len(list))
	for _, t := range list {
		result = append(result, ToTransferDTO(t))
	}
	return result
}

type QueueEntryDTO struct {
	ID                   string     `json:"id"`
	VisitorID            string     `json:"visitor_id"`
	ConversationID       string     `json:"conversation_id"`
	Priority             int        `json:"priority"`
	Tags                 []string   `json:"tags"`
	Status               string     `json:"status"`
	QueuedAt             time.Time  `json:"queued_at"`
	AssignedAt           *time.Time `json:"assigned_at,omitempty"`
	AssignedOperatorID   string     `json:"assigned_operator_id,omitempty"`
	EstimatedWaitSeconds int64      `json:"estimated_wait_seconds"`
}

func ToQueueEntryDTO(e *queue.Entry) *QueueEntryDTO {
	if e == nil {
		return nil
	}
	tags := e.Tags()
	if tags == nil {
		tags = []string{}
	}
	return &QueueEntryDTO{
		ID:                   e.SID(),
		VisitorID:            e.VisitorID(),
		ConversationID:       e.ConversationID(),
		Priority:             e.Priority(),
		Tags:                 tags,
		Status:               e.Status().String(),
		QueuedAt:             e.QueuedAt(),
		AssignedAt:           e.AssignedAt(),
		AssignedOperatorID:   e.AssignedOperatorID(),
		EstimatedWaitSeconds: int64(e.EstimatedWait() / time.Second),
	}
}

type PositionDTO struct {
	QueueID              string `json:"queue_id"`
	Position             int    `json:"position"`
	EstimatedWaitSeconds int64  `json:"estimated_wait_seconds"`
	TotalInQueue         int    `json:"total_in_queue"`
}

func ToPositionDTO(entryID string, p queue.Position) *PositionDTO {
	return &PositionDTO{
		QueueID:              entryID,
		Position:             p.Position,
		EstimatedWaitSeconds: int64(p.EstimatedWait / time.Second),
		TotalInQueue:         p.TotalInQueue,
	}
}

type QueueStatsDTO struct {
	TotalQueued            int64 `json:"total_queued"`
	AverageWaitTimeSeconds int64 `json:"average_wait_time_seconds"`
}

func ToQueueStatsDTO(s queue.Stats) *QueueStatsDTO {
	return &QueueStatsDTO{
		TotalQueued:            s.TotalQueued,
		AverageWaitTimeSeconds: int64(s.AverageWaitTime / time.Second),
	}
}

type AssignmentDTO struct {
	OperatorID     string `json:"operator_id"`
	ConversationID string `json:"conversation_id"`
	VisitorID      string `json:"visitor_id"`
	Type           string `json:"type"`
}

func ToAssignmentDTO(a *operator.Assignment) *AssignmentDTO {
	if a == nil {
		return nil
	}
	return &AssignmentDTO{
		OperatorID:     a.OperatorID,
		ConversationID: a.ConversationID,
		VisitorID:      a.VisitorID,
		Type:           string(a.Type),
	}
}

// AutoAssignResultDTO carries either a direct assignment or the queue entry
// the visitor was placed in when nobody was free.
type AutoAssignResultDTO struct {
	Assignment *AssignmentDTO `json:"assignment"`
	QueueEntry *QueueEntryDTO `json:"queue_entry,omitempty"`
	Position   *PositionDTO   `json:"position,omitempty"`
}

type BulkAssignItemDTO struct {
	OperatorID string         `json:"operator_id"`
	Entry      *QueueEntryDTO `json:"entry"`
	Error      string         `json:"error,omitempty"`
}

type BulkAssignResultDTO struct {
	Results  []BulkAssignItemDTO `json:"results"`
	Assigned int                 `json:"assigned"`
	Failed   int                 `json:"failed"`
}

// QueueStatusPayload is broadcast after every queue mutation.
type QueueStatusPayload struct {
	TotalQueued int64 `json:"total_queued"`
}

// TransferRespondedPayload tells the requester how the offer was resolved.
type TransferRespondedPayload struct {
	Transfer *TransferDTO `json:"transfer"`
	Accepted bool         `json:"accepted"`
}

// QueueEntryAddedPayload announces a new entry and where it landed.
type QueueEntryAddedPayload struct {
	Entry    *QueueEntryDTO `json:"entry"`
	Position *PositionDTO   `json:"position"`
}
