package mappers

import (
	"time"

	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/persistence/models"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
)

type QueueEntryMapper interface {
	ToModel(e *queue.Entry) *models.QueueEntryModel
	ToDomain(model *models.QueueEntryModel) (*queue.Entry, error)
}

type QueueEntryMapperImpl struct{}

func NewQueueEntryMapper() QueueEntryMapper {
	return &QueueEntryMapperImpl{}
}

func (m *QueueEntryMapperImpl) ToModel(e *queue.Entry) *models.QueueEntryModel {
	model := &models.QueueEntryModel{
		ID:                   e.ID(),
		SID:                  e.SID(),
		VisitorID:            e.VisitorID(),
		ConversationID:       e.ConversationID(),
		Priority:             e.Priority(),
		Tags:                 nonNilTags(e.Tags()),
		Status:               e.Status().String(),
		QueuedAt:             biztime.ToMillis(e.QueuedAt()),
		AssignedAt:           biztime.PtrToMillis(e.AssignedAt()),
		EstimatedWaitSeconds: int64(e.EstimatedWait() / time.Second),
		Version:              e.Version(),
	}

	if e.Status().IsActive() {
		visitor := e.VisitorID()
		model.ActiveVisitorID = &visitor
	}
	if op := e.AssignedOperatorID(); op != "" {
		model.AssignedOperatorID = &op
	}

	return model
}

func (m *QueueEntryMapperImpl) ToDomain(model *models.QueueEntryModel) (*queue.Entry, error) {
	if model == nil {
		return nil, nil
	}

	var operatorID string
	if model.AssignedOperatorID != nil {
		operatorID = *model.AssignedOperatorID
	}

	return queue.ReconstructEntry(
		model.ID,
		model.SID,
		model.VisitorID,
		model.ConversationID,
		model.Priority,
		[]string(model.Tags),
		queue.Status(model.Status),
		biztime.FromMillis(model.QueuedAt),
		biztime.PtrFromMillis(model.AssignedAt),
		operatorID,
		time.Duration(model.EstimatedWaitSeconds)*time.Second,
		model.Version,
	)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
