package mappers

import (
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/persistence/models"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
)

// TransferMapper converts between TransferRequest aggregates and ledger rows.
type TransferMapper interface {
	ToModel(t *transfer.TransferRequest) *models.TransferRequestModel
	ToDomain(model *models.TransferRequestModel) (*transfer.TransferRequest, error)
	ToDomainList(models []models.TransferRequestModel) ([]*transfer.TransferRequest, error)
}

type TransferMapperImpl struct{}

func NewTransferMapper() TransferMapper {
	return &TransferMapperImpl{}
}

func (m *TransferMapperImpl) ToModel(t *transfer.TransferRequest) *models.TransferRequestModel {
	model := &models.TransferRequestModel{
		ID:             t.ID(),
		SID:            t.SID(),
		FromOperatorID: t.FromOperatorID(),
		ToOperatorID:   t.ToOperatorID(),
		ConversationID: t.ConversationID(),
		VisitorID:      t.VisitorID(),
		Status:         t.Status().String(),
		Reason:         t.Reason(),
		Note:           t.Note(),
		ResponseReason: t.ResponseReason(),
		RequestedAt:    biztime.ToMillis(t.RequestedAt()),
		RespondedAt:    biztime.PtrToMillis(t.RespondedAt()),
		CompletedAt:    biztime.PtrToMillis(t.CompletedAt()),
		Version:        t.Version(),
	}

	if t.Status().IsActive() {
		conv := t.ConversationID()
		model.ActiveConversationID = &conv
	}

	return model
}

func (m *TransferMapperImpl) ToDomain(model *models.TransferRequestModel) (*transfer.TransferRequest, error) {
	if model == nil {
		return nil, nil
	}

	return transfer.ReconstructTransferRequest(
		model.ID,
		model.SID,
		model.FromOperatorID,
		model.ToOperatorID,
		model.ConversationID,
		model.VisitorID,
		transfer.Status(model.Status),
		model.Reason,
		model.Note,
		model.ResponseReason,
		biztime.FromMillis(model.RequestedAt),
		biztime.PtrFromMillis(model.RespondedAt),
		biztime.PtrFromMillis(model.CompletedAt),
		model.Version,
	)
}

func (m *TransferMapperImpl) ToDomainList(rows []models.TransferRequestModel) ([]*transfer.TransferRequest, error) {
	out := make([]*transfer.TransferRequest, 0, len(rows))
	for i := range rows {
		t, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
