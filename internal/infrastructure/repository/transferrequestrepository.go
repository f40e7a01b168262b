package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/persistence/mappers"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/persistence/models"
	"github.com/Saaayurii/Chat-sub000/internal/shared/db"
	apperrors "github.com/Saaayurii/Chat-sub000/internal/shared/errors"
)

var _ transfer.Repository = (*TransferRequestRepository)(nil)

type TransferRequestRepository struct {
	db     *gorm.DB
	mapper mappers.TransferMapper
}

func NewTransferRequestRepository(db *gorm.DB) *TransferRequestRepository {
	return &TransferRequestRepository{
		db:     db,
		mapper: mappers.NewTransferMapper(),
	}
}

func (r *TransferRequestRepository) Create(ctx context.Context, t *transfer.TransferRequest) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return transfer.ErrActiveTransfer
		}
		return fmt.Errorf("failed to create transfer request: %w", err)
	}

	t.SetID(model.ID)
	return nil
}

func (r *TransferRequestRepository) GetBySID(ctx context.Context, sid string) (*transfer.TransferRequest, error) {
	var model models.TransferRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transfer.ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer request: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TransferRequestRepository) GetActiveByConversation(ctx context.Context, conversationID string) (*transfer.TransferRequest, error) {
	var model models.TransferRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("active_conversation_id = ?", conversationID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active transfer: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TransferRequestRepository) Update(ctx context.Context, t *transfer.TransferRequest) error {
	model := r.mapper.ToModel(t)
	model.Version = t.Version() + 1
	tx := db.GetTxFromContext(ctx, r.db)

	// Select("*") so cleared columns (active_conversation_id) are written as NULL.
	result := tx.Model(&models.TransferRequestModel{}).
		Where("id = ? AND version = ?", t.ID(), t.Version()).
		Select("*").
		Omit("id", "sid", "created_at").
		Updates(model)

	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return transfer.ErrActiveTransfer
		}
		return fmt.Errorf("failed to update transfer request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return transfer.ErrConcurrentUpdate
	}

	t.IncrementVersion()
	return nil
}

func (r *TransferRequestRepository) ListByOperator(ctx context.Context, operatorID string, limit int) ([]*transfer.TransferRequest, error) {
	var rows []models.TransferRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Where("(from_operator_id = ? OR to_operator_id = ?)", operatorID, operatorID).
		Order("requested_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer requests: %w", err)
	}

	return r.mapper.ToDomainList(rows)
}
