package usecases

import (
	"context"
	"strings"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/domain/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type GetTransferQuery struct {
	TransferID string
}

type GetTransferExecutor interface {
	Execute(ctx context.Context, query GetTransferQuery) (*dto.TransferDTO, error)
}

type GetTransferUseCase struct {
	transferRepo transfer.Repository
	logger       logger.Interface
}

func NewGetTransferUseCase(transferRepo transfer.Repository, logger logger.Interface) *GetTransferUseCase {
	return &GetTransferUseCase{transferRepo: transferRepo, logger: logger}
}

func (uc *GetTransferUseCase) Execute(ctx context.Context, query GetTransferQuery) (*dto.TransferDTO, error) {
	if strings.TrimSpace(query.TransferID) == "" {
		return nil, errors.NewValidationError("transfer id is required")
	}

	request, err := uc.transferRepo.GetBySID(ctx, query.TransferID)
	if err != nil {
		mapped := mapTransferError(err)
		if !errors.IsNotFoundError(mapped) {
			uc.logger.Errorw("failed to get transfer", "transfer_id", query.TransferID, "error", err)
		}
		return nil, mapped
	}

	return dto.ToTransferDTO(request), nil
}

type TransferHistoryQuery struct {
	OperatorID string
	Limit      int
}

type TransferHistoryExecutor interface {
	Execute(ctx context.Context, query TransferHistoryQuery) ([]*dto.TransferDTO, error)
}

type TransferHistoryUseCase struct {
	transferRepo transfer.Repository
	logger       logger.Interface
}

func NewTransferHistoryUseCase(transferRepo transfer.Repository, logger logger.Interface) *TransferHistoryUseCase {
	return &TransferHistoryUseCase{transferRepo: transferRepo, logger: logger}
}

func (uc *TransferHistoryUseCase) Execute(ctx context.Context, query TransferHistoryQuery) ([]*dto.TransferDTO, error) {
	if strings.TrimSpace(query.OperatorID) == "" {
		return nil, errors.NewValidationError("operator id is required")
	}

	limit := ClampHistoryLimit(query.Limit)
	list, err := uc.transferRepo.ListByOperator(ctx, query.OperatorID, limit)
	if err != nil {
		uc.logger.Errorw("failed to list transfer history", "operator_id", query.OperatorID, "error", err)
		return nil, errors.NewInternalError("failed to list transfer history")
	}

	return dto.ToTransferDTOs(list), nil
}

// ClampHistoryLimit applies the default for 0 and bounds the rest to [1, MaxHistoryLimit].
func ClampHistoryLimit(limit int) int {
	switch {
	case limit == 0:
		return constants.DefaultHistoryLimit
	case limit < 1:
		return 1
	case limit > constants.MaxHistoryLimit:
		return constants.MaxHistoryLimit
	default:
		return limit
	}
}
