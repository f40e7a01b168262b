package usecases

import (
	"context"

	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/dto"
	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/errors"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

type BulkAssignCommand struct {
	OperatorIDs []string
}

type BulkAssignExecutor interface {
	Execute(ctx context.Context, cmd BulkAssignCommand) (*dto.BulkAssignResultDTO, error)
}

type BulkAssignUseCase struct {
	assignNext AssignNextExecutor
	logger     logger.Interface
}

func NewBulkAssignUseCase(assignNext AssignNextExecutor, logger logger.Interface) *BulkAssignUseCase {
	return &BulkAssignUseCase{assignNext: assignNext, logger: logger}
}

// Execute runs AssignNext once per operator in order. An empty queue or a
// failing operator is recorded and the loop moves on.
func (uc *BulkAssignUseCase) Execute(ctx context.Context, cmd BulkAssignCommand) (*dto.BulkAssignResultDTO, error) {
	uc.logger.Infow("executing bulk assign use case", "operators", len(cmd.OperatorIDs))

	if len(cmd.OperatorIDs) == 0 {
		return nil, errors.NewValidationError("at least one operator id is required")
	}
	if len(cmd.OperatorIDs) > constants.MaxBulkOperators {
		return nil, errors.NewValidationError("too many operator ids")
	}

	result := &dto.BulkAssignResultDTO{Results: make([]dto.BulkAssignItemDTO, 0, len(cmd.OperatorIDs))}
	for _, operatorID := range cmd.OperatorIDs {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewInternalError("bulk assign interrupted")
		}

		item := dto.BulkAssignItemDTO{OperatorID: operatorID}
		entry, err := uc.assignNext.Execute(ctx, AssignNextCommand{OperatorID: operatorID})
		switch {
		case err != nil:
			item.Error = err.Error()
			result.Failed++
			uc.logger.Warnw("bulk assign item failed", "operator_id", operatorID, "error", err)
		case entry != nil:
			item.Entry = entry
			result.Assigned++
		}
		result.Results = append(result.Results, item)
	}

	uc.logger.Infow("bulk assign finished",
		"assigned", result.Assigned,
		"failed", result.Failed,
		"operators", len(cmd.OperatorIDs))

	return result, nil
}
