package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Saaayurii/Chat-sub000/internal/domain/queue"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/persistence/mappers"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/persistence/models"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	"github.com/Saaayurii/Chat-sub000/internal/shared/db"
	apperrors "github.com/Saaayurii/Chat-sub000/internal/shared/errors"
)

var _ queue.Repository = (*QueueEntryRepository)(nil)

type QueueEntryRepository struct {
	db     *gorm.DB
	mapper mappers.QueueEntryMapper
}

func NewQueueEntryRepository(db *gorm.DB) *QueueEntryRepository {
	return &QueueEntryRepository{
		db:     db,
		mapper: mappers.NewQueueEntryMapper(),
	}
}

func (r *QueueEntryRepository) Create(ctx context.Context, e *queue.Entry) error {
	model := r.mapper.ToModel(e)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return queue.ErrActiveEntry
		}
		return fmt.Errorf("failed to create queue entry: %w", err)
	}

	e.SetID(model.ID)
	return nil
}

func (r *QueueEntryRepository) GetBySID(ctx context.Context, sid string) (*queue.Entry, error) {
	return r.first(ctx, queue.ErrEntryNotFound, "sid = ?", sid)
}

func (r *QueueEntryRepository) GetActiveByVisitor(ctx context.Context, visitorID string) (*queue.Entry, error) {
	return r.first(ctx, nil, "active_visitor_id = ?", visitorID)
}

// Head returns the next entry to serve.
func (r *QueueEntryRepository) Head(ctx context.Context) (*queue.Entry, error) {
	var model models.QueueEntryModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Where("status = ?", queue.StatusQueued.String()).
		Order("priority DESC").
		Order("queued_at ASC").
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get queue head: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *QueueEntryRepository) Update(ctx context.Context, e *queue.Entry) error {
	model := r.mapper.ToModel(e)
	model.Version = e.Version() + 1
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.QueueEntryModel{}).
		Where("id = ? AND version = ?", e.ID(), e.Version()).
		Select("*").
		Omit("id", "sid", "created_at").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update queue entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return queue.ErrConcurrentUpdate
	}

	e.IncrementVersion()
	return nil
}

func (r *QueueEntryRepository) CountAhead(ctx context.Context, e *queue.Entry) (int64, error) {
	var n int64
	tx := db.GetTxFromContext(ctx, r.db)
	queuedAt := biztime.ToMillis(e.QueuedAt())

	err := tx.Model(&models.QueueEntryModel{}).
		Where("status = ?", queue.StatusQueued.String()).
		Where("(priority > ? OR (priority = ? AND (queued_at < ? OR (queued_at = ? AND id < ?))))",
			e.Priority(), e.Priority(), queuedAt, queuedAt, e.ID()).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count entries ahead: %w", err)
	}
	return n, nil
}

func (r *QueueEntryRepository) CountQueued(ctx context.Context) (int64, error) {
	var n int64
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.QueueEntryModel{}).
		Where("status = ?", queue.StatusQueued.String()).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count queued entries: %w", err)
	}
	return n, nil
}

func (r *QueueEntryRepository) AverageWait(ctx context.Context) (time.Duration, error) {
	var avg sql.NullFloat64
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Model(&models.QueueEntryModel{}).
		Select("AVG(assigned_at - queued_at)").
		Where("assigned_at IS NOT NULL").
		Row().Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to compute average wait: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return time.Duration(avg.Float64 * float64(time.Millisecond)), nil
}

// first loads one entry; notFound is returned when nothing matches (nil means "no entry, no error").
func (r *QueueEntryRepository) first(ctx context.Context, notFound error, query string, args ...any) (*queue.Entry, error) {
	var model models.QueueEntryModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to get queue entry: %w", err)
	}

	return r.mapper.ToDomain(&model)
}
