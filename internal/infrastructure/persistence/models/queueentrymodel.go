package models

import "gorm.io/datatypes"

// QueueEntryModel is a visitor's place in the wait-list. idx_queue_rank
// serves the (status, priority desc, queued_at, id) scan used for ranking.
type QueueEntryModel struct {
	ID             uint   `gorm:"primaryKey;index:idx_queue_rank,priority:4"`
	SID            string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	VisitorID      string `gorm:"size:128;not null;index"`
	ConversationID string `gorm:"size:128;not null;index"`
	// ActiveVisitorID equals VisitorID while queued or assigned, NULL once cancelled.
	ActiveVisitorID      *string                     `gorm:"size:128;uniqueIndex:uk_queue_active_visitor"`
	Priority             int                         `gorm:"not null;default:0;index:idx_queue_rank,priority:2"`
	Tags                 datatypes.JSONSlice[string] `gorm:"type:json"`
	Status               string                      `gorm:"size:20;not null;index:idx_queue_rank,priority:1"`
	QueuedAt             int64                       `gorm:"not null;index:idx_queue_rank,priority:3"`
	AssignedAt           *int64
	AssignedOperatorID   *string `gorm:"size:128;index"`
	EstimatedWaitSeconds int64   `gorm:"not null;default:0"`
	Version              int     `gorm:"not null;default:1"`
	CreatedAt            int64   `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt            int64   `gorm:"autoUpdateTime:milli;not null"`
}

func (QueueEntryModel) TableName() string {
	return "queue_entries"
}
