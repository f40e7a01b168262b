package models

// TransferRequestModel is the ledger row of a transfer negotiation.
type TransferRequestModel struct {
	ID             uint   `gorm:"primaryKey"`
	SID            string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	FromOperatorID string `gorm:"size:128;not null;index"`
	ToOperatorID   string `gorm:"size:128;not null;index"`
	ConversationID string `gorm:"size:128;not null;index"`
	VisitorID      string `gorm:"size:128;not null"`
	// ActiveConversationID equals ConversationID while the request is pending
	// or accepted and is NULL afterwards. Its unique index admits a single
	// active request per conversation.
	ActiveConversationID *string `gorm:"size:128;uniqueIndex:uk_transfer_active_conversation"`
	Status               string  `gorm:"size:20;not null;index"`
	Reason               string  `gorm:"size:1000"`
	Note                 string  `gorm:"size:1000"`
	ResponseReason       string  `gorm:"size:1000"`
	RequestedAt          int64   `gorm:"not null;index"`
	RespondedAt          *int64
	CompletedAt          *int64
	Version              int   `gorm:"not null;default:1"`
	CreatedAt            int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt            int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (TransferRequestModel) TableName() string {
	return "transfer_requests"
}
