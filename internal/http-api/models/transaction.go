package models

import "time"

// Transaction types. Purchase and earning amounts are positive, unlock
// amounts are negative.
const (
	TxPurchaseCoins = "purchase_coins"
	TxUnlockChapter = "unlock_chapter"
	TxAuthorEarning = "author_earning"
)

// Transaction is an immutable ledger row; rows are only ever appended.
type Transaction struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Type        string    `json:"type" gorm:"type:transaction_type;not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description string    `json:"description" gorm:"not null"`
	NovelID     *int64    `json:"novel_id,omitempty"`
	ChapterID   *int64    `json:"chapter_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Transaction) TableName() string {
	return "transactions"
}
