package domain

import "time"

// RefreshToken is the server-side record of an issued refresh token.
//
// Security notes:
// - We never store the raw token in DB, only its SHA-256 hash (TokenHash).
// - Records are inserted and deleted, never updated. Rotation deletes the
//   presented record and inserts its replacement in the same transaction.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}
