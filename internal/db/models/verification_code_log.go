package models

import "time"

// LogAction names a verification-code lifecycle event.
type LogAction string

const (
	// LogActionGenerated records the creation of a code.
	LogActionGenerated LogAction = "generated"
	// LogActionUsed records a redemption or the transition to used.
	LogActionUsed LogAction = "used"
	// LogActionExpired records the transition to expired.
	LogActionExpired LogAction = "expired"
	// LogActionRevoked records an administrative revocation.
	LogActionRevoked LogAction = "revoked"
	// LogActionCleaned records a transition performed by the cleanup sweep.
	LogActionCleaned LogAction = "cleaned"
)

// VerificationCodeLog is an immutable, append-only audit record of a single
// verification-code lifecycle transition. Exactly one row is written per
// transition; rows are never mutated or deleted. The CodeID back-reference is
// not an ownership edge: deleting behavior does not cascade because codes are
// never physically deleted either.
type VerificationCodeLog struct {
	// ID is the unique identifier for the log entry.
	ID uint64 `gorm:"primaryKey"`
	// CodeID references the verification code this entry belongs to.
	CodeID string `gorm:"size:36;not null;index"`
	// Action is the lifecycle event being recorded.
	Action LogAction `gorm:"type:varchar(10);not null"`
	// Timestamp is the instant the transition happened.
	Timestamp time.Time `gorm:"not null"`
	// Details carries optional free text about the transition.
	Details string `gorm:"size:255"`
}

// TableName specifies the database table name for the VerificationCodeLog model.
// This overrides GORM's default pluralized table naming.
func (VerificationCodeLog) TableName() string {
	return "verification_code_logs"
}
