package verification

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/token"
)

// Outcome classifies the result of a validation or consumption attempt.
// It distinguishes "was already invalid" (not found) from "became invalid
// during this call" (expired, exhausted), which matters for tests and for
// callers auditing the lazy transitions.
type Outcome string

const (
	// OutcomeValid indicates the code is active and redeemable.
	OutcomeValid Outcome = "valid"
	// OutcomeNotFound indicates no active code matches the token.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeExpired indicates the code expired during this check.
	OutcomeExpired Outcome = "expired"
	// OutcomeExhausted indicates the code reached its use limit during this check.
	OutcomeExhausted Outcome = "exhausted"
)

// Validation is the result of Validate or Use. Code is nil unless the
// outcome is OutcomeValid.
type Validation struct {
	Outcome Outcome
	Code    *models.VerificationCode
}

// OK reports whether the code was valid. Callers that do not care which
// failure applied branch on this single predicate, keeping the registration
// UI's "invalid or expired code" message generic.
func (v *Validation) OK() bool {
	return v.Outcome == OutcomeValid
}

// Service owns verification-code lifecycle operations against a durable
// store. Construct it once at process start with NewService; the clock and
// token source are injectable for tests.
type Service struct {
	db       *gorm.DB
	now      func() time.Time
	newToken func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the time source, letting tests control expiry instants.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTokenSource replaces the random token generator.
func WithTokenSource(newToken func() string) Option {
	return func(s *Service) {
		s.newToken = newToken
	}
}

// NewService creates a new verification-code service.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:       db,
		now:      time.Now,
		newToken: token.NewCode,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Generate creates a new active code granting codeType on redemption.
// ExpiresAt is CreatedAt plus expirationHours. The service does not reject
// non-positive expirationHours or maxUses; the configuration layer is
// responsible for supplying sane defaults, and a zero-hour code is simply
// born expired.
func (s *Service) Generate(codeType auth.Role, expirationHours, maxUses int) (*models.VerificationCode, error) {
	now := s.now()

	code := &models.VerificationCode{
		ID:          uuid.NewString(),
		Code:        strings.ToUpper(s.newToken()),
		Type:        codeType,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(expirationHours) * time.Hour),
		MaxUses:     maxUses,
		CurrentUses: 0,
		Status:      models.CodeStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(code).Error; err != nil {
			return fmt.Errorf("failed to create verification code: %w", err)
		}

		return s.appendLog(tx, code.ID, models.LogActionGenerated,
			fmt.Sprintf("type=%s max_uses=%d", codeType, maxUses))
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("code_id", code.ID).Str("type", string(codeType)).
		Int("max_uses", maxUses).Msg("verification code generated")

	return code, nil
}

// Validate normalizes the input (trim, uppercase) and looks up an active
// code with a matching token. This is not a pure read: a matched code past
// its expiry or use limit is transitioned to the corresponding terminal
// status here, with a log entry, before the failure is reported.
func (s *Service) Validate(raw string) (*Validation, error) {
	var result *Validation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var errTx error
		result, errTx = s.validateTx(tx, raw)

		return errTx
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// validateTx implements Validate inside an existing transaction so Use can
// share the lazy-transition logic.
func (s *Service) validateTx(tx *gorm.DB, raw string) (*Validation, error) {
	normalized := Normalize(raw)

	var code models.VerificationCode

	err := tx.Where("code = ? AND status = ?", normalized, models.CodeStatusActive).
		First(&code).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &Validation{Outcome: OutcomeNotFound}, nil
		}

		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}

	if code.Expired(s.now()) {
		if err := s.transition(tx, &code, models.CodeStatusExpired,
			models.LogActionExpired, "expired at validation"); err != nil {
			return nil, err
		}

		return &Validation{Outcome: OutcomeExpired}, nil
	}

	if code.Exhausted() {
		if err := s.transition(tx, &code, models.CodeStatusUsed,
			models.LogActionUsed, "exhausted at validation"); err != nil {
			return nil, err
		}

		return &Validation{Outcome: OutcomeExhausted}, nil
	}

	return &Validation{Outcome: OutcomeValid, Code: &code}, nil
}

// Use revalidates the token and, if valid, atomically consumes one use.
// The returned Validation carries the pre-increment snapshot of the code.
// When the increment reaches MaxUses the code transitions to used and a
// second log entry records the exhaustion.
func (s *Service) Use(raw string) (*Validation, error) {
	var result *Validation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		v, errTx := s.validateTx(tx, raw)
		if errTx != nil {
			return errTx
		}

		if !v.OK() {
			result = v
			return nil
		}

		snapshot := *v.Code

		// Guarded increment: the WHERE clause makes two concurrent
		// consumers of the last use impossible even outside SQLite's
		// single-writer model.
		res := tx.Model(&models.VerificationCode{}).
			Where("id = ? AND current_uses < max_uses", snapshot.ID).
			Update("current_uses", gorm.Expr("current_uses + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to consume verification code: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			// A concurrent redemption took the last use between the read
			// and the increment.
			if err := s.transition(tx, &snapshot, models.CodeStatusUsed,
				models.LogActionUsed, "exhausted at validation"); err != nil {
				return err
			}

			result = &Validation{Outcome: OutcomeExhausted}

			return nil
		}

		newUses := snapshot.CurrentUses + 1

		if err := s.appendLog(tx, snapshot.ID, models.LogActionUsed,
			fmt.Sprintf("use %d of %d", newUses, snapshot.MaxUses)); err != nil {
			return err
		}

		if newUses >= snapshot.MaxUses {
			if err := tx.Model(&models.VerificationCode{}).
				Where("id = ?", snapshot.ID).
				Update("status", models.CodeStatusUsed).Error; err != nil {
				return fmt.Errorf("failed to update verification code status: %w", err)
			}

			if err := s.appendLog(tx, snapshot.ID, models.LogActionUsed,
				"Max uses reached"); err != nil {
				return err
			}
		}

		result = &Validation{Outcome: OutcomeValid, Code: &snapshot}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.OK() {
		log.Info().Str("code_id", result.Code.ID).
			Str("type", string(result.Code.Type)).Msg("verification code redeemed")
	}

	return result, nil
}

// Revoke forces a terminal status on the identified code regardless of its
// current status and appends a log entry. Repeated calls on an already
// terminal code simply re-log; an unknown id is a silent no-op, matching the
// policy that business conditions never surface as errors.
func (s *Service) Revoke(id string, reason models.CodeStatus) error {
	if reason == "" {
		reason = models.CodeStatusRevoked
	}

	if !reason.Terminal() {
		return ErrInvalidRevokeReason
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var code models.VerificationCode

		err := tx.First(&code, "id = ?", id).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}

			return fmt.Errorf("failed to look up verification code: %w", err)
		}

		action := revokeLogAction(reason)

		if err := s.transition(tx, &code, reason, action, "revoked by administrator"); err != nil {
			return err
		}

		log.Info().Str("code_id", id).Str("reason", string(reason)).
			Msg("verification code revoked")

		return nil
	})
}

// Cleanup sweeps all currently active codes and transitions every one past
// its expiry instant or use limit to the appropriate terminal status, with a
// cleaned log entry per transition. It returns how many codes changed state.
// Scheduling is the caller's concern: the daemon runs it on a ticker when
// auto cleanup is configured, and the settings UI and CLI invoke it on
// demand.
func (s *Service) Cleanup() (int, error) {
	var cleaned int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var codes []models.VerificationCode

		if err := tx.Where("status = ?", models.CodeStatusActive).
			Find(&codes).Error; err != nil {
			return fmt.Errorf("failed to list active verification codes: %w", err)
		}

		now := s.now()

		for i := range codes {
			code := &codes[i]

			var target models.CodeStatus

			switch {
			case code.Expired(now):
				target = models.CodeStatusExpired
			case code.Exhausted():
				target = models.CodeStatusUsed
			default:
				continue
			}

			if err := s.transition(tx, code, target, models.LogActionCleaned,
				fmt.Sprintf("cleanup: %s", target)); err != nil {
				return err
			}

			cleaned++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if cleaned > 0 {
		log.Info().Int("count", cleaned).Msg("verification code cleanup finished")
	}

	return cleaned, nil
}

// Filter narrows List results. Zero-valued fields match everything; set
// fields combine conjunctively.
type Filter struct {
	Type   auth.Role
	Status models.CodeStatus
	From   *time.Time
	To     *time.Time
}

// List returns the codes matching all supplied filters. Ordering is by
// creation time, newest first.
func (s *Service) List(f Filter) ([]models.VerificationCode, error) {
	tx := s.db.Model(&models.VerificationCode{})

	if f.Type != "" {
		tx = tx.Where("type = ?", f.Type)
	}

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}

	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}

	if f.To != nil {
		tx = tx.Where("created_at <= ?", *f.To)
	}

	var codes []models.VerificationCode
	if err := tx.Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list verification codes: %w", err)
	}

	return codes, nil
}

// Logs returns the audit trail, oldest first: all entries when codeID is
// empty, or the entries of a single code otherwise.
func (s *Service) Logs(codeID string) ([]models.VerificationCodeLog, error) {
	tx := s.db.Model(&models.VerificationCodeLog{})

	if codeID != "" {
		tx = tx.Where("code_id = ?", codeID)
	}

	var logs []models.VerificationCodeLog
	if err := tx.Order("id ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list verification code logs: %w", err)
	}

	return logs, nil
}

// transition sets a terminal status on code and appends the matching log
// entry within tx. Exactly one log row per transition is the audit
// invariant everything else leans on.
func (s *Service) transition(tx *gorm.DB, code *models.VerificationCode,
	status models.CodeStatus, action models.LogAction, details string,
) error {
	if err := tx.Model(&models.VerificationCode{}).
		Where("id = ?", code.ID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update verification code status: %w", err)
	}

	code.Status = status

	return s.appendLog(tx, code.ID, action, details)
}

// appendLog writes one audit entry within tx.
func (s *Service) appendLog(tx *gorm.DB, codeID string, action models.LogAction, details string) error {
	entry := &models.VerificationCodeLog{
		CodeID:    codeID,
		Action:    action,
		Timestamp: s.now(),
		Details:   details,
	}

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append verification code log: %w", err)
	}

	return nil
}

// revokeLogAction maps a forced terminal status to its audit action.
func revokeLogAction(reason models.CodeStatus) models.LogAction {
	switch reason {
	case models.CodeStatusExpired:
		return models.LogActionExpired
	case models.CodeStatusUsed:
		return models.LogActionUsed
	case models.CodeStatusActive, models.CodeStatusRevoked:
		return models.LogActionRevoked
	}

	return models.LogActionRevoked
}

// Normalize trims surrounding whitespace and uppercases a user-supplied
// token. Codes are uppercase-normalized both before storage and before
// comparison.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
