package verification

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.VerificationCode{}, &models.VerificationCodeLog{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// testClock is a mutable time source injected into the service under test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *testClock, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(db, WithClock(clock.Now))

	return svc, clock, db
}

// countLogs counts log entries for a code filtered by action.
func countLogs(t *testing.T, db *gorm.DB, codeID string, action models.LogAction) int64 {
	t.Helper()

	var count int64
	err := db.Model(&models.VerificationCodeLog{}).
		Where("code_id = ? AND action = ?", codeID, action).
		Count(&count).Error
	require.NoError(t, err)

	return count
}

func TestGenerate(t *testing.T) {
	svc, clock, db := newTestService(t)

	code, err := svc.Generate(auth.RoleReviewer, 24, 3)
	require.NoError(t, err)
	require.NotNil(t, code)

	assert.NotEmpty(t, code.ID)
	assert.Len(t, code.Code, 8)
	assert.Equal(t, auth.RoleReviewer, code.Type)
	assert.Equal(t, models.CodeStatusActive, code.Status)
	assert.Equal(t, 3, code.MaxUses)
	assert.Zero(t, code.CurrentUses)
	assert.Equal(t, clock.Now(), code.CreatedAt)
	assert.Equal(t, clock.Now().Add(24*time.Hour), code.ExpiresAt)

	// token is drawn from the uppercase alphanumeric alphabet
	for _, c := range code.Code {
		assert.True(t, (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'),
			"unexpected character %q in token %q", c, code.Code)
	}

	// exactly one generated log entry
	assert.EqualValues(t, 1, countLogs(t, db, code.ID, models.LogActionGenerated))
}

func TestGenerateDoesNotRejectNonPositiveValues(t *testing.T) {
	svc, _, _ := newTestService(t)

	// The service accepts non-positive inputs as-is; sane defaults are the
	// configuration layer's job. A zero-hour code is simply born expired.
	code, err := svc.Generate(auth.RolePresenter, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, code)

	assert.Equal(t, models.CodeStatusActive, code.Status)
	assert.Equal(t, code.CreatedAt, code.ExpiresAt)
	assert.Zero(t, code.MaxUses)

	v, err := svc.Validate(code.Code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExpired, v.Outcome)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		input       func(generated string) string
		prepare     func(t *testing.T, svc *Service, clock *testClock, db *gorm.DB, code *models.VerificationCode)
		wantOutcome Outcome
		wantStatus  models.CodeStatus
	}{
		{
			name:        "round trip immediately after generation",
			input:       func(generated string) string { return generated },
			wantOutcome: OutcomeValid,
			wantStatus:  models.CodeStatusActive,
		},
		{
			name:        "whitespace and case are normalized",
			input:       func(generated string) string { return "  " + lower(generated) + " " },
			wantOutcome: OutcomeValid,
			wantStatus:  models.CodeStatusActive,
		},
		{
			name:        "unknown token",
			input:       func(string) string { return "NOPE0000" },
			wantOutcome: OutcomeNotFound,
			wantStatus:  models.CodeStatusActive,
		},
		{
			name:  "expired during validation",
			input: func(generated string) string { return generated },
			prepare: func(t *testing.T, _ *Service, clock *testClock, _ *gorm.DB, _ *models.VerificationCode) {
				t.Helper()
				clock.Advance(25 * time.Hour)
			},
			wantOutcome: OutcomeExpired,
			wantStatus:  models.CodeStatusExpired,
		},
		{
			name:  "exhausted during validation",
			input: func(generated string) string { return generated },
			prepare: func(t *testing.T, _ *Service, _ *testClock, db *gorm.DB, code *models.VerificationCode) {
				t.Helper()
				// simulate an externally exhausted counter
				err := db.Model(&models.VerificationCode{}).
					Where("id = ?", code.ID).
					Update("current_uses", code.MaxUses).Error
				require.NoError(t, err)
			},
			wantOutcome: OutcomeExhausted,
			wantStatus:  models.CodeStatusUsed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, clock, db := newTestService(t)

			code, err := svc.Generate(auth.RoleReviewer, 24, 1)
			require.NoError(t, err)

			if tc.prepare != nil {
				tc.prepare(t, svc, clock, db, code)
			}

			v, err := svc.Validate(tc.input(code.Code))
			require.NoError(t, err)
			assert.Equal(t, tc.wantOutcome, v.Outcome)

			if tc.wantOutcome == OutcomeValid {
				require.NotNil(t, v.Code)
				assert.Equal(t, code.ID, v.Code.ID)
				assert.Zero(t, v.Code.CurrentUses)
			} else {
				assert.Nil(t, v.Code)
			}

			var stored models.VerificationCode
			require.NoError(t, db.First(&stored, "id = ?", code.ID).Error)
			assert.Equal(t, tc.wantStatus, stored.Status)
		})
	}
}

func TestValidateLazyTransitionLogsOnce(t *testing.T) {
	svc, clock, db := newTestService(t)

	code, err := svc.Generate(auth.RoleGuest, 1, 1)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	v, err := svc.Validate(code.Code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExpired, v.Outcome)

	// already terminal: the second lookup finds nothing and logs nothing
	v, err = svc.Validate(code.Code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, v.Outcome)

	assert.EqualValues(t, 1, countLogs(t, db, code.ID, models.LogActionExpired))
}

func TestUseSingleUseCode(t *testing.T) {
	svc, _, db := newTestService(t)

	code, err := svc.Generate(auth.RolePresenter, 24, 1)
	require.NoError(t, err)

	// first redemption succeeds and returns the pre-increment snapshot
	v, err := svc.Use(code.Code)
	require.NoError(t, err)
	require.True(t, v.OK())
	require.NotNil(t, v.Code)
	assert.Zero(t, v.Code.CurrentUses)
	assert.Equal(t, auth.RolePresenter, v.Code.Type)

	var stored models.VerificationCode
	require.NoError(t, db.First(&stored, "id = ?", code.ID).Error)
	assert.Equal(t, 1, stored.CurrentUses)
	assert.Equal(t, models.CodeStatusUsed, stored.Status)

	// redemption log plus the exhaustion log
	logs, err := svc.Logs(code.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, models.LogActionGenerated, logs[0].Action)
	assert.Equal(t, models.LogActionUsed, logs[1].Action)
	assert.Equal(t, "use 1 of 1", logs[1].Details)
	assert.Equal(t, models.LogActionUsed, logs[2].Action)
	assert.Equal(t, "Max uses reached", logs[2].Details)

	// second redemption fails: the code is terminal now
	v, err = svc.Use(code.Code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, v.Outcome)
	assert.Nil(t, v.Code)
}

func TestUseMultiUseCode(t *testing.T) {
	svc, _, db := newTestService(t)

	code, err := svc.Generate(auth.RoleReviewer, 24, 3)
	require.NoError(t, err)

	for i := range 3 {
		v, errUse := svc.Use(code.Code)
		require.NoError(t, errUse)
		require.True(t, v.OK(), "use %d should succeed", i+1)
		assert.Equal(t, i, v.Code.CurrentUses, "snapshot is pre-increment")
	}

	var stored models.VerificationCode
	require.NoError(t, db.First(&stored, "id = ?", code.ID).Error)
	assert.Equal(t, 3, stored.CurrentUses)
	assert.Equal(t, models.CodeStatusUsed, stored.Status)

	v, err := svc.Use(code.Code)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, v.Outcome)

	// generated + one used per redemption + final exhaustion entry
	assert.EqualValues(t, 4, countLogs(t, db, code.ID, models.LogActionUsed))
}

func TestUseNeverExceedsMaxUses(t *testing.T) {
	svc, _, db := newTestService(t)

	code, err := svc.Generate(auth.RoleReviewer, 24, 2)
	require.NoError(t, err)

	for range 5 {
		_, err = svc.Use(code.Code)
		require.NoError(t, err)
	}

	var stored models.VerificationCode
	require.NoError(t, db.First(&stored, "id = ?", code.ID).Error)
	assert.LessOrEqual(t, stored.CurrentUses, stored.MaxUses)
	assert.Equal(t, 2, stored.CurrentUses)
}

func TestRevoke(t *testing.T) {
	testCases := []struct {
		name       string
		reason     models.CodeStatus
		wantStatus models.CodeStatus
		wantAction models.LogAction
		wantErr    error
	}{
		{
			name:       "default reason revoked",
			reason:     "",
			wantStatus: models.CodeStatusRevoked,
			wantAction: models.LogActionRevoked,
		},
		{
			name:       "explicit revoked",
			reason:     models.CodeStatusRevoked,
			wantStatus: models.CodeStatusRevoked,
			wantAction: models.LogActionRevoked,
		},
		{
			name:       "revoke as expired",
			reason:     models.CodeStatusExpired,
			wantStatus: models.CodeStatusExpired,
			wantAction: models.LogActionExpired,
		},
		{
			name:       "revoke as used",
			reason:     models.CodeStatusUsed,
			wantStatus: models.CodeStatusUsed,
			wantAction: models.LogActionUsed,
		},
		{
			name:    "active is not a terminal reason",
			reason:  models.CodeStatusActive,
			wantErr: ErrInvalidRevokeReason,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, db := newTestService(t)

			code, err := svc.Generate(auth.RoleCoordinator, 24, 1)
			require.NoError(t, err)

			err = svc.Revoke(code.ID, tc.reason)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			var stored models.VerificationCode
			require.NoError(t, db.First(&stored, "id = ?", code.ID).Error)
			assert.Equal(t, tc.wantStatus, stored.Status)
			assert.EqualValues(t, 1, countLogs(t, db, code.ID, tc.wantAction))

			// the revoked token no longer validates or redeems
			v, err := svc.Validate(code.Code)
			require.NoError(t, err)
			assert.Equal(t, OutcomeNotFound, v.Outcome)

			v, err = svc.Use(code.Code)
			require.NoError(t, err)
			assert.Equal(t, OutcomeNotFound, v.Outcome)
		})
	}
}

func TestRevokeIdempotentOnTerminalCodes(t *testing.T) {
	svc, _, db := newTestService(t)

	code, err := svc.Generate(auth.RoleGuest, 24, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(code.ID, models.CodeStatusRevoked))
	require.NoError(t, svc.Revoke(code.ID, models.CodeStatusRevoked))

	var stored models.VerificationCode
	require.NoError(t, db.First(&stored, "id = ?", code.ID).Error)
	assert.Equal(t, models.CodeStatusRevoked, stored.Status)

	// repeated calls simply re-log
	assert.EqualValues(t, 2, countLogs(t, db, code.ID, models.LogActionRevoked))
}

func TestRevokeUnknownIDIsNoOp(t *testing.T) {
	svc, _, _ := newTestService(t)

	require.NoError(t, svc.Revoke("does-not-exist", models.CodeStatusRevoked))
}

func TestCleanup(t *testing.T) {
	svc, clock, db := newTestService(t)

	// two codes that will expire, one exhausted, two healthy
	expiredA, err := svc.Generate(auth.RoleReviewer, 1, 1)
	require.NoError(t, err)
	expiredB, err := svc.Generate(auth.RolePresenter, 2, 1)
	require.NoError(t, err)
	exhausted, err := svc.Generate(auth.RoleReviewer, 48, 2)
	require.NoError(t, err)
	healthyA, err := svc.Generate(auth.RoleGuest, 48, 1)
	require.NoError(t, err)
	healthyB, err := svc.Generate(auth.RoleCoordinator, 48, 5)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.VerificationCode{}).
		Where("id = ?", exhausted.ID).
		Update("current_uses", exhausted.MaxUses).Error)

	clock.Advance(3 * time.Hour)

	cleaned, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, 3, cleaned)

	expectStatus := map[string]models.CodeStatus{
		expiredA.ID:  models.CodeStatusExpired,
		expiredB.ID:  models.CodeStatusExpired,
		exhausted.ID: models.CodeStatusUsed,
		healthyA.ID:  models.CodeStatusActive,
		healthyB.ID:  models.CodeStatusActive,
	}

	for id, want := range expectStatus {
		var stored models.VerificationCode
		require.NoError(t, db.First(&stored, "id = ?", id).Error)
		assert.Equal(t, want, stored.Status, "code %s", id)
	}

	// exactly one cleaned entry per transition, none for healthy codes
	var cleanedLogs int64
	require.NoError(t, db.Model(&models.VerificationCodeLog{}).
		Where("action = ?", models.LogActionCleaned).
		Count(&cleanedLogs).Error)
	assert.EqualValues(t, 3, cleanedLogs)

	// a second sweep finds nothing left to do
	cleaned, err = svc.Cleanup()
	require.NoError(t, err)
	assert.Zero(t, cleaned)
}

func TestList(t *testing.T) {
	svc, clock, _ := newTestService(t)

	early, err := svc.Generate(auth.RoleReviewer, 24, 1)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	cutoff := clock.Now()

	late, err := svc.Generate(auth.RolePresenter, 24, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(late.ID, models.CodeStatusRevoked))

	testCases := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{
			name:    "no filter matches everything",
			filter:  Filter{},
			wantIDs: []string{early.ID, late.ID},
		},
		{
			name:    "filter by type",
			filter:  Filter{Type: auth.RoleReviewer},
			wantIDs: []string{early.ID},
		},
		{
			name:    "filter by status",
			filter:  Filter{Status: models.CodeStatusRevoked},
			wantIDs: []string{late.ID},
		},
		{
			name:    "filter by from date",
			filter:  Filter{From: &cutoff},
			wantIDs: []string{late.ID},
		},
		{
			name:    "filters are conjunctive",
			filter:  Filter{Type: auth.RolePresenter, Status: models.CodeStatusRevoked, From: &cutoff},
			wantIDs: []string{late.ID},
		},
		{
			name:    "conjunction can be empty",
			filter:  Filter{Type: auth.RoleReviewer, Status: models.CodeStatusRevoked},
			wantIDs: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			codes, err := svc.List(tc.filter)
			require.NoError(t, err)

			gotIDs := make([]string, 0, len(codes))
			for _, c := range codes {
				gotIDs = append(gotIDs, c.ID)
			}

			assert.ElementsMatch(t, tc.wantIDs, gotIDs)
		})
	}
}

func TestLogs(t *testing.T) {
	svc, _, _ := newTestService(t)

	first, err := svc.Generate(auth.RoleReviewer, 24, 1)
	require.NoError(t, err)
	second, err := svc.Generate(auth.RoleGuest, 24, 1)
	require.NoError(t, err)

	_, err = svc.Use(first.Code)
	require.NoError(t, err)

	// per-code trail
	logs, err := svc.Logs(second.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogActionGenerated, logs[0].Action)

	// full trail: 2 generated + 2 used (redemption + exhaustion)
	logs, err = svc.Logs("")
	require.NoError(t, err)
	assert.Len(t, logs, 4)
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: " ab12cd34 ", want: "AB12CD34"},
		{in: "AB12CD34", want: "AB12CD34"},
		{in: "\tab12cd34\n", want: "AB12CD34"},
		{in: "", want: ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Normalize(tc.in))
	}
}

func TestIntegration(t *testing.T) {
	svc, clock, db := newTestService(t)

	// generate a two-use reviewer code
	code, err := svc.Generate(auth.RoleReviewer, 24, 2)
	require.NoError(t, err)

	// validate leaves it untouched
	v, err := svc.Validate(code.Code)
	require.NoError(t, err)
	require.True(t, v.OK())
	assert.Equal(t, models.CodeStatusActive, v.Code.Status)
	assert.Zero(t, v.Code.CurrentUses)

	// first redemption
	v, err = svc.Use(code.Code)
	require.NoError(t, err)
	require.True(t, v.OK())

	// still redeemable
	v, err = svc.Validate(code.Code)
	require.NoError(t, err)
	require.True(t, v.OK())
	assert.Equal(t, 1, v.Code.CurrentUses)

	// second redemption exhausts it
	v, err = svc.Use(code.Code)
	require.NoError(t, err)
	require.True(t, v.OK())

	var stored models.VerificationCode
	require.NoError(t, db.First(&stored, "id = ?", code.ID).Error)
	assert.Equal(t, models.CodeStatusUsed, stored.Status)

	// an admin generates and revokes another code
	other, err := svc.Generate(auth.RolePresenter, 24, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(other.ID, models.CodeStatusRevoked))

	// a stale code is swept by cleanup
	stale, err := svc.Generate(auth.RoleGuest, 1, 1)
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	cleaned, err := svc.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned)

	// final state of the world
	active, err := svc.List(Filter{Status: models.CodeStatusActive})
	require.NoError(t, err)
	assert.Empty(t, active)

	expired, err := svc.List(Filter{Status: models.CodeStatusExpired})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)

	// the audit trail covers every transition
	logs, err := svc.Logs(code.ID)
	require.NoError(t, err)
	// generated + use1 + use2 + max-uses-reached
	assert.Len(t, logs, 4)

	logs, err = svc.Logs(stale.ID)
	require.NoError(t, err)
	// generated + cleaned
	require.Len(t, logs, 2)
	assert.Equal(t, models.LogActionCleaned, logs[1].Action)
}

// lower is a tiny helper keeping the table definitions readable.
func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}

	return string(out)
}
