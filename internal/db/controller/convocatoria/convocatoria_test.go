package convocatoria

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Convocatoria{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func window() (time.Time, time.Time) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 2, 0)
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)
	start, end := window()

	testCases := []struct {
		name          string
		nilDB         bool
		callName      string
		startsAt      time.Time
		endsAt        time.Time
		expectedError error
	}{
		{
			name:          "nil database",
			nilDB:         true,
			callName:      "x",
			startsAt:      start,
			endsAt:        end,
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			callName:      "",
			startsAt:      start,
			endsAt:        end,
			expectedError: ErrNameEmpty,
		},
		{
			name:          "window ends before it starts",
			callName:      "Backwards 2026",
			startsAt:      end,
			endsAt:        start,
			expectedError: ErrInvalidWindow,
		},
		{
			name:     "successful create",
			callName: "Innovation Grants 2026",
			startsAt: start,
			endsAt:   end,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			param := db
			if tc.nilDB {
				param = nil
			}

			c, err := Create(param, tc.callName, 2026, tc.startsAt, tc.endsAt)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, c.ID)
			assert.Equal(t, models.ConvocatoriaStatusDraft, c.Status)
		})
	}
}

func TestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	start, end := window()

	c, err := Create(db, "Innovation Grants 2026", 2026, start, end)
	require.NoError(t, err)

	// draft cannot be closed directly
	_, err = Close(db, c.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	opened, err := Open(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConvocatoriaStatusOpen, opened.Status)

	// open cannot be opened again
	_, err = Open(db, c.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	open, err := GetOpen(db)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	closed, err := Close(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConvocatoriaStatusClosed, closed.Status)

	open, err = GetOpen(db)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = Open(db, 9999)
	require.ErrorIs(t, err, ErrConvocatoriaNotFound)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)
	start, end := window()

	c, err := Create(db, "Innovation Grants 2026", 2026, start, end)
	require.NoError(t, err)

	c.Name = "Innovation Grants 2026 (extended)"
	c.EndsAt = end.AddDate(0, 1, 0)
	updated, err := Update(db, c)
	require.NoError(t, err)
	assert.Equal(t, "Innovation Grants 2026 (extended)", updated.Name)

	c.EndsAt = start.AddDate(0, -1, 0)
	_, err = Update(db, c)
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Update(db, &models.Convocatoria{ID: 9999, Name: "x", StartsAt: start, EndsAt: end})
	require.ErrorIs(t, err, ErrConvocatoriaNotFound)
}

func TestGetAllOrder(t *testing.T) {
	db := setupTestDB(t)
	start, end := window()

	_, err := Create(db, "Grants 2025", 2025, start.AddDate(-1, 0, 0), end.AddDate(-1, 0, 0))
	require.NoError(t, err)
	_, err = Create(db, "Grants 2026", 2026, start, end)
	require.NoError(t, err)

	calls, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, 2026, calls[0].Year, "newest edition first")
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	start, end := window()

	c, err := Create(db, "Grants 2026", 2026, start, end)
	require.NoError(t, err)

	require.NoError(t, Delete(db, c.ID))
	require.ErrorIs(t, Delete(db, c.ID), ErrConvocatoriaNotFound)
	require.ErrorIs(t, Delete(nil, 1), ErrDBNil)
}
