package setting

import (
	"testing"

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
	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	testCases := []struct {
		name          string
		nilDB         bool
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			nilDB:         true,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			settingName: NameSiteTitle,
			seedData: []models.Setting{
				{Name: NameSiteTitle, Value: []byte("InnovaGrants")},
			},
			expectedValue: []byte("InnovaGrants"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var db *gorm.DB
			if !tc.nilDB {
				db = setupTestDB(t)
				seedSettings(t, db, tc.seedData)
			}

			setting, err := Get(db, tc.settingName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, setting)
			assert.Equal(t, tc.expectedValue, setting.Value)
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	setting, err := Create(db, NameRegistrationOpen, []byte("true"))
	require.NoError(t, err)
	assert.NotZero(t, setting.ID)

	// duplicate create is rejected
	_, err = Create(db, NameRegistrationOpen, []byte("false"))
	require.ErrorIs(t, err, ErrSettingAlreadyExists)

	_, err = Create(db, "", []byte("x"))
	require.ErrorIs(t, err, ErrSettingNameEmpty)

	_, err = Create(nil, "x", []byte("x"))
	require.ErrorIs(t, err, ErrDBNil)
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	// Set creates when absent
	setting, err := Set(db, NameCodeMaxUses, []byte("1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), setting.Value)

	// and updates when present
	setting, err = Set(db, NameCodeMaxUses, []byte("5"))
	require.NoError(t, err)
	assert.Equal(t, []byte("5"), setting.Value)

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	seedSettings(t, db, []models.Setting{
		{Name: NameSiteTitle, Value: []byte("InnovaGrants")},
	})

	require.NoError(t, Delete(db, NameSiteTitle))
	require.ErrorIs(t, Delete(db, NameSiteTitle), ErrSettingNotFound)
	require.ErrorIs(t, Delete(db, ""), ErrSettingNameEmpty)
	require.ErrorIs(t, Delete(nil, NameSiteTitle), ErrDBNil)
}

func TestGetInt(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name     string
		seedData []models.Setting
		fallback int
		expected int
	}{
		{
			name:     "absent setting returns fallback",
			fallback: 24,
			expected: 24,
		},
		{
			name: "stored value wins",
			seedData: []models.Setting{
				{Name: NameCodeExpirationHours, Value: []byte("72")},
			},
			fallback: 24,
			expected: 72,
		},
		{
			name: "garbage value returns fallback",
			seedData: []models.Setting{
				{Name: NameCodeExpirationHours, Value: []byte("soon")},
			},
			fallback: 24,
			expected: 24,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, db.Where("1 = 1").Delete(&models.Setting{}).Error)
			seedSettings(t, db, tc.seedData)

			n, err := GetInt(db, NameCodeExpirationHours, tc.fallback)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func TestGetBool(t *testing.T) {
	db := setupTestDB(t)

	b, err := GetBool(db, NameRegistrationOpen, true)
	require.NoError(t, err)
	assert.True(t, b)

	seedSettings(t, db, []models.Setting{
		{Name: NameRegistrationOpen, Value: []byte("false")},
	})

	b, err = GetBool(db, NameRegistrationOpen, true)
	require.NoError(t, err)
	assert.False(t, b)
}

func TestSetInt(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SetInt(db, NameCodeMaxUses, 3))

	n, err := GetInt(db, NameCodeMaxUses, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
