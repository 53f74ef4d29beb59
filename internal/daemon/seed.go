package daemon

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/setting"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/controller/user"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
)

func seed(cfg *config.Config, db *gorm.DB) {
	// Seed initial data if user table is empty
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		_, err := user.Create(db, &models.User{
			Active:   true,
			Username: "admin",
			Role:     auth.RoleAdmin,
		}, "changeme")
		if err != nil {
			log.Error().Err(err).Msg("failed to seed admin user")
		} else {
			log.Warn().Msg("seeded default admin user, change its password")
		}
	}

	defaults := cfg.CodeDefaults()
	seedSetting(db, setting.NameSiteTitle, cfg.Title)
	seedSetting(db, setting.NameRegistrationOpen, "true")
	seedSetting(db, setting.NameCodeExpirationHours, strconv.Itoa(defaults.DefaultExpirationHours))
	seedSetting(db, setting.NameCodeMaxUses, strconv.Itoa(defaults.DefaultMaxUses))
}

// seedSetting inserts a setting only when it does not exist yet.
func seedSetting(db *gorm.DB, name, value string) {
	if _, err := setting.Get(db, name); err == nil {
		return
	}

	if _, err := setting.Create(db, name, []byte(value)); err != nil {
		log.Error().Err(err).Str("setting", name).Msg("failed to seed setting")
	}
}
