package config

import (
	"time"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/logger"
)

const (
	// DefaultExpirationHours is used when no verification-code expiration is configured.
	DefaultExpirationHours = 24
	// DefaultMaxUses is used when no verification-code use limit is configured.
	DefaultMaxUses = 1
	// DefaultCleanupInterval is used when auto cleanup is enabled without an interval.
	DefaultCleanupInterval = time.Hour
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode           bool // enable dev mode for development
	DB                DB
	Log               logger.Log
	Title             string
	Webserver         Webserver
	VerificationCodes VerificationCodes
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// VerificationCodes holds the defaults applied when a code generation
// request leaves expiration or use limits unset, and the auto cleanup
// schedule of the background sweeper.
type VerificationCodes struct {
	DefaultExpirationHours int           `toml:"defaultExpirationHours"`
	DefaultMaxUses         int           `toml:"defaultMaxUses"`
	AutoCleanup            bool          `toml:"autoCleanup"`
	CleanupInterval        time.Duration `toml:"cleanupInterval"`
}
