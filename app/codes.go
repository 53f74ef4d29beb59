package app

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/dsn"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/verification"
)

func init() { //nolint: gochecknoinits
	codesCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration directory")

	codesGenerateCmd.Flags().StringVar(&codeType, "type", string(auth.RoleGuest), "Role granted by the code")
	codesGenerateCmd.Flags().IntVar(&codeExpirationHours, "expiration-hours", 0, "Hours until the code expires (0 = configured default)")
	codesGenerateCmd.Flags().IntVar(&codeMaxUses, "max-uses", 0, "Maximum redemptions (0 = configured default)")

	codesListCmd.Flags().StringVar(&codeStatus, "status", "", "Filter by status (active, used, expired, revoked)")

	codesCmd.AddCommand(codesGenerateCmd)
	codesCmd.AddCommand(codesListCmd)
	codesCmd.AddCommand(codesRevokeCmd)
	codesCmd.AddCommand(codesCleanupCmd)

	rootCmd.AddCommand(codesCmd)
}

var (
	codeType            string
	codeExpirationHours int
	codeMaxUses         int
	codeStatus          string

	codesCmd = &cobra.Command{
		Use:   "codes",
		Short: "Manage verification codes from the command line",
	}

	codesGenerateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a new verification code",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, cfg, err := codeService()
			if err != nil {
				return err
			}

			role := auth.Role(codeType)
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", codeType)
			}

			defaults := cfg.CodeDefaults()
			if codeExpirationHours <= 0 {
				codeExpirationHours = defaults.DefaultExpirationHours
			}
			if codeMaxUses <= 0 {
				codeMaxUses = defaults.DefaultMaxUses
			}

			code, err := svc.Generate(role, codeExpirationHours, codeMaxUses)
			if err != nil {
				return err
			}

			fmt.Printf("%s\t%s\texpires %s\tmax uses %d\n",
				code.Code, code.Type, code.ExpiresAt.Format("2006-01-02 15:04"), code.MaxUses)

			return nil
		},
	}

	codesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List verification codes",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, _, err := codeService()
			if err != nil {
				return err
			}

			codes, err := svc.List(verification.Filter{
				Status: models.CodeStatus(codeStatus),
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tTYPE\tSTATUS\tUSES\tEXPIRES")
			for _, code := range codes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
					code.ID, code.Code, code.Type, code.Status,
					code.CurrentUses, code.MaxUses,
					code.ExpiresAt.Format("2006-01-02 15:04"))
			}

			return w.Flush()
		},
	}

	codesRevokeCmd = &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke a verification code by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			svc, _, err := codeService()
			if err != nil {
				return err
			}

			if err := svc.Revoke(args[0], models.CodeStatusRevoked); err != nil {
				return err
			}

			fmt.Println("revoked")

			return nil
		},
	}

	codesCleanupCmd = &cobra.Command{
		Use:   "cleanup",
		Short: "Sweep expired and exhausted codes",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, _, err := codeService()
			if err != nil {
				return err
			}

			cleaned, err := svc.Cleanup()
			if err != nil {
				return err
			}

			fmt.Printf("cleaned %d codes\n", cleaned)

			return nil
		},
	}
)

// codeService opens the configured database and builds a verification
// service for one-shot CLI use.
func codeService() (*verification.Service, *config.Config, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn.Create(&cfg)), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	if err = db.AutoMigrate(&models.VerificationCode{}, &models.VerificationCodeLog{}); err != nil {
		return nil, nil, err
	}

	return verification.NewService(db), &cfg, nil
}
