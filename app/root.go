// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "innovagrants-admin",
	Short: "InnovaGrants-Admin is a web-based management tool for grant competitions",
	Long: `InnovaGrants-Admin is a web-based management tool for grants and
innovation-project competitions that provides an easy-to-use interface for
managing projects, reviews, users, catalogs, and registration codes.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
