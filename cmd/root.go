package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/dentalcenter/cmd/http"
	systemcmd "github.com/Alijeyrad/dentalcenter/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "dentalcenter",
	Short: "Dental center management: patients, incidents and appointments.",
	Long: `dentalcenter keeps a dental clinic's patients, treatment incidents and
attachments in a key-value store (SQLite, PostgreSQL, Redis or memory) and
serves them over a JSON API with admin and patient roles.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
