package system

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/dentalcenter/internal/app"
)

func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the default dataset for absent keys",
		Long: `Write the default users, patients and incidents. Keys that already
exist are left untouched, so running the command twice is harmless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			written, err := app.Seed(cmd.Context(), e.cfg, e.db, e.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(written) == 0 {
				fmt.Fprintln(out, "Store already initialized; nothing written.")
				return nil
			}
			fmt.Fprintf(out, "Seeded: %s\n", strings.Join(written, ", "))
			return nil
		},
	}

	return cmd
}
