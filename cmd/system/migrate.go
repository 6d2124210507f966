package system

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the store schema",
		Long: `Create the kv_store table for the sqlite and postgres drivers.
The memory and redis drivers have no schema; the command only checks the
connection for them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the store runs the migration.
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			fmt.Fprintf(cmd.OutOrStdout(), "Migrations executed successfully (%s).\n", e.cfg.Store.Driver)
			return nil
		},
	}

	return cmd
}
