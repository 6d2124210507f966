package system

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print every collection as one JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("failed to read out flag: %w", err)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			snap, err := e.db.Snapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read store: %w", err)
			}

			if outPath == "" {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			return writeJSONFile(outPath, snap)
		},
	}

	cmd.Flags().String("out", "", "Write to this file instead of stdout")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONFile returns the Close error when the write itself succeeded.
func writeJSONFile(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %q: %w", path, cerr)
		}
	}()

	if err := writeJSON(f, v); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
