package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/xlsxdb"
)

func init() {
	rootCmd.AddCommand(newDBCmd())
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Convert spreadsheets to SQLite and merge databases",
	}
	cmd.AddCommand(newDBImportCmd(), newDBMergeCmd())
	return cmd
}

func newDBImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx|dir>...",
		Short: "Convert .xlsx workbooks into sibling .db SQLite files",
		Long: `Convert workbooks into SQLite databases next to the source files.
Directory arguments import every .xlsx they contain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandWorkbooks(args)
			if err != nil {
				return err
			}
			for _, path := range paths {
				dbPath, tables, err := xlsxdb.ImportWorkbook(path)
				if err != nil {
					return err
				}
				log.Printf("[db] ✓ %s -> %s (%d tables)", path, dbPath, len(tables))
			}
			return nil
		},
	}
}

// expandWorkbooks resolves directory arguments to the .xlsx files inside.
func expandWorkbooks(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		found, err := filepath.Glob(filepath.Join(arg, "*.xlsx"))
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .xlsx files in %s", arg)
		}
		out = append(out, found...)
	}
	return out, nil
}

func newDBMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <dir>",
		Short: "Merge every .db file in a directory into all_tables.db",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := xlsxdb.Merge(args[0])
			if err != nil {
				return err
			}
			log.Printf("[db] ✓ Merged %d tables into %s", len(tables), xlsxdb.MergedName)
			return nil
		},
	}
}
