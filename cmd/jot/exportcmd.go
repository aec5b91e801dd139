package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jotdown/jot/internal/export"
	"github.com/jotdown/jot/internal/ui"
)

var (
	exportFormat string
	importFormat string
	importMerge  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the collection to JSONL or YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		notes := a.store.List()
		if err := export.WriteFile(args[0], notes, exportFormat); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s Exported %d notes to %s\n", ui.RenderPass("✓"), len(notes), args[0])
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import notes from JSONL or YAML",
	Long: `Import notes from a previous export.

By default imported notes replace the local collection; --merge keeps
existing notes and adds imported ones that carry unseen ids.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		imported, err := export.ReadFile(args[0], importFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
			os.Exit(1)
		}

		if importMerge {
			existing := a.store.ReadAll()
			seen := make(map[string]bool, len(existing))
			for _, n := range existing {
				seen[n.ID] = true
			}
			for _, n := range imported {
				if !seen[n.ID] {
					existing = append(existing, n)
				}
			}
			imported = existing
		}

		a.store.WriteAll(imported)
		fmt.Printf("%s Imported %d notes from %s\n", ui.RenderPass("✓"), len(imported), args[0])
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatJSONL, "export format: jsonl or yaml")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", export.FormatJSONL, "import format: jsonl or yaml")
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "merge with existing notes instead of replacing")
}
