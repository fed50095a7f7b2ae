package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-mcp/internal/adf"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert markdown to ADF JSON",
	Long:  `Converts a markdown file (or stdin) to an Atlassian Document Format document and prints the JSON to stdout. Useful for previewing what a tool call would send to JIRA.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content []byte
		var err error
		if len(args) == 1 {
			content, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
		} else {
			content, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}

		doc := adf.Convert(string(content))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding ADF: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
