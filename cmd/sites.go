package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-mcp/internal/config"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List configured JIRA sites",
	Long:  `Lists the configured site aliases with their URLs. Tokens are never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		aliases := cfg.Aliases()
		if len(aliases) == 0 {
			fmt.Println("No sites configured. Run 'jira-mcp config' to add one.")
			return nil
		}

		for _, alias := range aliases {
			site := cfg.Sites[alias]
			marker := " "
			if alias == cfg.DefaultSiteAlias {
				marker = "*"
			}
			fmt.Printf("%s %-12s %s (%s)\n", marker, alias, site.URL, site.Email)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
