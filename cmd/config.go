package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dt-pm-tools/jira-mcp/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure a JIRA site",
	Long:  `Interactively add or update a JIRA site (URL, email, API token). Multiple sites can be configured under different aliases; tools pick a site via site_alias.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)
		if existing.Sites == nil {
			existing.Sites = map[string]config.SiteConfig{}
		}
		if existing.Name == "" {
			existing.Name = "jira-mcp"
		}
		if existing.LogLevel == "" {
			existing.LogLevel = "info"
		}

		defaultAlias := existing.DefaultSiteAlias
		if defaultAlias == "" {
			defaultAlias = "default"
		}
		alias := prompt(reader, "Site alias", defaultAlias)
		site := existing.Sites[alias]

		// URL
		if site.URL != "" {
			site.URL = prompt(reader, "JIRA URL", site.URL)
		} else {
			site.URL = prompt(reader, "JIRA URL (e.g., https://your-org.atlassian.net)", "")
		}

		// Email
		site.Email = prompt(reader, "Email", site.Email)

		// Token (masked input)
		fmt.Print("API Token (input hidden): ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		if token := strings.TrimSpace(string(tokenBytes)); token != "" {
			site.APIToken = token
		}

		site.Cloud = promptYesNo(reader, "Cloud site", !siteExists(existing, alias) || site.Cloud)

		existing.Sites[alias] = site
		if existing.DefaultSiteAlias == "" || promptYesNo(reader, fmt.Sprintf("Make %q the default site", alias), existing.DefaultSiteAlias == alias) {
			existing.DefaultSiteAlias = alias
		}

		if err := existing.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = existing.Path()
		}
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(existing, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

// prompt reads one line, falling back to def on empty input.
func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptYesNo(reader *bufio.Reader, label string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Printf("%s [%s]: ", label, hint)
	line, _ := reader.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return def
	}
	return line == "y" || line == "yes"
}

func siteExists(cfg config.ServerConfig, alias string) bool {
	_, ok := cfg.Sites[alias]
	return ok
}

func init() {
	rootCmd.AddCommand(configCmd)
}
