package main

import "github.com/dt-pm-tools/jira-mcp/cmd"

func main() {
	cmd.Execute()
}
