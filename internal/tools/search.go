package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/dt-pm-tools/jira-mcp/internal/adf"
	"github.com/dt-pm-tools/jira-mcp/internal/jira"
)

// defaultMaxResults caps a search when the caller does not ask for a limit.
const defaultMaxResults = 50

// descriptionPreviewLen bounds the single-line description excerpt in
// search results.
const descriptionPreviewLen = 200

// SearchIssuesRequest carries the arguments of the search_jira_issues tool.
type SearchIssuesRequest struct {
	Query      string // JQL
	SiteAlias  string
	MaxResults int
}

// SearchIssues runs a JQL query and formats the matches as a readable
// multi-line summary, one block per issue.
func (s *Service) SearchIssues(ctx context.Context, req SearchIssuesRequest) (string, error) {
	logger := s.callLogger("search_jira_issues")

	client, err := s.clientFor(req.SiteAlias)
	if err != nil {
		return "", err
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	result, err := client.SearchIssues(ctx, req.Query, maxResults)
	if err != nil {
		return "", err
	}
	logger.Info("searched issues", "jql", req.Query, "matches", len(result.Issues))

	if len(result.Issues) == 0 {
		return fmt.Sprintf("No issues found for query: %s", req.Query), nil
	}

	blocks := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		blocks = append(blocks, formatIssue(client, issue))
	}
	return fmt.Sprintf("Found %d issues:\n\n", len(result.Issues)) + strings.Join(blocks, "\n\n"), nil
}

func formatIssue(client *jira.Client, issue jira.Issue) string {
	assignee := "Unassigned"
	if issue.Fields.Assignee != nil && issue.Fields.Assignee.DisplayName != "" {
		assignee = issue.Fields.Assignee.DisplayName
	}

	lines := []string{
		fmt.Sprintf("**%s**: %s", issue.Key, issue.Fields.Summary),
		fmt.Sprintf("  - **Project**: %s", valueOr(issue.Fields.Project.Name, "N/A")),
		fmt.Sprintf("  - **Type**: %s", valueOr(issue.Fields.IssueType.Name, "N/A")),
		fmt.Sprintf("  - **Status**: %s", valueOr(issue.Fields.Status.Name, "N/A")),
		fmt.Sprintf("  - **Priority**: %s", valueOr(issue.Fields.Priority.Name, "N/A")),
		fmt.Sprintf("  - **Assignee**: %s", assignee),
		fmt.Sprintf("  - **Created**: %s", valueOr(issue.Fields.Created, "N/A")),
		fmt.Sprintf("  - **Updated**: %s", valueOr(issue.Fields.Updated, "N/A")),
		fmt.Sprintf("  - **URL**: %s", client.BrowseURL(issue.Key)),
	}
	if preview := describePreview(issue.Fields.Description); preview != "" {
		lines = append(lines, fmt.Sprintf("  - **Description**: %s", preview))
	}
	return strings.Join(lines, "\n")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// describePreview flattens an ADF description into a single line suitable
// for the bullet layout, trimming long bodies.
func describePreview(doc *adf.Document) string {
	if doc == nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.PlainText()), " ")
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > descriptionPreviewLen {
		text = string(runes[:descriptionPreviewLen]) + "..."
	}
	return text
}

func (s *Service) handleSearchIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := SearchIssuesRequest{
		Query:      query,
		SiteAlias:  request.GetString("site_alias", ""),
		MaxResults: cast.ToInt(request.GetArguments()["max_results"]),
	}

	text, err := s.SearchIssues(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error searching JIRA issues: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}
