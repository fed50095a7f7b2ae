package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/dt-pm-tools/jira-mcp/internal/jira"
)

// UpdateIssueRequest carries the arguments of the update_jira_issue tool.
// Empty fields are left untouched on the issue.
type UpdateIssueRequest struct {
	IssueKey    string
	Summary     string
	Description string // markdown
	IssueType   string
	SiteAlias   string
	Assignee    string // email or account ID
	Labels      []string
	Priority    string
	DueDate     string
	Extra       map[string]any
}

// UpdateIssue applies the given fields to an existing issue and returns the
// user-facing confirmation naming what changed.
func (s *Service) UpdateIssue(ctx context.Context, req UpdateIssueRequest) (string, error) {
	logger := s.callLogger("update_jira_issue")

	client, err := s.clientFor(req.SiteAlias)
	if err != nil {
		return "", err
	}

	in := jira.UpdateIssueInput{Extra: req.Extra}
	var updated []string
	if req.Summary != "" {
		in.Summary = req.Summary
		updated = append(updated, "summary")
	}
	if req.Description != "" {
		in.Description = s.converter.Convert(req.Description)
		updated = append(updated, "description")
	}
	if req.IssueType != "" {
		in.IssueType = req.IssueType
		updated = append(updated, "issue_type")
	}
	if req.Assignee != "" {
		accountID, err := s.resolveAssignee(ctx, client, req.Assignee)
		if err != nil {
			return "", err
		}
		in.AccountID = accountID
		updated = append(updated, "assignee")
	}
	if len(req.Labels) > 0 {
		in.Labels = req.Labels
		updated = append(updated, "labels")
	}
	if req.Priority != "" {
		in.Priority = req.Priority
		updated = append(updated, "priority")
	}
	if req.DueDate != "" {
		in.DueDate = req.DueDate
		updated = append(updated, "due_date")
	}
	if len(req.Extra) > 0 {
		fields := make([]string, 0, len(req.Extra))
		for field := range req.Extra {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		updated = append(updated, fields...)
	}
	if len(updated) == 0 {
		return "", fmt.Errorf("nothing to update: provide at least one field")
	}

	if err := client.UpdateIssue(ctx, req.IssueKey, in); err != nil {
		return "", err
	}

	url := client.BrowseURL(req.IssueKey)
	logger.Info("updated issue", "key", req.IssueKey, "fields", updated)

	return fmt.Sprintf("Successfully updated JIRA issue: %s. Updated fields: %s. URL: %s",
		req.IssueKey, strings.Join(updated, ", "), url), nil
}

func (s *Service) handleUpdateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	extra, _ := args["additional_fields"].(map[string]any)

	text, err := s.UpdateIssue(ctx, UpdateIssueRequest{
		IssueKey:    issueKey,
		Summary:     request.GetString("summary", ""),
		Description: request.GetString("description", ""),
		IssueType:   request.GetString("issue_type", ""),
		SiteAlias:   request.GetString("site_alias", ""),
		Assignee:    request.GetString("assignee", ""),
		Labels:      cast.ToStringSlice(args["labels"]),
		Priority:    request.GetString("priority", ""),
		DueDate:     request.GetString("due_date", ""),
		Extra:       extra,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error updating JIRA issue: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}
