package jira

import "github.com/dt-pm-tools/jira-mcp/internal/adf"

// Issue represents a JIRA issue from the REST API v3.
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields contains the issue fields we care about.
type Fields struct {
	Summary     string        `json:"summary"`
	Project     Project       `json:"project"`
	Status      Status        `json:"status"`
	IssueType   IssueType     `json:"issuetype"`
	Priority    Priority      `json:"priority,omitempty"`
	Labels      []string      `json:"labels,omitempty"`
	Assignee    *User         `json:"assignee,omitempty"`
	Description *adf.Document `json:"description,omitempty"`
	Created     string        `json:"created,omitempty"`
	Updated     string        `json:"updated,omitempty"`
}

// Project identifies the project an issue belongs to.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Status represents a JIRA status.
type Status struct {
	Name string `json:"name"`
}

// IssueType represents a JIRA issue type.
type IssueType struct {
	Name string `json:"name"`
}

// Priority represents a JIRA priority.
type Priority struct {
	Name string `json:"name"`
}

// User represents a JIRA user.
type User struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
	Active       bool   `json:"active"`
}

// CreateIssueInput collects everything needed to create an issue. Extra
// holds additional JIRA fields passed through to the API verbatim.
type CreateIssueInput struct {
	Project     string
	Summary     string
	Description *adf.Document
	IssueType   string
	AccountID   string
	Labels      []string
	Priority    string
	DueDate     string
	Extra       map[string]any
}

// UpdateIssueInput carries the fields to change on an existing issue. Zero
// values are left untouched.
type UpdateIssueInput struct {
	Summary     string
	Description *adf.Document
	IssueType   string
	AccountID   string
	Labels      []string
	Priority    string
	DueDate     string
	Extra       map[string]any
}

// CreatedIssue is the response from POST /rest/api/3/issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// SearchResult is the response from GET /rest/api/3/search.
type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}
