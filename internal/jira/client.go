package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dt-pm-tools/jira-mcp/internal/config"
)

// Client is a JIRA REST API v3 client for a single site.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a JIRA client for the given site. Transient failures
// (connection errors, 429, 5xx) are retried with backoff before surfacing.
func NewClient(site config.SiteConfig) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	creds := base64.StdEncoding.EncodeToString([]byte(site.Email + ":" + site.APIToken))
	return &Client{
		baseURL:    strings.TrimRight(site.URL, "/"),
		authHeader: "Basic " + creds,
		httpClient: rc.StandardClient(),
	}
}

// BrowseURL returns the human-facing URL for an issue key.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// CreateIssue creates an issue and returns its identifiers.
func (c *Client) CreateIssue(ctx context.Context, in CreateIssueInput) (*CreatedIssue, error) {
	fields := map[string]any{
		"project":   map[string]string{"key": in.Project},
		"summary":   in.Summary,
		"issuetype": map[string]string{"name": in.IssueType},
	}
	if in.Description != nil {
		fields["description"] = in.Description
	}
	if in.AccountID != "" {
		fields["assignee"] = map[string]string{"id": in.AccountID}
	}
	if len(in.Labels) > 0 {
		fields["labels"] = in.Labels
	}
	if in.Priority != "" {
		fields["priority"] = map[string]string{"name": in.Priority}
	}
	if in.DueDate != "" {
		fields["duedate"] = in.DueDate
	}
	for k, v := range in.Extra {
		fields[k] = v
	}

	data, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/rest/api/3/issue", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}

	var created CreatedIssue
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &created, nil
}

// UpdateIssue changes the given fields on an issue. Zero-valued input fields
// are left as they are.
func (c *Client) UpdateIssue(ctx context.Context, key string, in UpdateIssueInput) error {
	fields := map[string]any{}
	if in.Summary != "" {
		fields["summary"] = in.Summary
	}
	if in.Description != nil {
		fields["description"] = in.Description
	}
	if in.IssueType != "" {
		fields["issuetype"] = map[string]string{"name": in.IssueType}
	}
	if in.AccountID != "" {
		fields["assignee"] = map[string]string{"id": in.AccountID}
	}
	if len(in.Labels) > 0 {
		fields["labels"] = in.Labels
	}
	if in.Priority != "" {
		fields["priority"] = map[string]string{"name": in.Priority}
	}
	if in.DueDate != "" {
		fields["duedate"] = in.DueDate
	}
	for k, v := range in.Extra {
		fields[k] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	data, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", c.baseURL+"/rest/api/3/issue/"+key, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

const searchFields = "summary,project,status,issuetype,priority,labels,assignee,description,created,updated"

// SearchIssues runs a JQL query and returns at most maxResults issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/rest/api/3/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// FindAccountID resolves a user's email address to an account ID, which is
// what the assignee field takes on cloud sites. Inactive accounts are
// skipped when an active one matches.
func (c *Client) FindAccountID(ctx context.Context, email string) (string, error) {
	params := url.Values{}
	params.Set("query", email)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/rest/api/3/user/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("JIRA API returned %d: %s", resp.StatusCode, string(body))
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	fallback := ""
	for _, u := range users {
		if !strings.EqualFold(u.EmailAddress, email) {
			continue
		}
		if u.Active {
			return u.AccountID, nil
		}
		if fallback == "" {
			fallback = u.AccountID
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("no JIRA user found for email %q", email)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
