// Package jira pulls issues from the Jira REST API into the same tabular
// shape as a CSV export.
package jira

import (
	"context"
	"regexp"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"github.com/go-faster/errors"

	"github.com/danielolaszy/sprintlens/internal/config"
	"github.com/danielolaszy/sprintlens/internal/ingest"
	"github.com/danielolaszy/sprintlens/internal/logging"
)

// DefaultPageSize is the number of issues requested per search call.
const DefaultPageSize = 100

// Header is the header row of every table returned by FetchTable.
var Header = []string{"Issue key", "Summary", "Status", "Sprint"}

// legacySprintName matches the name in the pre-Cloud string encoding of the
// sprint field, e.g. "com.atlassian.greenhopper.service.sprint.Sprint@1f[id=3,state=CLOSED,name=Sprint 3,...]".
var legacySprintName = regexp.MustCompile(`name=([^,\]]+)`)

// Client handles interactions with the JIRA API
type Client struct {
	client      *jira.Client
	sprintField string
	pageSize    int
}

// NewClient creates a new JIRA client from the given settings.
func NewClient(cfg config.JiraConfig) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.Token,
	}

	client, err := jira.NewClient(tp.Client(), cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "create jira client")
	}

	sprintField := cfg.SprintField
	if sprintField == "" {
		sprintField = "customfield_10020"
	}

	return &Client{
		client:      client,
		sprintField: sprintField,
		pageSize:    DefaultPageSize,
	}, nil
}

// FetchTable runs jql and returns one row per matching issue. Sprint names
// are joined with ";" so the ingestion pipeline splits them again.
func (c *Client) FetchTable(ctx context.Context, jql string) (ingest.Table, error) {
	table := ingest.Table{Header: append([]string(nil), Header...)}

	opts := &jira.SearchOptions{
		MaxResults: c.pageSize,
		Fields:     []string{"summary", "status", c.sprintField},
	}

	for {
		issues, resp, err := c.client.Issue.SearchWithContext(ctx, jql, opts)
		if err != nil {
			return ingest.Table{}, errors.Wrapf(err, "search issues (status: %d)", statusCode(resp))
		}

		for _, issue := range issues {
			table.Rows = append(table.Rows, c.row(issue))
		}

		logging.Debug("fetched jira page",
			"start_at", opts.StartAt,
			"count", len(issues),
			"total", resp.Total)

		opts.StartAt += len(issues)
		if len(issues) == 0 || opts.StartAt >= resp.Total {
			break
		}
	}

	logging.Info("fetched jira issues", "jql", jql, "count", len(table.Rows))
	return table, nil
}

func (c *Client) row(issue jira.Issue) []string {
	var summary, status string
	var sprints []string

	if f := issue.Fields; f != nil {
		summary = f.Summary
		if f.Status != nil {
			status = f.Status.Name
		}
		if v, ok := f.Unknowns[c.sprintField]; ok {
			sprints = SprintNames(v)
		}
	}

	return []string{issue.Key, summary, status, strings.Join(sprints, ";")}
}

// SprintNames extracts sprint names from a decoded sprint field value. Both
// the object form ({"name": "Sprint 1", ...}) and the legacy string form
// are understood; anything else is ignored.
func SprintNames(v any) []string {
	var names []string

	add := func(item any) {
		switch s := item.(type) {
		case map[string]any:
			if name, ok := s["name"].(string); ok && strings.TrimSpace(name) != "" {
				names = append(names, strings.TrimSpace(name))
			}
		case string:
			if m := legacySprintName.FindStringSubmatch(s); m != nil {
				names = append(names, strings.TrimSpace(m[1]))
			} else if strings.TrimSpace(s) != "" && !strings.Contains(s, "[") {
				names = append(names, strings.TrimSpace(s))
			}
		}
	}

	switch items := v.(type) {
	case []any:
		for _, item := range items {
			add(item)
		}
	default:
		add(items)
	}

	return names
}

func statusCode(resp *jira.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
