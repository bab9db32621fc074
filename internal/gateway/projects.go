package gateway

import (
	"context"
	"strconv"
)

const (
	EndpointListProjects = "projects/list"
	EndpointGetProject   = "projects/get"

	DefaultListLimit = 50
)

// ProjectSummary is one entry of a projects/list reply.
type ProjectSummary struct {
	Name string
	ID   string
}

// Project is a projects/get reply.
type Project struct {
	Name       string
	ID         string
	LicenseKey string
	Status     string
	Author     string
	CreatedAt  string
	Plugins    []string
	Themes     []string
	Domains    []string
}

// ListProjects fetches one page of projects. A limit <= 0 means the
// default; cursor is passed through only when non-empty.
func (c *Client) ListProjects(ctx context.Context, limit int, cursor string) (*Response, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	params := NewParams().Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return c.Call(ctx, EndpointListProjects, params)
}

// GetProject fetches a single project record.
func (c *Client) GetProject(ctx context.Context, projectID string) (*Response, error) {
	return c.Call(ctx, EndpointGetProject, NewParams().Set("project_id", projectID))
}

// ParseProjectList reads the "data" sequence of a list reply. ok is false
// when "data" is missing or not a list. Entries that are not objects are
// skipped.
func ParseProjectList(body map[string]any) (projects []ProjectSummary, ok bool) {
	items, ok := body["data"].([]any)
	if !ok {
		return nil, false
	}
	projects = make([]ProjectSummary, 0, len(items))
	for _, item := range items {
		m, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		projects = append(projects, ProjectSummary{
			Name: strField(m, "name"),
			ID:   strField(m, "project_id"),
		})
	}
	return projects, true
}

// ParseProject reads a get reply. Missing fields are left empty.
func ParseProject(body map[string]any) Project {
	return Project{
		Name:       strField(body, "name"),
		ID:         strField(body, "project_id"),
		LicenseKey: strField(body, "license_key"),
		Status:     strField(body, "status"),
		Author:     strField(body, "author"),
		CreatedAt:  strField(body, "created_at"),
		Plugins:    strList(body, "plugins"),
		Themes:     strList(body, "themes"),
		Domains:    strList(body, "domains"),
	}
}

// strField returns m[key] as text. Numbers and booleans are formatted;
// anything else reads as empty.
func strField(m map[string]any, key string) string {
	return scalarString(m[key])
}

func strList(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s := scalarString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
