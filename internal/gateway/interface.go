package gateway

import "context"

// Gateway is the read surface the command layer depends on, so commands
// can be exercised against a fake.
type Gateway interface {
	ListProjects(ctx context.Context, limit int, cursor string) (*Response, error)
	GetProject(ctx context.Context, projectID string) (*Response, error)
}

// Compile-time assertion: *Client must satisfy Gateway.
var _ Gateway = (*Client)(nil)
