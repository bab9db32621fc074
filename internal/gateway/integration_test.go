//go:build integration

package gateway

import (
	"context"
	"os"
	"testing"
)

func getTestConfig(t *testing.T) (baseURL, key, secret string) {
	t.Helper()
	key = os.Getenv("OCTOBER_TEST_API_KEY")
	secret = os.Getenv("OCTOBER_TEST_API_SECRET")
	baseURL = os.Getenv("OCTOBER_TEST_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if key == "" || secret == "" {
		t.Skip("OCTOBER_TEST_API_KEY / OCTOBER_TEST_API_SECRET not set, skipping integration test")
	}
	return
}

func TestGatewayListAndGet(t *testing.T) {
	baseURL, key, secret := getTestConfig(t)

	client := New(Options{
		BaseURL:     baseURL,
		Credentials: Credentials{Key: key, Secret: secret},
	})

	resp, err := client.ListProjects(context.Background(), 5, "")
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	projects, ok := ParseProjectList(resp.Body)
	if !ok {
		t.Fatalf("unexpected list body: %v", resp.Body)
	}
	t.Logf("projects: %d", len(projects))
	for _, p := range projects {
		t.Logf("  - %s (%s)", p.Name, p.ID)
	}

	if len(projects) == 0 {
		return
	}

	resp, err = client.GetProject(context.Background(), projects[0].ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	p := ParseProject(resp.Body)
	t.Logf("project %s: status=%s plugins=%d", p.ID, p.Status, len(p.Plugins))
}
