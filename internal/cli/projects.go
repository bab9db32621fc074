package cli

import (
	"fmt"
	"strings"

	"github.com/ngmaloney/october-cli/internal/gateway"
	"github.com/ngmaloney/october-cli/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) newListCommand() *cobra.Command {
	var (
		limit  int
		cursor string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all projects from the October CMS Gateway",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.info("Fetching projects...")

			resp, err := a.client().ListProjects(cmd.Context(), limit, cursor)
			if err != nil {
				return err
			}

			projects, ok := gateway.ParseProjectList(resp.Body)
			if !ok {
				a.info("No projects found or unexpected response format.")
				if len(resp.Body) > 0 {
					a.info("Response keys: %s", strings.Join(ui.ResponseKeys(resp.Body), ", "))
				}
				return nil
			}

			fmt.Fprintln(a.out, ui.ProjectsTable(projects))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", gateway.DefaultListLimit, "Maximum number of projects to return")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous response")
	return cmd
}

func (a *app) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get <project_id>",
		Aliases: []string{"project"},
		Short:   "Get details for a specific project",
		Args:    exactArgs(1, "project_id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := args[0]
			a.info("Fetching details for project %s...", projectID)

			resp, err := a.client().GetProject(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			project := gateway.ParseProject(resp.Body)

			a.info("Project Details:")
			fmt.Fprintln(a.out, ui.DetailTable(project))

			for _, s := range ui.DetailSections(project) {
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, ui.BulletList(s))
			}
			return nil
		},
	}
}

func (a *app) newBrowseCommand() *cobra.Command {
	var (
		limit  int
		cursor string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse projects interactively",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBrowser(cmd, ui.BrowserOptions{
				Context:        cmd.Context(),
				Limit:          limit,
				Cursor:         cursor,
				RequestTimeout: a.cfg.Timeout,
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", gateway.DefaultListLimit, "Maximum number of projects to load")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous response")
	return cmd
}
