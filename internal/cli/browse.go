package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/october-cli/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) runBrowser(cmd *cobra.Command, opts ui.BrowserOptions) error {
	browser := ui.NewBrowser(a.client(), opts)
	p := tea.NewProgram(browser,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(a.out),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return browser.Err()
}
