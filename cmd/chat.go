package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/partsdesk/internal/storage"
	"github.com/lehigh-university-libraries/partsdesk/internal/tui"
)

func newChatCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the parts assistant in the terminal",
		Long: `Opens an interactive terminal chat backed by the same pipeline as the API.

Type /cart to see the session cart. Logs go to stderr; redirect them with
2>partsdesk.log to keep the screen clean.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), root.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			status := a.orchestrator.Status()
			summary := fmt.Sprintf("%d parts loaded, search: %s, replies: %s",
				status.PartsDataLoaded, status.SemanticBackend, status.TextGenerator)

			m := tui.New(cmd.Context(), a.orchestrator, storage.NewID(), summary)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	return cmd
}
