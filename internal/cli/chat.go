package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"folio/internal/chat"
	"folio/internal/stream"
	"folio/internal/tui"
)

var chatEndpoint string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a running folio server in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint := appCfg.Chat.Endpoint
		if chatEndpoint != "" {
			endpoint = chatEndpoint
		}
		framing, err := stream.ParseFraming(appCfg.Chat.Framing)
		if err != nil {
			return err
		}
		client, err := chat.NewClient(endpoint, framing, nil)
		if err != nil {
			return err
		}

		title := "folio"
		if appCfg.Site.Name != "" {
			title = appCfg.Site.Name
		}
		opts := []chat.Option{chat.WithMaxHistory(appCfg.Chat.MaxHistory)}
		if appCfg.Site.Owner != "" {
			opts = append(opts, chat.WithWelcome(fmt.Sprintf(
				"Hi! I can answer questions about %s's projects, experience and blog posts. What would you like to know?",
				appCfg.Site.Owner)))
		}
		_, err = tea.NewProgram(tui.New(client, title, opts...), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatEndpoint, "endpoint", "", "chat endpoint URL (overrides chat.endpoint)")
	rootCmd.AddCommand(chatCmd)
}
