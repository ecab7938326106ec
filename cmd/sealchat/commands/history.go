package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

// history <chat-id>: list local history, or fetch from the relay with
// --remote.
func historyCmd() *cobra.Command {
	var (
		remote bool
		limit  int
		before int64
	)
	cmd := &cobra.Command{
		Use:   "history <chat-id>",
		Short: "Show chat history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			chat, ok, err := appCtx.Store.Chat(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("chat %q not found", args[0])
			}

			var msgs []domain.Message
			if remote {
				if appCtx.Relay == nil {
					return fmt.Errorf("no relay configured, use --relay")
				}
				msgs, err = appCtx.Messages.History(cmd.Context(), key, chat, limit, before)
			} else {
				msgs, err = appCtx.Store.Messages(key, chat.ID)
			}
			if err != nil {
				return err
			}
			for _, m := range msgs {
				ts := time.UnixMilli(m.Timestamp).Format(time.RFC3339)
				attachment := ""
				if m.HasMedia() {
					attachment = " [media " + m.MediaID + "]"
				}
				fmt.Printf("%s %-8s %s%s\n", ts, m.Status, m.Content, attachment)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "fetch from relay instead of local store")
	cmd.Flags().IntVar(&limit, "limit", 50, "max messages for --remote")
	cmd.Flags().Int64Var(&before, "before", 0, "exclusive upper timestamp for --remote")
	return cmd
}
