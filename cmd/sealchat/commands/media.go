package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

func mediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Work with message attachments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "cat <media-id>",
			Short: "Decrypt an attachment and write its bytes to stdout",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := appCtx.Identities.Current()
				if err != nil {
					return err
				}
				m, err := appCtx.Media.Hydrate(key, domain.Media{ID: args[0]})
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(m.Content)
				return err
			},
		},
		&cobra.Command{
			Use:   "info <media-id>",
			Short: "Show attachment metadata without decrypting content",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := appCtx.Identities.Current()
				if err != nil {
					return err
				}
				m, ok, err := appCtx.Store.MediaMeta(key, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("media %q not found", args[0])
				}
				fmt.Printf("%s  %s  %d bytes\n", m.ID, m.Mime, m.Size)
				return nil
			},
		},
	)
	return cmd
}
