package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sealchat/internal/services/identity"
)

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage identity keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored identities",
			RunE: func(cmd *cobra.Command, args []string) error {
				keys, err := appCtx.Identities.List()
				if err != nil {
					return err
				}
				current, _ := appCtx.Identities.Current()
				for _, k := range keys {
					marker := " "
					if k.ID == current.ID {
						marker = "*"
					}
					fmt.Printf("%s %s  %s  created %s\n",
						marker, k.ID, identity.Fingerprint(k.Public())[:16],
						time.UnixMilli(k.CreatedAt).Format(time.RFC3339))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "use <id>",
			Short: "Switch the active identity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return appCtx.Identities.SetCurrent(args[0])
			},
		},
	)
	return cmd
}
