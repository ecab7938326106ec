package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sync: one fetch-and-merge pass for the active identity.
func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch and merge new messages once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if appCtx.Sync == nil {
				return fmt.Errorf("no relay configured, use --relay")
			}
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			merged, err := appCtx.Sync.Sync(cmd.Context(), key.ID)
			if err != nil {
				return err
			}
			fmt.Printf("merged %d new message(s)\n", merged)
			return nil
		},
	}
}
