package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// watch: keep polling the relay until interrupted.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the relay periodically until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if appCtx.Poller == nil {
				return fmt.Errorf("no relay configured, use --relay")
			}
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			if err := appCtx.Poller.Start(key.ID); err != nil {
				return err
			}
			defer appCtx.Poller.Stop(key.ID)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			fmt.Println("watching; press Ctrl-C to stop")
			<-stop
			return nil
		},
	}
}
