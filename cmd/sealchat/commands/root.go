package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sealchat/internal/app"
)

var (
	home     string
	relayURL string
	appCtx   *app.App
)

// Execute runs the CLI.
func Execute() error {
	root := &cobra.Command{
		Use:           "sealchat",
		Short:         "End-to-end encrypted chat over an untrusted relay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".sealchat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			var err error
			appCtx, err = app.New(app.Config{Home: home, RelayURL: relayURL})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.sealchat)")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")

	root.AddCommand(
		initCmd(), keysCmd(), fingerprintCmd(), keyPictureCmd(), exportKeyCmd(),
		chatCmd(), sendCmd(), historyCmd(), syncCmd(), watchCmd(), mediaCmd(),
	)

	defer func() {
		if appCtx != nil {
			_ = appCtx.Close()
		}
	}()
	return root.Execute()
}
