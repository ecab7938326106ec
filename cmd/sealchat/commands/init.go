package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealchat/internal/services/identity"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a new identity key pair and store it",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appCtx.Identities.Generate()
			if err != nil {
				return err
			}
			fmt.Printf("Identity created: %s\n", key.ID)
			fmt.Printf("Fingerprint: %s\n", identity.Fingerprint(key.Public()))
			fmt.Println(identity.KeyPicture(key.Public()))
			return nil
		},
	}
}
