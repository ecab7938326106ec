package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealchat/internal/services/identity"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the active identity's fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			fmt.Println(identity.Fingerprint(key.Public()))
			return nil
		},
	}
}

func keyPictureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keypicture",
		Short: "Print the active identity's visual fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			fmt.Println(identity.KeyPicture(key.Public()))
			return nil
		},
	}
}

func exportKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-key",
		Short: "Print the active identity's public key in PEM form",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			fmt.Print(identity.PublicPEM(key.Public()))
			return nil
		},
	}
}
