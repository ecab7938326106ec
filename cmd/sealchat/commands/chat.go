package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/services/identity"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Manage chats",
	}
	cmd.AddCommand(chatAddCmd(), chatListCmd(), chatRenameCmd(), chatRmCmd())
	return cmd
}

func chatAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <peer-public-key.pem>",
		Short: "Create a chat with a counterparty public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			pemBytes, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			der, err := crypto.ParsePublicPEM(pemBytes)
			if err != nil {
				return err
			}
			peer, err := domain.NewPublicKey(der)
			if err != nil {
				return err
			}
			chat := domain.Chat{
				ID:        uuid.NewString(),
				KeyID:     key.ID,
				PeerKey:   peer,
				Name:      name,
				CreatedAt: time.Now().UnixMilli(),
			}
			if err := appCtx.Store.PutChat(chat); err != nil {
				return err
			}
			fmt.Printf("Chat created: %s\n", chat.ID)
			fmt.Println("Verify the counterparty's key picture out of band:")
			fmt.Println(identity.KeyPicture(peer))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func chatListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List chats for the active identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appCtx.Identities.Current()
			if err != nil {
				return err
			}
			chats, err := appCtx.Store.Chats(key.ID)
			if err != nil {
				return err
			}
			for _, c := range chats {
				name := c.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("%s  %s  peer %s\n", c.ID, name,
					identity.Fingerprint(c.PeerKey)[:16])
			}
			return nil
		},
	}
}

func chatRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <chat-id> <name>",
		Short: "Rename a chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Store.RenameChat(args[0], args[1])
		},
	}
}

func chatRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <chat-id>",
		Short: "Delete a chat and its local history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Store.DeleteChat(args[0])
		},
	}
}
