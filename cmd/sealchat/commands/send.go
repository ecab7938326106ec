package commands

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

// send <chat-id> <message>: encrypt and send a message through the relay.
func sendCmd() *cobra.Command {
	var attach string
	cmd := &cobra.Command{
		Use:   "send <chat-id> <message>",
		Short: "Encrypt and send a message to a chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if appCtx.Relay == nil {
				return fmt.Errorf("no relay configured, use --relay")
			}
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

			msg := domain.Message{
				ID:        uuid.NewString(),
				ChatID:    chat.ID,
				Seq:       domain.SeqUnassigned,
				Status:    domain.StatusPending,
				Content:   args[1],
				Timestamp: time.Now().UnixMilli(),
			}
			if attach != "" {
				mediaID, err := storeAttachment(key, attach)
				if err != nil {
					return err
				}
				msg.MediaID = mediaID
			}

			stored, _, err := appCtx.Store.AppendMessage(key, msg)
			if err != nil {
				return err
			}
			status, sendErr := appCtx.Messages.Send(cmd.Context(), key, chat, stored)
			if err := appCtx.Store.SetMessageStatus(stored.ID, status); err != nil {
				return err
			}
			if sendErr != nil {
				return sendErr
			}
			fmt.Println(status)
			return nil
		},
	}
	cmd.Flags().StringVar(&attach, "attach", "", "attach a file")
	return cmd
}

func storeAttachment(key domain.PrivateKey, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	media := domain.Media{
		ID:      uuid.NewString(),
		Mime:    mimeType,
		Size:    int64(len(data)),
		Content: data,
	}
	if err := appCtx.Media.Store(key, media); err != nil {
		return "", err
	}
	return media.ID, nil
}
