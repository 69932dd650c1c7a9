package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hafizhannan/baatcheet/internal/chat"
)

// FileUploader stores a file and returns its attachment descriptor.
type FileUploader interface {
	UploadFile(ctx context.Context, name string, r io.Reader) (*chat.Attachment, error)
}

// FileSender delivers an uploaded attachment as a chat message.
type FileSender interface {
	SendFile(to string, att chat.Attachment)
}

// SendAttachment uploads the file at path and sends it to the contact. The
// attachment keeps the file's base name; the server assigns the URL.
func SendAttachment(ctx context.Context, path, to string, up FileUploader, sender FileSender) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	att, err := up.UploadFile(ctx, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	sender.SendFile(to, *att)
	return nil
}
