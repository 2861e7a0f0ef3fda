package ui

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrNotImage is returned when an attachment is not an image.
var ErrNotImage = errors.New("not an image")

// Attachment describes a local image shown next to the form. It is never
// persisted.
type Attachment struct {
	Name        string
	ContentType string
	Size        int64
}

// InspectAttachment sniffs path and accepts only images.
func InspectAttachment(path string) (Attachment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Attachment{}, errors.New("enter a file path")
	}

	file, err := os.Open(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("open attachment: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("%s is a directory", path)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Attachment{}, fmt.Errorf("read attachment: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return Attachment{}, fmt.Errorf("%w: %s is %s", ErrNotImage, filepath.Base(path), contentType)
	}

	return Attachment{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

// String renders the one-line preview.
func (a Attachment) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.Name, a.ContentType, humanize.Bytes(uint64(a.Size)))
}
