package actions

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var attachmentMimeTypes = map[string]bool{
	"application/pdf":          true,
	"application/msword":       true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"image/jpeg": true,
	"image/png":  true,
}

// Attachment is a file submitted alongside an action, e.g. a bill photo.
type Attachment struct {
	FileName string
	MimeType string
	Size     int64
	Content  io.Reader
}

// read enforces the size and type limits and buffers the file. The size is
// checked against the bytes actually read, not only the declared Size.
func (a *Attachment) read() ([]byte, error) {
	if a.Size > maxUploadSizeBytes {
		return nil, fmt.Errorf("file size exceeds 5MB limit: %w", utils.ErrorInvalidInput)
	}
	mimeType := strings.ToLower(strings.TrimSpace(a.MimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !attachmentMimeTypes[mimeType] {
		return nil, fmt.Errorf("unsupported file type %q: %w", a.MimeType, utils.ErrorInvalidInput)
	}
	a.MimeType = mimeType
	a.FileName = strings.TrimSpace(a.FileName)
	if a.FileName == "" {
		a.FileName = "attachment"
	}
	if filepath.Ext(a.FileName) == "" {
		a.FileName += extensionFromMimeType(mimeType)
	}
	if a.Content == nil {
		return nil, fmt.Errorf("file has no content: %w", utils.ErrorInvalidInput)
	}

	data, err := io.ReadAll(io.LimitReader(a.Content, maxUploadSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", a.FileName, err)
	}
	if int64(len(data)) > maxUploadSizeBytes {
		return nil, fmt.Errorf("file size exceeds 5MB limit: %w", utils.ErrorInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty: %w", utils.ErrorInvalidInput)
	}
	return data, nil
}

func extensionFromMimeType(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	case "application/msword":
		return ".doc"
	case "application/vnd.ms-excel":
		return ".xls"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return ".xlsx"
	}
	return ""
}
