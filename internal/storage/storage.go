// Package storage persists uploaded product images and hands back the URL
// they are served from.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

type Storage interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// FileName builds "<field>_<unix millis><ext>" keeping the extension of the
// uploaded file.
func FileName(field, original string, now time.Time) string {
	return fmt.Sprintf("%s_%d%s", field, now.UnixMilli(), strings.ToLower(filepath.Ext(original)))
}
