package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.uber.org/zap"
)

type localStorage struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalStorage writes files into dir; they are served under
// publicURL + "/uploads/".
func NewLocalStorage(dir, publicURL string, logger *zap.Logger) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload dir: %w", err)
	}

	return &localStorage{
		dir:     dir,
		baseURL: strings.TrimRight(publicURL, "/") + "/uploads/",
		logger:  logger,
	}, nil
}

func (s *localStorage) Save(ctx context.Context, name, _ string, body io.Reader) (string, error) {
	name = filepath.Base(name)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("error writing file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing file: %w", err)
	}

	mylogger.Debug(ctx, s.logger, "Upload stored", zap.String("path", path))
	return s.baseURL + name, nil
}
