// Package images holds the blob stores for location photos.
package images

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ecoexplorer/core/internal/config"
	"go.uber.org/zap"
)

// ErrInvalidName rejects names that are not a single safe path segment.
var ErrInvalidName = errors.New("invalid image name")

// Store is a flat blob namespace addressed by filename.
type Store interface {
	// Put writes data under name and returns its public URL or path.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Delete succeeds when name is already absent.
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	URL(name string) string
}

// Open builds the store selected by images.driver.
func Open(cfg *config.AppConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Images.Driver {
	case "memory":
		logger.Warn("using in-memory image store; uploads are lost on restart")
		return NewMemoryStore(""), nil
	case "local":
		return NewLocalStore(cfg.ImageDir(), cfg.Images.Local.PublicPath)
	case "s3":
		return NewS3Store(cfg.Images.S3)
	case "github":
		return NewGitHubStore(cfg.Images.GitHub, nil), nil
	}
	return nil, fmt.Errorf("unknown images driver %q", cfg.Images.Driver)
}

// ValidName reports whether name is a non-empty segment of [A-Za-z0-9._-].
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}

func checkName(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// DetectContentType prefers the declared type, then the extension, then the payload bytes.
func DetectContentType(name string, data []byte, declared string) string {
	if ct := strings.TrimSpace(declared); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}
