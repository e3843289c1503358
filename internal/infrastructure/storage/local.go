package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"bongo-server/internal/utils/idgen"
)

// LocalStore writes media files under a directory served as static content.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the directory if needed. baseURL is the public path
// prefix the directory is served under.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Save(_ context.Context, data []byte, contentType string) (string, error) {
	name, err := mediaFileName(data, contentType)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

// mediaFileName builds a random file name with an extension derived from the
// declared content type, falling back to sniffing the bytes.
func mediaFileName(data []byte, contentType string) (string, error) {
	id, err := idgen.GenerateSecureID("media", 20)
	if err != nil {
		return "", fmt.Errorf("generate media id: %w", err)
	}

	ext := extensionFor(data, contentType)
	return id + ext, nil
}

func extensionFor(data []byte, contentType string) string {
	if mt := mimetype.Lookup(contentType); mt != nil && mt.Extension() != "" {
		return mt.Extension()
	}
	return mimetype.Detect(data).Extension()
}
