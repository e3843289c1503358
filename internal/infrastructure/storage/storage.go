// Package storage persists generated media and returns addressable URLs.
package storage

import "context"

// Store saves a media blob and returns a URL clients can fetch it from.
type Store interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}
