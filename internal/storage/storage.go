// Package storage keeps interview recordings in a private bucket and hands
// out short-lived signed links to them.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

type Deleter interface {
	Delete(ctx context.Context, objectName string) error
}

// Store is what the recording service needs from a bucket.
type Store interface {
	Uploader
	Signer
	Deleter
}

const SignedURLTTL = 15 * time.Minute

// RecordingObject builds recordings/<user>/<session>/<id><ext>.
func RecordingObject(userID, sessionID, id, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join("recordings", userID, sessionID, id+ext)
}
