package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"path"
	"regexp"
	"strings"
	"time"
)

// Object is a stored file
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store persists uploaded media
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*Object, error)
	Delete(ctx context.Context, key string) error
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateKey builds prefix/YYYY/MM/<base>-<random6><ext> from an uploaded filename.
// Non-ASCII names collapse to "file".
func GenerateKey(prefix, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.Trim(unsafeKeyChars.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "file"
	}
	if len(base) > 60 {
		base = base[:60]
	}
	return fmt.Sprintf("%s/%d/%02d/%s-%s%s", prefix, now.Year(), now.Month(), base, randomSuffix(6), ext)
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = keyAlphabet[i%len(keyAlphabet)]
			continue
		}
		b[i] = keyAlphabet[idx.Int64()]
	}
	return string(b)
}
