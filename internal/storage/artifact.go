package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// KeyStrategy decides the owner segment of an artifact key.
type KeyStrategy string

const (
	// KeyStrategyDemo uses a fixed "demo" owner for every document
	KeyStrategyDemo KeyStrategy = "demo"
	// KeyStrategyEmailHash uses the first ten hex digits of the SHA-256 of the email
	KeyStrategyEmailHash KeyStrategy = "email-hash"
)

const (
	keyPrefix       = "cvs/"
	timestampLayout = "20060102150405"
	demoOwner       = "demo"
	anonymousOwner  = "anonymous"
)

// ParseKeyStrategy validates a strategy name. The empty string yields KeyStrategyDemo.
func ParseKeyStrategy(s string) (KeyStrategy, error) {
	switch KeyStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeyStrategyDemo:
		return KeyStrategyDemo, nil
	case KeyStrategyEmailHash:
		return KeyStrategyEmailHash, nil
	default:
		return "", fmt.Errorf("unknown artifact key strategy %q (want %q or %q)", s, KeyStrategyDemo, KeyStrategyEmailHash)
	}
}

// Owner returns the owner segment for email under the strategy.
func (k KeyStrategy) Owner(email string) string {
	if k != KeyStrategyEmailHash {
		return demoOwner
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return anonymousOwner
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])[:10]
}

// ArtifactKey builds cvs/{owner}_{timestamp}_{suffix}.pdf. The suffix separates runs that
// finish within the same second; an empty suffix is omitted.
func ArtifactKey(strategy KeyStrategy, email string, now time.Time, suffix string) string {
	name := strategy.Owner(email) + "_" + now.UTC().Format(timestampLayout)
	if suffix != "" {
		name += "_" + suffix
	}
	return keyPrefix + name + ".pdf"
}

// Location names where a document is published.
type Location struct {
	Bucket string
	Key    string
	TTL    time.Duration
}

// Published is the result of a successful Publish.
type Published struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

// Publish uploads localPath and presigns a download link for it.
func Publish(ctx context.Context, store ObjectStore, localPath string, loc Location) (*Published, error) {
	bucket := loc.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	if err := store.Upload(ctx, localPath, bucket, loc.Key); err != nil {
		return nil, err
	}
	url, err := store.PresignGet(ctx, bucket, loc.Key, loc.TTL)
	if err != nil {
		return nil, err
	}
	return &Published{Bucket: bucket, Key: loc.Key, URL: url}, nil
}
