package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyStrategy(t *testing.T) {
	s, err := ParseKeyStrategy("")
	require.NoError(t, err)
	assert.Equal(t, KeyStrategyDemo, s)

	s, err = ParseKeyStrategy(" Email-Hash ")
	require.NoError(t, err)
	assert.Equal(t, KeyStrategyEmailHash, s)

	_, err = ParseKeyStrategy("plain-email")
	assert.Error(t, err)
}

func TestKeyStrategy_Owner(t *testing.T) {
	assert.Equal(t, "demo", KeyStrategyDemo.Owner("ada@example.com"))
	assert.Equal(t, "anonymous", KeyStrategyEmailHash.Owner("  "))

	owner := KeyStrategyEmailHash.Owner("Ada@Example.com")
	assert.Len(t, owner, 10)
	assert.Equal(t, owner, KeyStrategyEmailHash.Owner("ada@example.com"))
	assert.NotEqual(t, owner, KeyStrategyEmailHash.Owner("bob@example.com"))
}

func TestArtifactKey(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	assert.Equal(t, "cvs/demo_20250304050607.pdf", ArtifactKey(KeyStrategyDemo, "a@b.co", now, ""))
	assert.Equal(t, "cvs/demo_20250304050607_ab12cd34.pdf", ArtifactKey(KeyStrategyDemo, "a@b.co", now, "ab12cd34"))
}

func TestPublish_LocalStore(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF"), 0o644))

	published, err := Publish(context.Background(), NewLocalStore(root), src, Location{Key: "cvs/demo_1.pdf"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBucket, published.Bucket)
	assert.Equal(t, "cvs/demo_1.pdf", published.Key)

	u, err := url.Parse(published.URL)
	require.NoError(t, err)
	assert.Equal(t, "file", u.Scheme)

	data, err := os.ReadFile(filepath.Join(root, DefaultBucket, "cvs", "demo_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestPublish_FileNotFound(t *testing.T) {
	_, err := Publish(context.Background(), NewLocalStore(t.TempDir()), "/nonexistent/cv.pdf", Location{Bucket: "b", Key: "k.pdf"})

	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLocalStore_PresignMissingObject(t *testing.T) {
	_, err := NewLocalStore(t.TempDir()).PresignGet(context.Background(), "b", "missing.pdf", time.Minute)
	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
}
