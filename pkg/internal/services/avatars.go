package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gocloud.dev/blob"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"
)

// AssetStore resolves an opaque storage reference to a downloadable URL.
type AssetStore interface {
	ResolveDownloadURL(ctx context.Context, ref string) (string, error)
}

// Assets is the bucket shared by the upload path and the avatar resolver.
var Assets *BlobAssetStore

// BlobAssetStore serves avatar references out of a bucket as signed URLs.
type BlobAssetStore struct {
	bucket *blob.Bucket
	ttl    time.Duration
}

func NewBlobAssetStore(ctx context.Context) (*BlobAssetStore, error) {
	bucket, err := blob.OpenBucket(ctx, viper.GetString("assets.bucket"))
	if err != nil {
		return nil, err
	}

	ttl := viper.GetDuration("assets.url_ttl")
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &BlobAssetStore{bucket: bucket, ttl: ttl}, nil
}

func (s *BlobAssetStore) ResolveDownloadURL(ctx context.Context, ref string) (string, error) {
	return s.bucket.SignedURL(ctx, ref, &blob.SignedURLOptions{Expiry: s.ttl})
}

// Upload writes an asset under the given reference. The reference is what
// gets stored on accounts and flats and later resolved back to a URL.
func (s *BlobAssetStore) Upload(ctx context.Context, ref string, body io.Reader, contentType string) error {
	writer, err := s.bucket.NewWriter(ctx, ref, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return err
	}
	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// AvatarResolver maps avatar references to display URLs with a process-wide
// cache. Failed lookups are cached as misses for the rest of the session so
// a broken reference costs exactly one asset store call; the caller falls
// back to an initial-letter placeholder. Entries are computed from the
// immutable reference alone, so concurrent writers racing on the same key
// are harmless.
type AvatarResolver struct {
	store AssetStore

	mutex sync.Mutex
	cache map[string]*string
}

func NewAvatarResolver(store AssetStore) *AvatarResolver {
	return &AvatarResolver{
		store: store,
		cache: make(map[string]*string),
	}
}

// Avatars is the resolver shared by every rendered message list.
var Avatars = NewAvatarResolver(nil)

func SetupAvatarResolver(store AssetStore) {
	Avatars = NewAvatarResolver(store)
}

// Resolve returns the display URL for an avatar reference, or nil when the
// reference is absent or cannot be resolved. References that already carry
// a URL scheme pass through untouched and uncached.
func (r *AvatarResolver) Resolve(ctx context.Context, ref *string) *string {
	if ref == nil || len(*ref) == 0 {
		return nil
	}
	if strings.HasPrefix(*ref, "http://") || strings.HasPrefix(*ref, "https://") {
		return ref
	}

	r.mutex.Lock()
	cached, hit := r.cache[*ref]
	r.mutex.Unlock()
	if hit {
		return cached
	}

	var entry *string
	if r.store == nil {
		return nil
	} else if url, err := r.store.ResolveDownloadURL(ctx, *ref); err != nil {
		log.Warn().Err(AssetResolutionError{Ref: *ref, Err: err}).
			Msg("Unable to resolve avatar, caching the miss...")
	} else {
		entry = &url
	}

	r.mutex.Lock()
	r.cache[*ref] = entry
	r.mutex.Unlock()

	return entry
}

// AvatarFallbackLetter picks the placeholder initial shown when no avatar
// URL could be resolved.
func AvatarFallbackLetter(name string) string {
	trimmed := []rune(strings.TrimSpace(name))
	if len(trimmed) == 0 {
		return "?"
	}
	return strings.ToUpper(string(trimmed[0]))
}
