package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAssetStore struct {
	calls map[string]int
	fail  bool
}

func newCountingAssetStore(fail bool) *countingAssetStore {
	return &countingAssetStore{calls: make(map[string]int), fail: fail}
}

func (s *countingAssetStore) ResolveDownloadURL(_ context.Context, ref string) (string, error) {
	s.calls[ref]++
	if s.fail {
		return "", fmt.Errorf("object not found")
	}
	return "https://assets.example.com/" + ref, nil
}

func TestResolveAbsentReference(t *testing.T) {
	store := newCountingAssetStore(false)
	resolver := NewAvatarResolver(store)

	assert.Nil(t, resolver.Resolve(context.Background(), nil))
	assert.Nil(t, resolver.Resolve(context.Background(), lo.ToPtr("")))
	assert.Empty(t, store.calls, "absent references never hit the asset store")
}

func TestResolvePassesThroughURLs(t *testing.T) {
	store := newCountingAssetStore(false)
	resolver := NewAvatarResolver(store)

	for _, ref := range []string{"https://x/y.png", "http://x/y.png"} {
		got := resolver.Resolve(context.Background(), &ref)
		require.NotNil(t, got)
		assert.Equal(t, ref, *got)
	}
	assert.Empty(t, store.calls)
}

func TestResolveCachesPositiveResult(t *testing.T) {
	store := newCountingAssetStore(false)
	resolver := NewAvatarResolver(store)
	ref := "path/a.png"

	first := resolver.Resolve(context.Background(), &ref)
	require.NotNil(t, first)
	assert.Equal(t, "https://assets.example.com/path/a.png", *first)

	second := resolver.Resolve(context.Background(), &ref)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)

	assert.Equal(t, 1, store.calls[ref], "second lookup must be a cache hit")
}

func TestResolveCachesFailures(t *testing.T) {
	store := newCountingAssetStore(true)
	resolver := NewAvatarResolver(store)
	ref := "path/broken.png"

	assert.Nil(t, resolver.Resolve(context.Background(), &ref))
	assert.Nil(t, resolver.Resolve(context.Background(), &ref))
	assert.Nil(t, resolver.Resolve(context.Background(), &ref))

	assert.Equal(t, 1, store.calls[ref], "a broken reference costs exactly one store call per session")
}

func TestResolveDistinctReferences(t *testing.T) {
	store := newCountingAssetStore(false)
	resolver := NewAvatarResolver(store)

	a, b := "path/a.png", "path/b.png"
	require.NotNil(t, resolver.Resolve(context.Background(), &a))
	require.NotNil(t, resolver.Resolve(context.Background(), &b))

	assert.Equal(t, 1, store.calls[a])
	assert.Equal(t, 1, store.calls[b])
}

func TestAvatarFallbackLetter(t *testing.T) {
	assert.Equal(t, "J", AvatarFallbackLetter("jane doe"))
	assert.Equal(t, "Á", AvatarFallbackLetter("álvaro"))
	assert.Equal(t, "?", AvatarFallbackLetter("   "))
	assert.Equal(t, "?", AvatarFallbackLetter(""))
}
