package scoring

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of segment scores to keep.
const DefaultCacheSize = 4096

// CachedScorer wraps a SentenceScorer with an LRU cache of segment scores.
// Expansions from sibling nodes and restarts re-score the same
// (reference, segment) pairs many times; corpus scores are not cached.
type CachedScorer struct {
	inner SentenceScorer
	cache *lru.Cache[string, float64]
}

// NewCachedScorer creates a cached scorer wrapping inner.
func NewCachedScorer(inner SentenceScorer, cacheSize int) *CachedScorer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, float64](cacheSize)
	return &CachedScorer{
		inner: inner,
		cache: cache,
	}
}

func cacheKey(kind byte, ref, hyp []string) string {
	var sb strings.Builder
	sb.WriteByte(kind)
	for _, t := range ref {
		sb.WriteByte(0x1f)
		sb.WriteString(strings.ToLower(t))
	}
	sb.WriteByte(0x1e)
	for _, t := range hyp {
		sb.WriteByte(0x1f)
		sb.WriteString(strings.ToLower(t))
	}
	return sb.String()
}

// Policy implements SentenceScorer.
func (c *CachedScorer) Policy() Policy { return c.inner.Policy() }

// Similarity returns the cached score if present, otherwise computes and caches it.
func (c *CachedScorer) Similarity(ref, hyp []string) float64 {
	key := cacheKey('s', ref, hyp)
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v := c.inner.Similarity(ref, hyp)
	c.cache.Add(key, v)
	return v
}

// FinalSimilarity implements SentenceScorer with the same caching as Similarity.
func (c *CachedScorer) FinalSimilarity(ref, hyp []string) float64 {
	key := cacheKey('f', ref, hyp)
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v := c.inner.FinalSimilarity(ref, hyp)
	c.cache.Add(key, v)
	return v
}

// CorpusSimilarity passes through to the inner scorer.
func (c *CachedScorer) CorpusSimilarity(refs, hyps [][]string) float64 {
	return c.inner.CorpusSimilarity(refs, hyps)
}

// Len returns the number of cached scores.
func (c *CachedScorer) Len() int {
	return c.cache.Len()
}

// Inner returns the wrapped scorer.
func (c *CachedScorer) Inner() SentenceScorer {
	return c.inner
}
