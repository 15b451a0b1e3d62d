package classifier

import (
	"context"
	"fmt"

	"github.com/Veraticus/petal/internal/model"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedResult struct {
	probs []float64
	index int
}

// Cached memoises predictions per feature record. Records are clamped to the
// step grid before they reach the classifier, so the key space is small.
type Cached struct {
	next  Classifier
	cache *lru.Cache[model.Features, cachedResult]
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next Classifier, size int) (*Cached, error) {
	cache, err := lru.New[model.Features, cachedResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Classify implements Classifier.
func (c *Cached) Classify(ctx context.Context, features model.Features) (int, error) {
	res, err := c.lookup(ctx, features)
	if err != nil {
		return 0, err
	}
	return res.index, nil
}

// ClassifyWithConfidence implements Classifier.
func (c *Cached) ClassifyWithConfidence(ctx context.Context, features model.Features) ([]float64, error) {
	res, err := c.lookup(ctx, features)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(res.probs))
	copy(out, res.probs)
	return out, nil
}

// Len returns the number of cached records.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Close closes the wrapped classifier.
func (c *Cached) Close() error {
	return Close(c.next)
}

func (c *Cached) lookup(ctx context.Context, features model.Features) (cachedResult, error) {
	if res, ok := c.cache.Get(features); ok {
		return res, nil
	}

	index, err := c.next.Classify(ctx, features)
	if err != nil {
		return cachedResult{}, err
	}
	probs, err := c.next.ClassifyWithConfidence(ctx, features)
	if err != nil {
		return cachedResult{}, err
	}

	res := cachedResult{index: index, probs: probs}
	c.cache.Add(features, res)
	return res, nil
}
