package data

import (
	"sync"

	"cinehub/internal/biz"
)

// genreCache is a single-slot memoization of the genre table, keyed by
// language. Requesting a second language evicts the first. The mutex
// makes the check-and-replace atomic under concurrent resolvers.
type genreCache struct {
	mu       sync.Mutex
	language string
	genres   []biz.Genre
}

// NewGenreCache creates an empty single-slot genre cache
func NewGenreCache() biz.GenreCache {
	return &genreCache{}
}

func (c *genreCache) Get(language string) ([]biz.Genre, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.genres == nil || c.language != language {
		return nil, false
	}
	return c.genres, true
}

func (c *genreCache) Set(language string, genres []biz.Genre) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = language
	c.genres = genres
}
