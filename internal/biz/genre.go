package biz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
)

// Custom errors
var (
	ErrGenreNotFound = errors.New("genre not found")
)

// GenreUseCase resolves genre tokens against the metadata service's
// genre table, memoized per language in an injected single-slot cache.
type GenreUseCase struct {
	metadata MetadataClient
	cache    GenreCache
	log      *log.Helper
}

// NewGenreUseCase creates a new GenreUseCase instance
func NewGenreUseCase(metadata MetadataClient, cache GenreCache, logger log.Logger) *GenreUseCase {
	return &GenreUseCase{
		metadata: metadata,
		cache:    cache,
		log:      log.NewHelper(logger),
	}
}

// ResolveGenreToken maps a genre token to its id. Numeric tokens are
// treated as already resolved and returned without any fetch. Name
// tokens are matched case-insensitively against the genre table for
// the given language, fetching and caching the table on a miss or a
// language change. Unknown names return ErrGenreNotFound.
func (uc *GenreUseCase) ResolveGenreToken(ctx context.Context, token, language string) (int64, error) {
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		return id, nil
	}

	table, err := uc.genreTable(ctx, language)
	if err != nil {
		return 0, err
	}

	for _, genre := range table {
		if strings.EqualFold(genre.Name, token) {
			return genre.ID, nil
		}
	}
	return 0, ErrGenreNotFound
}

// ListGenres returns the genre table for a language, served from the
// cache when resident.
func (uc *GenreUseCase) ListGenres(ctx context.Context, language string) ([]Genre, error) {
	return uc.genreTable(ctx, language)
}

func (uc *GenreUseCase) genreTable(ctx context.Context, language string) ([]Genre, error) {
	if table, ok := uc.cache.Get(language); ok {
		return table, nil
	}

	table, err := uc.metadata.GetGenreList(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genre list for %q: %w", language, err)
	}
	uc.cache.Set(language, table)
	uc.log.Debugf("cached genre table for language %s (%d entries)", language, len(table))
	return table, nil
}
