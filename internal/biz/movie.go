package biz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"
)

// Custom errors
var (
	ErrMovieNotFound = errors.New("movie not found")
)

// MovieUseCase assembles denormalized movie records from the metadata
// service and the review store.
type MovieUseCase struct {
	metadata MetadataClient
	reviews  ReviewRepo
	genres   *GenreUseCase
	log      *log.Helper
}

// NewMovieUseCase creates a new MovieUseCase instance
func NewMovieUseCase(metadata MetadataClient, reviews ReviewRepo, genres *GenreUseCase, logger log.Logger) *MovieUseCase {
	return &MovieUseCase{
		metadata: metadata,
		reviews:  reviews,
		genres:   genres,
		log:      log.NewHelper(logger),
	}
}

// GetMovieDetail builds one MovieDetail for the given id. The core
// lookup must succeed: ErrMovieNotFound is returned when the id is
// unknown, any other core failure is propagated. The four secondary
// lookups (credits, videos, certification, reviews) run concurrently
// and each degrades to its documented default on failure, so a
// degraded record is indistinguishable from a sparse one.
func (uc *MovieUseCase) GetMovieDetail(ctx context.Context, id int64, region, language string) (*MovieDetail, error) {
	core, err := uc.metadata.GetMovieCore(ctx, id, language)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	detail := &MovieDetail{
		ID:            core.ID,
		Title:         core.Title,
		OriginalTitle: core.OriginalTitle,
		Overview:      core.Overview,
		Certification: UnknownCertification,
		Year:          releaseYear(core.ReleaseDate),
		Runtime:       core.Runtime,
		Genres:        core.Genres,
		Country:       core.Country,
		VoteAverage:   math.Round(core.VoteAverage*10) / 10,
		PosterURL:     core.PosterURL,
		BackdropURL:   core.BackdropURL,
		Actors:        []Actor{},
		Reviews:       []*Review{},
	}

	// Fan out the secondary lookups. Each goroutine writes its own
	// field and swallows its own failure, so Wait never returns an
	// error here.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		credits, err := uc.metadata.GetCredits(gctx, id)
		if err != nil {
			uc.log.Warnf("failed to fetch credits for movie %d: %v", id, err)
			return nil
		}
		detail.Director = credits.Director
		detail.Actors = topBilled(credits.Cast)
		return nil
	})

	g.Go(func() error {
		videos, err := uc.metadata.GetVideos(gctx, id, language)
		if err != nil {
			uc.log.Warnf("failed to fetch videos for movie %d: %v", id, err)
			return nil
		}
		detail.TrailerURL = pickTrailer(videos)
		return nil
	})

	g.Go(func() error {
		releases, err := uc.metadata.GetReleaseCertification(gctx, id)
		if err != nil {
			uc.log.Warnf("failed to fetch certification for movie %d: %v", id, err)
			return nil
		}
		detail.Certification = certificationFor(releases, region)
		return nil
	})

	g.Go(func() error {
		reviews, err := uc.reviews.ListReviewsForMovie(gctx, id)
		if err != nil {
			uc.log.Warnf("failed to fetch reviews for movie %d: %v", id, err)
			return nil
		}
		if reviews != nil {
			detail.Reviews = reviews
		}
		return nil
	})

	_ = g.Wait()

	return detail, nil
}

// BrowseMovies produces a page of MovieDetail records matching the
// given filters. Genre tokens that resolve to nothing are dropped from
// the filter set; candidate ids whose detail lookup fails are dropped
// from the page. The surviving records keep discovery order.
func (uc *MovieUseCase) BrowseMovies(ctx context.Context, query *BrowseQuery) ([]*MovieDetail, error) {
	dq := &DiscoverQuery{
		Page:           query.Page,
		SortBy:         query.SortBy,
		GenreIDs:       uc.resolveGenreTokens(ctx, query.WithGenres, query.Language),
		Year:           query.Year,
		VoteAverageGTE: query.VoteAverageGTE,
		VoteCountGTE:   query.VoteCountGTE,
		Region:         query.Region,
		Language:       query.Language,
	}

	ids, err := uc.metadata.Discover(ctx, dq)
	if err != nil {
		return nil, fmt.Errorf("failed to discover movies: %w", err)
	}

	return uc.fetchDetails(ctx, ids, query.Region, query.Language), nil
}

// TrendingMovies returns details for the most reviewed movies.
func (uc *MovieUseCase) TrendingMovies(ctx context.Context, limit int64, region, language string) ([]*MovieDetail, error) {
	ids, err := uc.reviews.MostReviewedMovieIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trending movies: %w", err)
	}
	return uc.fetchDetails(ctx, ids, region, language), nil
}

// SearchMovies searches the metadata service by title.
func (uc *MovieUseCase) SearchMovies(ctx context.Context, text, language string) ([]*MovieSummary, error) {
	results, err := uc.metadata.SearchByTitle(ctx, text, language)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	out := make([]*MovieSummary, 0, len(results))
	for i := range results {
		out = append(out, &results[i])
	}
	return out, nil
}

// fetchDetails resolves every candidate id concurrently, dropping the
// ones that fail or no longer exist. Order follows the input ids.
func (uc *MovieUseCase) fetchDetails(ctx context.Context, ids []int64, region, language string) []*MovieDetail {
	slots := make([]*MovieDetail, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			detail, err := uc.GetMovieDetail(gctx, id, region, language)
			if err != nil {
				uc.log.Warnf("dropping movie %d from list: %v", id, err)
				return nil
			}
			slots[i] = detail
			return nil
		})
	}
	_ = g.Wait()

	details := make([]*MovieDetail, 0, len(ids))
	for _, d := range slots {
		if d != nil {
			details = append(details, d)
		}
	}
	return details
}

// resolveGenreTokens normalizes a comma-separated mix of genre names
// and ids into resolved ids. Unresolvable tokens are not an error.
func (uc *MovieUseCase) resolveGenreTokens(ctx context.Context, tokens, language string) []int64 {
	if tokens == "" {
		return nil
	}
	var ids []int64
	for _, token := range strings.Split(tokens, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := uc.genres.ResolveGenreToken(ctx, token, language)
		if err != nil {
			uc.log.Debugf("dropping unresolvable genre token %q: %v", token, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// releaseYear derives the 4-character year from a release date string,
// falling back to the unknown sentinel for missing or malformed dates.
func releaseYear(date string) string {
	if len(date) < 4 {
		return UnknownYear
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return UnknownYear
		}
	}
	return year
}

// topBilled caps the cast at the first MaxBilledActors entries,
// keeping billing order.
func topBilled(cast []Actor) []Actor {
	if cast == nil {
		return []Actor{}
	}
	if len(cast) > MaxBilledActors {
		cast = cast[:MaxBilledActors]
	}
	return cast
}

// pickTrailer returns the watch URL of the first YouTube trailer, or
// an empty string when there is none.
func pickTrailer(videos []Video) string {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" && v.Key != "" {
			return "https://www.youtube.com/watch?v=" + v.Key
		}
	}
	return ""
}

// certificationFor returns the certification of the first release
// entry matching the region, or the unknown sentinel.
func certificationFor(releases []CountryRelease, region string) string {
	for _, r := range releases {
		if strings.EqualFold(r.Country, region) {
			if r.Certification == "" {
				return UnknownCertification
			}
			return r.Certification
		}
	}
	return UnknownCertification
}
