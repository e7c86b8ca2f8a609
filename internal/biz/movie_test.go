package biz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream exploded")

// fakeMetadata implements MetadataClient with pluggable behavior.
type fakeMetadata struct {
	mu sync.Mutex

	core     func(id int64, language string) (*MovieCore, error)
	credits  func(id int64) (*Credits, error)
	videos   func(id int64, language string) ([]Video, error)
	releases func(id int64) ([]CountryRelease, error)
	genres   func(language string) ([]Genre, error)
	search   func(text, language string) ([]MovieSummary, error)
	discover func(query *DiscoverQuery) ([]int64, error)

	genreCalls int
}

func (f *fakeMetadata) GetMovieCore(_ context.Context, id int64, language string) (*MovieCore, error) {
	if f.core == nil {
		return nil, errUpstream
	}
	return f.core(id, language)
}

func (f *fakeMetadata) GetCredits(_ context.Context, id int64) (*Credits, error) {
	if f.credits == nil {
		return &Credits{}, nil
	}
	return f.credits(id)
}

func (f *fakeMetadata) GetVideos(_ context.Context, id int64, language string) ([]Video, error) {
	if f.videos == nil {
		return nil, nil
	}
	return f.videos(id, language)
}

func (f *fakeMetadata) GetReleaseCertification(_ context.Context, id int64) ([]CountryRelease, error) {
	if f.releases == nil {
		return nil, nil
	}
	return f.releases(id)
}

func (f *fakeMetadata) GetGenreList(_ context.Context, language string) ([]Genre, error) {
	f.mu.Lock()
	f.genreCalls++
	f.mu.Unlock()
	if f.genres == nil {
		return nil, errUpstream
	}
	return f.genres(language)
}

func (f *fakeMetadata) SearchByTitle(_ context.Context, text, language string) ([]MovieSummary, error) {
	if f.search == nil {
		return nil, nil
	}
	return f.search(text, language)
}

func (f *fakeMetadata) Discover(_ context.Context, query *DiscoverQuery) ([]int64, error) {
	if f.discover == nil {
		return nil, nil
	}
	return f.discover(query)
}

// fakeReviews implements ReviewRepo with pluggable behavior.
type fakeReviews struct {
	list    func(movieID int64) ([]*Review, error)
	ranking func(limit int64) ([]int64, error)
	created []*Review
}

func (f *fakeReviews) ListReviewsForMovie(_ context.Context, movieID int64) ([]*Review, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(movieID)
}

func (f *fakeReviews) SearchReviewsByTitle(_ context.Context, _ string) ([]*Review, error) {
	return nil, nil
}

func (f *fakeReviews) SearchUsersByHandle(_ context.Context, _ string) ([]*UserProfile, error) {
	return nil, nil
}

func (f *fakeReviews) CreateReview(_ context.Context, review *Review) error {
	f.created = append(f.created, review)
	return nil
}

func (f *fakeReviews) MostReviewedMovieIDs(_ context.Context, limit int64) ([]int64, error) {
	if f.ranking == nil {
		return nil, nil
	}
	return f.ranking(limit)
}

// fakeGenreCache is a map-free single-slot cache for tests.
type fakeGenreCache struct {
	language string
	genres   []Genre
}

func (c *fakeGenreCache) Get(language string) ([]Genre, bool) {
	if c.genres == nil || c.language != language {
		return nil, false
	}
	return c.genres, true
}

func (c *fakeGenreCache) Set(language string, genres []Genre) {
	c.language = language
	c.genres = genres
}

func newTestMovieUseCase(metadata *fakeMetadata, reviews *fakeReviews) *MovieUseCase {
	genres := NewGenreUseCase(metadata, &fakeGenreCache{}, log.DefaultLogger)
	return NewMovieUseCase(metadata, reviews, genres, log.DefaultLogger)
}

func happyCore(id int64, _ string) (*MovieCore, error) {
	return &MovieCore{
		ID:            id,
		Title:         "The Handmaiden",
		OriginalTitle: "아가씨",
		Overview:      "A con man hires a pickpocket.",
		Genres:        []string{"Drama", "Thriller"},
		Country:       "KR",
		PosterURL:     "https://img.example.com/t/p/poster.jpg",
		BackdropURL:   "https://img.example.com/t/p/backdrop.jpg",
		ReleaseDate:   "2016-06-01",
		Runtime:       145,
		VoteAverage:   8.256,
	}, nil
}

func TestGetMovieDetailNotFound(t *testing.T) {
	metadata := &fakeMetadata{
		core: func(int64, string) (*MovieCore, error) {
			return nil, fmt.Errorf("%w: /movie/99", ErrMovieNotFound)
		},
	}
	uc := newTestMovieUseCase(metadata, &fakeReviews{})

	detail, err := uc.GetMovieDetail(context.Background(), 99, DefaultRegion, DefaultLanguage)
	require.ErrorIs(t, err, ErrMovieNotFound)
	assert.Nil(t, detail, "not-found must not yield a partial record")
}

func TestGetMovieDetailCoreFailurePropagates(t *testing.T) {
	metadata := &fakeMetadata{
		core: func(int64, string) (*MovieCore, error) {
			return nil, errUpstream
		},
	}
	uc := newTestMovieUseCase(metadata, &fakeReviews{})

	_, err := uc.GetMovieDetail(context.Background(), 1, DefaultRegion, DefaultLanguage)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMovieNotFound)
	assert.ErrorIs(t, err, errUpstream)
}

func TestGetMovieDetailFullyPopulated(t *testing.T) {
	metadata := &fakeMetadata{
		core: happyCore,
		credits: func(int64) (*Credits, error) {
			return &Credits{
				Director: "Park Chan-wook",
				Cast: []Actor{
					{Name: "Kim Min-hee", Character: "Lady Hideko"},
					{Name: "Kim Tae-ri", Character: "Sook-hee"},
				},
			}, nil
		},
		videos: func(int64, string) ([]Video, error) {
			return []Video{
				{Type: "Teaser", Site: "YouTube", Key: "teaser"},
				{Type: "Trailer", Site: "Vimeo", Key: "vimeo"},
				{Type: "Trailer", Site: "YouTube", Key: "abc123"},
			}, nil
		},
		releases: func(int64) ([]CountryRelease, error) {
			return []CountryRelease{
				{Country: "US", Certification: "NC-17"},
				{Country: "KR", Certification: "19"},
			}, nil
		},
	}
	reviews := &fakeReviews{
		list: func(int64) ([]*Review, error) {
			return []*Review{{ID: "r1", MovieID: 290098, Author: "mina"}}, nil
		},
	}
	uc := newTestMovieUseCase(metadata, reviews)

	detail, err := uc.GetMovieDetail(context.Background(), 290098, "KR", "ko-KR")
	require.NoError(t, err)

	assert.Equal(t, int64(290098), detail.ID)
	assert.Equal(t, "2016", detail.Year)
	assert.Equal(t, "19", detail.Certification)
	assert.Equal(t, "Park Chan-wook", detail.Director)
	assert.Len(t, detail.Actors, 2)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", detail.TrailerURL,
		"first YouTube trailer wins, other sites and teasers are skipped")
	assert.Len(t, detail.Reviews, 1)
	assert.InDelta(t, 8.3, detail.VoteAverage, 1e-9, "vote average is rounded to one decimal")
}

func TestGetMovieDetailSecondaryFailureIsolation(t *testing.T) {
	goodCredits := func(int64) (*Credits, error) {
		return &Credits{Director: "Bong Joon-ho", Cast: []Actor{{Name: "Song Kang-ho"}}}, nil
	}
	goodVideos := func(int64, string) ([]Video, error) {
		return []Video{{Type: "Trailer", Site: "YouTube", Key: "k"}}, nil
	}
	goodReleases := func(int64) ([]CountryRelease, error) {
		return []CountryRelease{{Country: "KR", Certification: "15"}}, nil
	}
	goodList := func(int64) ([]*Review, error) {
		return []*Review{{ID: "r1"}}, nil
	}

	cases := []struct {
		name  string
		mod   func(m *fakeMetadata, r *fakeReviews)
		check func(t *testing.T, d *MovieDetail)
	}{
		{
			name: "credits failure yields empty cast and director",
			mod: func(m *fakeMetadata, _ *fakeReviews) {
				m.credits = func(int64) (*Credits, error) { return nil, errUpstream }
			},
			check: func(t *testing.T, d *MovieDetail) {
				assert.Empty(t, d.Director)
				assert.NotNil(t, d.Actors)
				assert.Empty(t, d.Actors, "credits failure degrades to an empty list, not a placeholder")
				assert.Equal(t, "https://www.youtube.com/watch?v=k", d.TrailerURL)
				assert.Equal(t, "15", d.Certification)
				assert.Len(t, d.Reviews, 1)
			},
		},
		{
			name: "videos failure yields empty trailer",
			mod: func(m *fakeMetadata, _ *fakeReviews) {
				m.videos = func(int64, string) ([]Video, error) { return nil, errUpstream }
			},
			check: func(t *testing.T, d *MovieDetail) {
				assert.Empty(t, d.TrailerURL)
				assert.Equal(t, "Bong Joon-ho", d.Director)
				assert.Equal(t, "15", d.Certification)
				assert.Len(t, d.Reviews, 1)
			},
		},
		{
			name: "certification failure yields unknown sentinel",
			mod: func(m *fakeMetadata, _ *fakeReviews) {
				m.releases = func(int64) ([]CountryRelease, error) { return nil, errUpstream }
			},
			check: func(t *testing.T, d *MovieDetail) {
				assert.Equal(t, UnknownCertification, d.Certification)
				assert.Equal(t, "Bong Joon-ho", d.Director)
				assert.Equal(t, "https://www.youtube.com/watch?v=k", d.TrailerURL)
				assert.Len(t, d.Reviews, 1)
			},
		},
		{
			name: "reviews failure yields empty list",
			mod: func(_ *fakeMetadata, r *fakeReviews) {
				r.list = func(int64) ([]*Review, error) { return nil, errUpstream }
			},
			check: func(t *testing.T, d *MovieDetail) {
				assert.NotNil(t, d.Reviews)
				assert.Empty(t, d.Reviews)
				assert.Equal(t, "Bong Joon-ho", d.Director)
				assert.Equal(t, "https://www.youtube.com/watch?v=k", d.TrailerURL)
				assert.Equal(t, "15", d.Certification)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			metadata := &fakeMetadata{
				core:     happyCore,
				credits:  goodCredits,
				videos:   goodVideos,
				releases: goodReleases,
			}
			reviews := &fakeReviews{list: goodList}
			tc.mod(metadata, reviews)
			uc := newTestMovieUseCase(metadata, reviews)

			detail, err := uc.GetMovieDetail(context.Background(), 1, "KR", "ko-KR")
			require.NoError(t, err, "secondary failures must never abort the aggregation")
			tc.check(t, detail)
		})
	}
}

func TestGetMovieDetailActorCap(t *testing.T) {
	cast := make([]Actor, 12)
	for i := range cast {
		cast[i] = Actor{Name: fmt.Sprintf("actor-%d", i)}
	}
	metadata := &fakeMetadata{
		core: happyCore,
		credits: func(int64) (*Credits, error) {
			return &Credits{Cast: cast}, nil
		},
	}
	uc := newTestMovieUseCase(metadata, &fakeReviews{})

	detail, err := uc.GetMovieDetail(context.Background(), 1, "KR", "ko-KR")
	require.NoError(t, err)
	require.Len(t, detail.Actors, MaxBilledActors)
	for i, a := range detail.Actors {
		assert.Equal(t, fmt.Sprintf("actor-%d", i), a.Name, "billing order must be preserved")
	}
}

func TestGetMovieDetailMissingRegionCertification(t *testing.T) {
	metadata := &fakeMetadata{
		core: happyCore,
		releases: func(int64) ([]CountryRelease, error) {
			return []CountryRelease{{Country: "US", Certification: "R"}}, nil
		},
	}
	uc := newTestMovieUseCase(metadata, &fakeReviews{})

	detail, err := uc.GetMovieDetail(context.Background(), 1, "KR", "ko-KR")
	require.NoError(t, err)
	assert.Equal(t, UnknownCertification, detail.Certification)
}

func TestReleaseYear(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-03-15", "2024"},
		{"1999-12-31", "1999"},
		{"", UnknownYear},
		{"20", UnknownYear},
		{"soon", UnknownYear},
		{"2024", "2024"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, releaseYear(tc.date), "date %q", tc.date)
	}
}

func TestBrowseMoviesDropsFailedCandidates(t *testing.T) {
	metadata := &fakeMetadata{
		discover: func(*DiscoverQuery) ([]int64, error) {
			return []int64{10, 20, 30, 40}, nil
		},
		core: func(id int64, language string) (*MovieCore, error) {
			if id == 20 {
				return nil, ErrMovieNotFound
			}
			if id == 40 {
				return nil, errUpstream
			}
			return happyCore(id, language)
		},
	}
	uc := newTestMovieUseCase(metadata, &fakeReviews{})

	details, err := uc.BrowseMovies(context.Background(), &BrowseQuery{Page: 1})
	require.NoError(t, err)
	require.Len(t, details, 2, "failed candidates degrade the page, not the call")
	assert.Equal(t, int64(10), details[0].ID)
	assert.Equal(t, int64(30), details[1].ID, "survivors keep discovery order")
}

func TestBrowseMoviesDropsUnresolvableGenreTokens(t *testing.T) {
	var gotGenres []int64
	metadata := &fakeMetadata{
		genres: func(string) ([]Genre, error) {
			return []Genre{{ID: 28, Name: "Action"}}, nil
		},
		discover: func(q *DiscoverQuery) ([]int64, error) {
			gotGenres = q.GenreIDs
			return nil, nil
		},
	}
	uc := newTestMovieUseCase(metadata, &fakeReviews{})

	_, err := uc.BrowseMovies(context.Background(), &BrowseQuery{
		Page:       1,
		WithGenres: "Action,InvalidGenreName",
		Language:   "en-US",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{28}, gotGenres, "unresolvable tokens are silently dropped")
}

func TestBrowseMoviesDiscoverFailure(t *testing.T) {
	metadata := &fakeMetadata{
		discover: func(*DiscoverQuery) ([]int64, error) {
			return nil, errUpstream
		},
	}
	uc := newTestMovieUseCase(metadata, &fakeReviews{})

	_, err := uc.BrowseMovies(context.Background(), &BrowseQuery{Page: 1})
	assert.Error(t, err)
}

func TestTrendingMovies(t *testing.T) {
	metadata := &fakeMetadata{core: happyCore}
	reviews := &fakeReviews{
		ranking: func(limit int64) ([]int64, error) {
			return []int64{7, 3}, nil
		},
	}
	uc := newTestMovieUseCase(metadata, reviews)

	details, err := uc.TrendingMovies(context.Background(), 2, "KR", "ko-KR")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, int64(7), details[0].ID)
	assert.Equal(t, int64(3), details[1].ID)
}
