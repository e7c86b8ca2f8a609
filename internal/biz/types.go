package biz

import (
	"context"
	"time"
)

// Sentinels used in place of missing fields. "Absent by design" is
// distinguished from a lookup error by these fixed values.
const (
	UnknownYear          = "unknown"
	UnknownCertification = "unknown"
)

// MaxBilledActors caps the cast list at the top billed entries.
const MaxBilledActors = 5

// Defaults applied when a request does not specify a locale.
const (
	DefaultRegion   = "KR"
	DefaultLanguage = "ko-KR"
)

// MovieDetail is the denormalized record assembled from the metadata
// service and the review store. Every URL field is either absolute or
// empty, never a bare path fragment.
type MovieDetail struct {
	ID            int64
	Title         string
	OriginalTitle string
	Overview      string
	Certification string
	Year          string
	Runtime       int32
	Genres        []string
	Country       string
	VoteAverage   float64
	PosterURL     string
	BackdropURL   string
	Director      string
	Actors        []Actor
	TrailerURL    string
	Reviews       []*Review
}

// Actor is one billed cast entry.
type Actor struct {
	Name       string
	ProfileURL string
	Character  string
}

// MovieCore is the base record of a movie as returned by the metadata
// service. Its lookup is the only one whose failure aborts aggregation.
type MovieCore struct {
	ID            int64
	Title         string
	OriginalTitle string
	Overview      string
	Genres        []string
	Country       string
	PosterURL     string
	BackdropURL   string
	ReleaseDate   string
	Runtime       int32
	VoteAverage   float64
}

// Credits holds the director and the cast in billing order.
type Credits struct {
	Director string
	Cast     []Actor
}

// Video is one entry of a movie's video list.
type Video struct {
	Type string
	Site string
	Key  string
}

// CountryRelease is a per-country certification entry.
type CountryRelease struct {
	Country       string
	Certification string
}

// Genre domain model
type Genre struct {
	ID   int64
	Name string
}

// MovieSummary is a search or discovery result row.
type MovieSummary struct {
	ID          int64
	Title       string
	PosterURL   string
	ReleaseDate string
	VoteAverage float64
	Overview    string
}

// DiscoverQuery holds normalized discovery-list parameters. GenreIDs
// are already resolved; unresolvable tokens never reach this query.
type DiscoverQuery struct {
	Page           int32
	SortBy         string
	GenreIDs       []int64
	Year           *int32
	VoteAverageGTE *float64
	VoteCountGTE   *int32
	Region         string
	Language       string
}

// BrowseQuery holds raw browse parameters. WithGenres may mix genre
// names and numeric ids, comma separated.
type BrowseQuery struct {
	Page           int32
	SortBy         string
	WithGenres     string
	Year           *int32
	VoteAverageGTE *float64
	VoteCountGTE   *int32
	Region         string
	Language       string
}

// Review domain model
type Review struct {
	ID         string
	MovieID    int64
	MovieTitle string
	Author     string
	Content    string
	Rating     float64
	CreatedAt  time.Time
}

// UserProfile domain model
type UserProfile struct {
	ID        string
	Handle    string
	Nickname  string
	AvatarURL string
	Bio       string
}

// CreateReviewRequest domain model
type CreateReviewRequest struct {
	MovieID int64
	Author  string
	Content string
	Rating  float64
}

// MetadataClient is the outbound client for the movie metadata API.
// Implementations return absolute image URLs, never bare fragments.
type MetadataClient interface {
	GetMovieCore(ctx context.Context, id int64, language string) (*MovieCore, error)
	GetCredits(ctx context.Context, id int64) (*Credits, error)
	GetVideos(ctx context.Context, id int64, language string) ([]Video, error)
	GetReleaseCertification(ctx context.Context, id int64) ([]CountryRelease, error)
	GetGenreList(ctx context.Context, language string) ([]Genre, error)
	SearchByTitle(ctx context.Context, text, language string) ([]MovieSummary, error)
	Discover(ctx context.Context, query *DiscoverQuery) ([]int64, error)
}

// ReviewRepo defines the repository interface for reviews and user
// profiles.
type ReviewRepo interface {
	ListReviewsForMovie(ctx context.Context, movieID int64) ([]*Review, error)
	SearchReviewsByTitle(ctx context.Context, text string) ([]*Review, error)
	SearchUsersByHandle(ctx context.Context, text string) ([]*UserProfile, error)
	CreateReview(ctx context.Context, review *Review) error
	MostReviewedMovieIDs(ctx context.Context, limit int64) ([]int64, error)
}

// GenreCache holds at most one genre table at a time, keyed by
// language. Setting a different language evicts the resident entry.
type GenreCache interface {
	Get(language string) ([]Genre, bool)
	Set(language string, genres []Genre)
}
