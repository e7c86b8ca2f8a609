package service

import (
	"context"
	"errors"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"

	"cinehub/internal/biz"
)

// MovieService exposes movie discovery and detail operations.
type MovieService struct {
	movieUC *biz.MovieUseCase
	genreUC *biz.GenreUseCase
}

// NewMovieService creates a new MovieService
func NewMovieService(movieUC *biz.MovieUseCase, genreUC *biz.GenreUseCase) *MovieService {
	return &MovieService{
		movieUC: movieUC,
		genreUC: genreUC,
	}
}

// GetMovieDetailRequest carries the detail lookup parameters.
type GetMovieDetailRequest struct {
	ID       int64  `form:"id"`
	Region   string `form:"region"`
	Language string `form:"language"`
}

// BrowseMoviesRequest carries the discovery-list parameters.
type BrowseMoviesRequest struct {
	Page           int32    `form:"page"`
	SortBy         string   `form:"sort_by"`
	WithGenres     string   `form:"with_genres"`
	Year           *int32   `form:"year"`
	VoteAverageGTE *float64 `form:"vote_average_gte"`
	VoteCountGTE   *int32   `form:"vote_count_gte"`
	Region         string   `form:"region"`
	Language       string   `form:"language"`
}

// TrendingMoviesRequest carries the trending-list parameters.
type TrendingMoviesRequest struct {
	Limit    int64  `form:"limit"`
	Region   string `form:"region"`
	Language string `form:"language"`
}

// SearchMoviesRequest carries the title search parameters.
type SearchMoviesRequest struct {
	Query    string `form:"query"`
	Language string `form:"language"`
}

// ListGenresRequest carries the genre table parameters.
type ListGenresRequest struct {
	Language string `form:"language"`
}

// ActorReply is one billed cast entry.
type ActorReply struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
	Character  string `json:"character"`
}

// ReviewReply is one attached review.
type ReviewReply struct {
	ID         string  `json:"id"`
	MovieID    int64   `json:"movie_id"`
	MovieTitle string  `json:"movie_title"`
	Author     string  `json:"author"`
	Content    string  `json:"content"`
	Rating     float64 `json:"rating"`
	CreatedAt  string  `json:"created_at"`
}

// MovieDetailReply is the denormalized movie record.
type MovieDetailReply struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	OriginalTitle string        `json:"original_title"`
	Overview      string        `json:"overview"`
	Certification string        `json:"certification"`
	Year          string        `json:"year"`
	Runtime       int32         `json:"runtime"`
	Genres        []string      `json:"genres"`
	Country       string        `json:"country"`
	VoteAverage   float64       `json:"vote_average"`
	PosterURL     string        `json:"poster_url"`
	BackdropURL   string        `json:"backdrop_url"`
	Director      string        `json:"director"`
	Actors        []ActorReply  `json:"actors"`
	TrailerURL    string        `json:"trailer_url"`
	Reviews       []ReviewReply `json:"reviews"`
}

// MovieListReply is a page of movie records.
type MovieListReply struct {
	Items []*MovieDetailReply `json:"items"`
}

// MovieSummaryReply is one search result row.
type MovieSummaryReply struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterURL   string  `json:"poster_url"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
}

// SearchMoviesReply is a list of search result rows.
type SearchMoviesReply struct {
	Items []*MovieSummaryReply `json:"items"`
}

// GenreReply is one genre table entry.
type GenreReply struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListGenresReply is the genre table for one language.
type ListGenresReply struct {
	Genres []GenreReply `json:"genres"`
}

// HealthCheckReply is the health probe response.
type HealthCheckReply struct {
	Status string `json:"status"`
}

// GetMovieDetail implements the movie detail lookup
func (s *MovieService) GetMovieDetail(ctx context.Context, req *GetMovieDetailRequest) (*MovieDetailReply, error) {
	region, language := localeOrDefault(req.Region, req.Language)

	detail, err := s.movieUC.GetMovieDetail(ctx, req.ID, region, language)
	if err != nil {
		if errors.Is(err, biz.ErrMovieNotFound) {
			return nil, kerrors.NotFound("NOT_FOUND", "movie not found")
		}
		return nil, err
	}

	return movieDetailToReply(detail), nil
}

// BrowseMovies implements the filtered discovery listing
func (s *MovieService) BrowseMovies(ctx context.Context, req *BrowseMoviesRequest) (*MovieListReply, error) {
	region, language := localeOrDefault(req.Region, req.Language)

	query := &biz.BrowseQuery{
		Page:           req.Page,
		SortBy:         req.SortBy,
		WithGenres:     req.WithGenres,
		Year:           req.Year,
		VoteAverageGTE: req.VoteAverageGTE,
		VoteCountGTE:   req.VoteCountGTE,
		Region:         region,
		Language:       language,
	}
	if query.Page <= 0 {
		query.Page = 1
	}

	details, err := s.movieUC.BrowseMovies(ctx, query)
	if err != nil {
		return nil, err
	}

	return movieListToReply(details), nil
}

// TrendingMovies implements the most-reviewed listing
func (s *MovieService) TrendingMovies(ctx context.Context, req *TrendingMoviesRequest) (*MovieListReply, error) {
	region, language := localeOrDefault(req.Region, req.Language)

	details, err := s.movieUC.TrendingMovies(ctx, req.Limit, region, language)
	if err != nil {
		return nil, err
	}

	return movieListToReply(details), nil
}

// SearchMovies implements the title search
func (s *MovieService) SearchMovies(ctx context.Context, req *SearchMoviesRequest) (*SearchMoviesReply, error) {
	if req.Query == "" {
		return nil, kerrors.New(422, "UNPROCESSABLE_ENTITY", "query is required")
	}
	_, language := localeOrDefault("", req.Language)

	results, err := s.movieUC.SearchMovies(ctx, req.Query, language)
	if err != nil {
		return nil, err
	}

	reply := &SearchMoviesReply{
		Items: make([]*MovieSummaryReply, 0, len(results)),
	}
	for _, r := range results {
		reply.Items = append(reply.Items, &MovieSummaryReply{
			ID:          r.ID,
			Title:       r.Title,
			PosterURL:   r.PosterURL,
			ReleaseDate: r.ReleaseDate,
			VoteAverage: r.VoteAverage,
			Overview:    r.Overview,
		})
	}
	return reply, nil
}

// ListGenres implements the genre table lookup
func (s *MovieService) ListGenres(ctx context.Context, req *ListGenresRequest) (*ListGenresReply, error) {
	_, language := localeOrDefault("", req.Language)

	genres, err := s.genreUC.ListGenres(ctx, language)
	if err != nil {
		return nil, err
	}

	reply := &ListGenresReply{
		Genres: make([]GenreReply, 0, len(genres)),
	}
	for _, g := range genres {
		reply.Genres = append(reply.Genres, GenreReply{ID: g.ID, Name: g.Name})
	}
	return reply, nil
}

// HealthCheck implements health check
func (s *MovieService) HealthCheck(ctx context.Context) (*HealthCheckReply, error) {
	return &HealthCheckReply{
		Status: "ok",
	}, nil
}

// Helper functions

func localeOrDefault(region, language string) (string, string) {
	if region == "" {
		region = biz.DefaultRegion
	}
	if language == "" {
		language = biz.DefaultLanguage
	}
	return region, language
}

func movieDetailToReply(detail *biz.MovieDetail) *MovieDetailReply {
	reply := &MovieDetailReply{
		ID:            detail.ID,
		Title:         detail.Title,
		OriginalTitle: detail.OriginalTitle,
		Overview:      detail.Overview,
		Certification: detail.Certification,
		Year:          detail.Year,
		Runtime:       detail.Runtime,
		Genres:        detail.Genres,
		Country:       detail.Country,
		VoteAverage:   detail.VoteAverage,
		PosterURL:     detail.PosterURL,
		BackdropURL:   detail.BackdropURL,
		Director:      detail.Director,
		Actors:        make([]ActorReply, 0, len(detail.Actors)),
		TrailerURL:    detail.TrailerURL,
		Reviews:       make([]ReviewReply, 0, len(detail.Reviews)),
	}
	if reply.Genres == nil {
		reply.Genres = []string{}
	}
	for _, a := range detail.Actors {
		reply.Actors = append(reply.Actors, ActorReply{
			Name:       a.Name,
			ProfileURL: a.ProfileURL,
			Character:  a.Character,
		})
	}
	for _, r := range detail.Reviews {
		reply.Reviews = append(reply.Reviews, reviewToReply(r))
	}
	return reply
}

func movieListToReply(details []*biz.MovieDetail) *MovieListReply {
	reply := &MovieListReply{
		Items: make([]*MovieDetailReply, 0, len(details)),
	}
	for _, d := range details {
		reply.Items = append(reply.Items, movieDetailToReply(d))
	}
	return reply
}

func reviewToReply(review *biz.Review) ReviewReply {
	return ReviewReply{
		ID:         review.ID,
		MovieID:    review.MovieID,
		MovieTitle: review.MovieTitle,
		Author:     review.Author,
		Content:    review.Content,
		Rating:     review.Rating,
		CreatedAt:  review.CreatedAt.Format(time.RFC3339),
	}
}
