package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cinehub/internal/biz"
	"cinehub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

type metadataClient struct {
	client   *http.Client
	baseURL  string
	imageURL string
	apiKey   string
	log      *log.Helper
}

// NewMetadataClient creates a new movie metadata API client
func NewMetadataClient(c *conf.Metadata, logger log.Logger) biz.MetadataClient {
	return &metadataClient{
		client: &http.Client{
			Timeout: c.Timeout.AsDuration(),
		},
		baseURL:  strings.TrimRight(c.URL, "/"),
		imageURL: strings.TrimRight(c.ImageURL, "/"),
		apiKey:   c.APIKey,
		log:      log.NewHelper(logger),
	}
}

func (c *metadataClient) GetMovieCore(ctx context.Context, id int64, language string) (*biz.MovieCore, error) {
	var response struct {
		ID            int64  `json:"id"`
		Title         string `json:"title"`
		OriginalTitle string `json:"original_title"`
		Overview      string `json:"overview"`
		Genres        []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"genres"`
		OriginCountry []string `json:"origin_country"`
		PosterPath    string   `json:"poster_path"`
		BackdropPath  string   `json:"backdrop_path"`
		ReleaseDate   string   `json:"release_date"`
		Runtime       int32    `json:"runtime"`
		VoteAverage   float64  `json:"vote_average"`
	}

	path := fmt.Sprintf("/movie/%d", id)
	if err := c.doGet(ctx, path, url.Values{"language": {language}}, &response); err != nil {
		return nil, err
	}

	core := &biz.MovieCore{
		ID:            response.ID,
		Title:         response.Title,
		OriginalTitle: response.OriginalTitle,
		Overview:      response.Overview,
		Genres:        make([]string, 0, len(response.Genres)),
		PosterURL:     c.absoluteImageURL(response.PosterPath),
		BackdropURL:   c.absoluteImageURL(response.BackdropPath),
		ReleaseDate:   response.ReleaseDate,
		Runtime:       response.Runtime,
		VoteAverage:   response.VoteAverage,
	}
	for _, g := range response.Genres {
		core.Genres = append(core.Genres, g.Name)
	}
	if len(response.OriginCountry) > 0 {
		core.Country = response.OriginCountry[0]
	}

	return core, nil
}

func (c *metadataClient) GetCredits(ctx context.Context, id int64) (*biz.Credits, error) {
	var response struct {
		Cast []struct {
			Name        string `json:"name"`
			ProfilePath string `json:"profile_path"`
			Character   string `json:"character"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	}

	path := fmt.Sprintf("/movie/%d/credits", id)
	if err := c.doGet(ctx, path, nil, &response); err != nil {
		return nil, err
	}

	credits := &biz.Credits{
		Cast: make([]biz.Actor, 0, len(response.Cast)),
	}
	for _, member := range response.Crew {
		if member.Job == "Director" {
			credits.Director = member.Name
			break
		}
	}
	for _, member := range response.Cast {
		credits.Cast = append(credits.Cast, biz.Actor{
			Name:       member.Name,
			ProfileURL: c.absoluteImageURL(member.ProfilePath),
			Character:  member.Character,
		})
	}

	return credits, nil
}

func (c *metadataClient) GetVideos(ctx context.Context, id int64, language string) ([]biz.Video, error) {
	var response struct {
		Results []struct {
			Type string `json:"type"`
			Site string `json:"site"`
			Key  string `json:"key"`
		} `json:"results"`
	}

	path := fmt.Sprintf("/movie/%d/videos", id)
	if err := c.doGet(ctx, path, url.Values{"language": {language}}, &response); err != nil {
		return nil, err
	}

	videos := make([]biz.Video, 0, len(response.Results))
	for _, v := range response.Results {
		videos = append(videos, biz.Video{Type: v.Type, Site: v.Site, Key: v.Key})
	}
	return videos, nil
}

func (c *metadataClient) GetReleaseCertification(ctx context.Context, id int64) ([]biz.CountryRelease, error) {
	var response struct {
		Results []struct {
			Country      string `json:"iso_3166_1"`
			ReleaseDates []struct {
				Certification string `json:"certification"`
			} `json:"release_dates"`
		} `json:"results"`
	}

	path := fmt.Sprintf("/movie/%d/release_dates", id)
	if err := c.doGet(ctx, path, nil, &response); err != nil {
		return nil, err
	}

	releases := make([]biz.CountryRelease, 0, len(response.Results))
	for _, r := range response.Results {
		release := biz.CountryRelease{Country: r.Country}
		if len(r.ReleaseDates) > 0 {
			release.Certification = r.ReleaseDates[0].Certification
		}
		releases = append(releases, release)
	}
	return releases, nil
}

func (c *metadataClient) GetGenreList(ctx context.Context, language string) ([]biz.Genre, error) {
	var response struct {
		Genres []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"genres"`
	}

	if err := c.doGet(ctx, "/genre/movie/list", url.Values{"language": {language}}, &response); err != nil {
		return nil, err
	}

	genres := make([]biz.Genre, 0, len(response.Genres))
	for _, g := range response.Genres {
		genres = append(genres, biz.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

func (c *metadataClient) SearchByTitle(ctx context.Context, text, language string) ([]biz.MovieSummary, error) {
	var response struct {
		Results []struct {
			ID          int64   `json:"id"`
			Title       string  `json:"title"`
			PosterPath  string  `json:"poster_path"`
			ReleaseDate string  `json:"release_date"`
			VoteAverage float64 `json:"vote_average"`
			Overview    string  `json:"overview"`
		} `json:"results"`
	}

	params := url.Values{
		"query":    {text},
		"language": {language},
	}
	if err := c.doGet(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	results := make([]biz.MovieSummary, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, biz.MovieSummary{
			ID:          r.ID,
			Title:       r.Title,
			PosterURL:   c.absoluteImageURL(r.PosterPath),
			ReleaseDate: r.ReleaseDate,
			VoteAverage: r.VoteAverage,
			Overview:    r.Overview,
		})
	}
	return results, nil
}

func (c *metadataClient) Discover(ctx context.Context, query *biz.DiscoverQuery) ([]int64, error) {
	var response struct {
		Results []struct {
			ID int64 `json:"id"`
		} `json:"results"`
	}

	params := url.Values{}
	if query.Page > 0 {
		params.Set("page", strconv.FormatInt(int64(query.Page), 10))
	}
	if query.SortBy != "" {
		params.Set("sort_by", query.SortBy)
	}
	if len(query.GenreIDs) > 0 {
		ids := make([]string, 0, len(query.GenreIDs))
		for _, id := range query.GenreIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if query.Year != nil {
		params.Set("primary_release_year", strconv.FormatInt(int64(*query.Year), 10))
	}
	if query.VoteAverageGTE != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*query.VoteAverageGTE, 'f', -1, 64))
	}
	if query.VoteCountGTE != nil {
		params.Set("vote_count.gte", strconv.FormatInt(int64(*query.VoteCountGTE), 10))
	}
	if query.Region != "" {
		params.Set("region", query.Region)
	}
	if query.Language != "" {
		params.Set("language", query.Language)
	}

	if err := c.doGet(ctx, "/discover/movie", params, &response); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(response.Results))
	for _, r := range response.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// doGet issues one GET request against the metadata API. Each call is
// attempted exactly once; retry policy belongs to the caller, and the
// aggregation pipeline deliberately has none.
func (c *metadataClient) doGet(ctx context.Context, path string, params url.Values, target interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", biz.ErrMovieNotFound, path)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// absoluteImageURL prefixes a bare image path fragment with the image
// base URL. Callers never see a bare fragment.
func (c *metadataClient) absoluteImageURL(path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageURL + path
}
