package server

import (
	"context"
	"net/http"

	"cinehub/internal/conf"
	"cinehub/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// Custom response encoder to handle 201 status for resource creation
func customResponseEncoder(w http.ResponseWriter, r *http.Request, v interface{}) error {
	// Check if response has status code metadata
	type StatusResponse interface {
		HTTPStatus() int
	}

	if sr, ok := v.(StatusResponse); ok {
		w.WriteHeader(sr.HTTPStatus())
	}

	// Use default encoder for the response body
	return khttp.DefaultResponseEncoder(w, r, v)
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, auth *conf.Auth, movieSvc *service.MovieService, reviewSvc *service.ReviewService, logger log.Logger) *khttp.Server {
	var opts = []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			AuthMiddleware(auth.Token),
		),
		khttp.ResponseEncoder(customResponseEncoder),
	}
	if c.HTTP.Network != "" {
		opts = append(opts, khttp.Network(c.HTTP.Network))
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, khttp.Address(c.HTTP.Addr))
	}
	if c.HTTP.Timeout.AsDuration() > 0 {
		opts = append(opts, khttp.Timeout(c.HTTP.Timeout.AsDuration()))
	}
	srv := khttp.NewServer(opts...)
	registerRoutes(srv, movieSvc, reviewSvc)
	return srv
}

func registerRoutes(srv *khttp.Server, movieSvc *service.MovieService, reviewSvc *service.ReviewService) {
	root := srv.Route("/")

	root.GET("/healthz", func(ctx khttp.Context) error {
		reply, err := movieSvc.HealthCheck(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, reply)
	})

	api := srv.Route("/api/v1")

	api.GET("/movies", func(ctx khttp.Context) error {
		var req service.BrowseMoviesRequest
		if err := ctx.BindQuery(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return movieSvc.BrowseMovies(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})

	api.GET("/movies/trending", func(ctx khttp.Context) error {
		var req service.TrendingMoviesRequest
		if err := ctx.BindQuery(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return movieSvc.TrendingMovies(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})

	api.GET("/movies/{id}", func(ctx khttp.Context) error {
		var req service.GetMovieDetailRequest
		if err := ctx.BindQuery(&req); err != nil {
			return err
		}
		if err := ctx.BindVars(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return movieSvc.GetMovieDetail(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})

	api.GET("/movies/{id}/reviews", func(ctx khttp.Context) error {
		var req service.ListMovieReviewsRequest
		if err := ctx.BindVars(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return reviewSvc.ListMovieReviews(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})

	api.POST("/movies/{id}/reviews", func(ctx khttp.Context) error {
		var req service.CreateReviewRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		if err := ctx.BindVars(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return reviewSvc.CreateReview(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusCreated, out)
	})

	api.GET("/search/movies", func(ctx khttp.Context) error {
		var req service.SearchMoviesRequest
		if err := ctx.BindQuery(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return movieSvc.SearchMovies(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})

	api.GET("/search/reviews", func(ctx khttp.Context) error {
		var req service.SearchReviewsRequest
		if err := ctx.BindQuery(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return reviewSvc.SearchReviews(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})

	api.GET("/search/users", func(ctx khttp.Context) error {
		var req service.SearchUsersRequest
		if err := ctx.BindQuery(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return reviewSvc.SearchUsers(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})

	api.GET("/genres", func(ctx khttp.Context) error {
		var req service.ListGenresRequest
		if err := ctx.BindQuery(&req); err != nil {
			return err
		}
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return movieSvc.ListGenres(c, &req)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	})
}
