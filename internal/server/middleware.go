package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// AuthMiddleware validates Bearer token for write operations
func AuthMiddleware(token string) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			// Get transport info
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, errors.Unauthorized("UNAUTHORIZED", "missing transport info")
			}

			ht, ok := tr.(khttp.Transporter)
			if !ok {
				return handler(ctx, req)
			}

			// Read operations need no token
			if ht.Request().Method == http.MethodGet {
				return handler(ctx, req)
			}

			// Extract Authorization header
			authHeader := tr.RequestHeader().Get("Authorization")
			if authHeader == "" {
				return nil, errors.Unauthorized("UNAUTHORIZED", "missing Authorization header")
			}

			// Check Bearer token format
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, errors.Unauthorized("UNAUTHORIZED", "invalid Authorization header format")
			}

			// Validate token
			if parts[1] != token {
				return nil, errors.Unauthorized("UNAUTHORIZED", "invalid token")
			}

			return handler(ctx, req)
		}
	}
}
