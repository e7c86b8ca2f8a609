package biz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// Custom errors
var (
	ErrInvalidRating = errors.New("invalid rating value: must be between 0.5 and 5.0 with 0.5 step")
)

// ReviewUseCase handles review-related business logic
type ReviewUseCase struct {
	repo     ReviewRepo
	metadata MetadataClient
	log      *log.Helper
}

// NewReviewUseCase creates a new ReviewUseCase instance
func NewReviewUseCase(repo ReviewRepo, metadata MetadataClient, logger log.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		repo:     repo,
		metadata: metadata,
		log:      log.NewHelper(logger),
	}
}

// CreateReview validates the rating, verifies the movie exists in the
// metadata service and stores the review under a fresh id.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, req *CreateReviewRequest) (*Review, error) {
	if !validRating(req.Rating) {
		return nil, ErrInvalidRating
	}

	core, err := uc.metadata.GetMovieCore(ctx, req.MovieID, DefaultLanguage)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to verify movie %d: %w", req.MovieID, err)
	}

	// Review ID (UUID v7: time-ordered, distributed-friendly)
	reviewID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate review ID: %w", err)
	}

	review := &Review{
		ID:         reviewID.String(),
		MovieID:    req.MovieID,
		MovieTitle: core.Title,
		Author:     req.Author,
		Content:    req.Content,
		Rating:     req.Rating,
		CreatedAt:  time.Now().UTC(),
	}

	if err := uc.repo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return review, nil
}

// ListReviewsForMovie retrieves all reviews attached to a movie.
func (uc *ReviewUseCase) ListReviewsForMovie(ctx context.Context, movieID int64) ([]*Review, error) {
	reviews, err := uc.repo.ListReviewsForMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// SearchReviews searches reviews by movie title.
func (uc *ReviewUseCase) SearchReviews(ctx context.Context, text string) ([]*Review, error) {
	reviews, err := uc.repo.SearchReviewsByTitle(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}
	return reviews, nil
}

// SearchUsers searches user profiles by handle.
func (uc *ReviewUseCase) SearchUsers(ctx context.Context, text string) ([]*UserProfile, error) {
	users, err := uc.repo.SearchUsersByHandle(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// validRating accepts ratings between 0.5 and 5.0 in 0.5 steps.
func validRating(rating float64) bool {
	if rating < 0.5 || rating > 5.0 {
		return false
	}
	return math.Mod(rating*10, 5) == 0
}
