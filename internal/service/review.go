package service

import (
	"context"
	"errors"
	"net/http"

	kerrors "github.com/go-kratos/kratos/v2/errors"

	"cinehub/internal/biz"
)

// ReviewService exposes review and profile search operations.
type ReviewService struct {
	reviewUC *biz.ReviewUseCase
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewUC *biz.ReviewUseCase) *ReviewService {
	return &ReviewService{
		reviewUC: reviewUC,
	}
}

// CreateReviewRequest carries a new review submission.
type CreateReviewRequest struct {
	MovieID int64   `form:"id" json:"-"`
	Author  string  `json:"author"`
	Content string  `json:"content"`
	Rating  float64 `json:"rating"`
}

// ListMovieReviewsRequest carries the per-movie review listing key.
type ListMovieReviewsRequest struct {
	MovieID int64 `form:"id"`
}

// SearchReviewsRequest carries the review search text.
type SearchReviewsRequest struct {
	Query string `form:"query"`
}

// SearchUsersRequest carries the user search text.
type SearchUsersRequest struct {
	Query string `form:"query"`
}

// ReviewListReply is a list of reviews.
type ReviewListReply struct {
	Items []ReviewReply `json:"items"`
}

// UserProfileReply is one user search result.
type UserProfileReply struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// UserListReply is a list of user search results.
type UserListReply struct {
	Items []UserProfileReply `json:"items"`
}

// CreateReviewReply is the stored review.
type CreateReviewReply struct {
	ReviewReply
}

// HTTPStatus reports 201 for resource creation.
func (*CreateReviewReply) HTTPStatus() int {
	return http.StatusCreated
}

// CreateReview implements review submission
func (s *ReviewService) CreateReview(ctx context.Context, req *CreateReviewRequest) (*CreateReviewReply, error) {
	if req.Author == "" {
		return nil, kerrors.New(422, "UNPROCESSABLE_ENTITY", "author is required")
	}
	if req.Content == "" {
		return nil, kerrors.New(422, "UNPROCESSABLE_ENTITY", "content is required")
	}

	review, err := s.reviewUC.CreateReview(ctx, &biz.CreateReviewRequest{
		MovieID: req.MovieID,
		Author:  req.Author,
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		if errors.Is(err, biz.ErrMovieNotFound) {
			return nil, kerrors.NotFound("NOT_FOUND", "movie not found")
		}
		if errors.Is(err, biz.ErrInvalidRating) {
			return nil, kerrors.New(422, "INVALID_RATING", err.Error())
		}
		return nil, err
	}

	return &CreateReviewReply{ReviewReply: reviewToReply(review)}, nil
}

// ListMovieReviews implements the per-movie review listing
func (s *ReviewService) ListMovieReviews(ctx context.Context, req *ListMovieReviewsRequest) (*ReviewListReply, error) {
	reviews, err := s.reviewUC.ListReviewsForMovie(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}
	return reviewListToReply(reviews), nil
}

// SearchReviews implements review search by movie title
func (s *ReviewService) SearchReviews(ctx context.Context, req *SearchReviewsRequest) (*ReviewListReply, error) {
	if req.Query == "" {
		return nil, kerrors.New(422, "UNPROCESSABLE_ENTITY", "query is required")
	}
	reviews, err := s.reviewUC.SearchReviews(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return reviewListToReply(reviews), nil
}

// SearchUsers implements user profile search by handle
func (s *ReviewService) SearchUsers(ctx context.Context, req *SearchUsersRequest) (*UserListReply, error) {
	if req.Query == "" {
		return nil, kerrors.New(422, "UNPROCESSABLE_ENTITY", "query is required")
	}
	users, err := s.reviewUC.SearchUsers(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	reply := &UserListReply{
		Items: make([]UserProfileReply, 0, len(users)),
	}
	for _, u := range users {
		reply.Items = append(reply.Items, UserProfileReply{
			ID:        u.ID,
			Handle:    u.Handle,
			Nickname:  u.Nickname,
			AvatarURL: u.AvatarURL,
			Bio:       u.Bio,
		})
	}
	return reply, nil
}

func reviewListToReply(reviews []*biz.Review) *ReviewListReply {
	reply := &ReviewListReply{
		Items: make([]ReviewReply, 0, len(reviews)),
	}
	for _, r := range reviews {
		reply.Items = append(reply.Items, reviewToReply(r))
	}
	return reply
}
