package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

type reviewRepo struct {
	data *Data
	log  *log.Helper
}

// NewReviewRepo creates a new review repository
func NewReviewRepo(data *Data, logger log.Logger) biz.ReviewRepo {
	return &reviewRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reviewRepo) CreateReview(ctx context.Context, review *biz.Review) error {
	dbReview := r.bizToModel(review)

	if err := r.data.db.WithContext(ctx).Create(dbReview).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	// Invalidate cache if Redis is available
	if r.data.rdb != nil {
		cacheKey := fmt.Sprintf("reviews:movie:%d", review.MovieID)
		r.data.rdb.Del(ctx, cacheKey)

		// Bump the most-reviewed ranking
		r.data.rdb.ZIncrBy(ctx, "rank:movies:reviewed", 1, fmt.Sprintf("%d", review.MovieID))
	}

	return nil
}

func (r *reviewRepo) ListReviewsForMovie(ctx context.Context, movieID int64) ([]*biz.Review, error) {
	// Try cache first if Redis is available
	if r.data.rdb != nil {
		cacheKey := fmt.Sprintf("reviews:movie:%d", movieID)
		cached, err := r.data.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var reviews []*biz.Review
			if err := json.Unmarshal([]byte(cached), &reviews); err == nil {
				r.log.Debugf("cache hit for movie reviews: %d", movieID)
				return reviews, nil
			}
		}
	}

	// Query from database
	var dbReviews []Review
	err := r.data.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&dbReviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*biz.Review, 0, len(dbReviews))
	for i := range dbReviews {
		reviews = append(reviews, r.modelToBiz(&dbReviews[i]))
	}

	// Cache result if Redis is available
	if r.data.rdb != nil {
		cacheKey := fmt.Sprintf("reviews:movie:%d", movieID)
		if data, err := json.Marshal(reviews); err == nil {
			r.data.rdb.Set(ctx, cacheKey, data, 15*time.Minute)
		}
	}

	return reviews, nil
}

func (r *reviewRepo) SearchReviewsByTitle(ctx context.Context, text string) ([]*biz.Review, error) {
	searchTerm := fmt.Sprintf("%%%s%%", text)

	var dbReviews []Review
	err := r.data.db.WithContext(ctx).
		Where("movie_title ILIKE ?", searchTerm).
		Order("created_at DESC").
		Limit(50).
		Find(&dbReviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}

	reviews := make([]*biz.Review, 0, len(dbReviews))
	for i := range dbReviews {
		reviews = append(reviews, r.modelToBiz(&dbReviews[i]))
	}
	return reviews, nil
}

func (r *reviewRepo) SearchUsersByHandle(ctx context.Context, text string) ([]*biz.UserProfile, error) {
	searchTerm := fmt.Sprintf("%%%s%%", text)

	var dbUsers []UserProfile
	err := r.data.db.WithContext(ctx).
		Where("handle ILIKE ?", searchTerm).
		Order("handle ASC").
		Limit(50).
		Find(&dbUsers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	users := make([]*biz.UserProfile, 0, len(dbUsers))
	for i := range dbUsers {
		u := &dbUsers[i]
		user := &biz.UserProfile{
			ID:       u.ID,
			Handle:   u.Handle,
			Nickname: u.Nickname,
		}
		if u.AvatarURL != nil {
			user.AvatarURL = *u.AvatarURL
		}
		if u.Bio != nil {
			user.Bio = *u.Bio
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *reviewRepo) MostReviewedMovieIDs(ctx context.Context, limit int64) ([]int64, error) {
	if limit <= 0 {
		limit = 10
	}

	// Prefer the Redis ranking when available
	if r.data.rdb != nil {
		members, err := r.data.rdb.ZRevRange(ctx, "rank:movies:reviewed", 0, limit-1).Result()
		if err == nil && len(members) > 0 {
			ids := make([]int64, 0, len(members))
			for _, m := range members {
				var id int64
				if _, err := fmt.Sscanf(m, "%d", &id); err == nil {
					ids = append(ids, id)
				}
			}
			return ids, nil
		}
		if err != nil && err != redis.Nil {
			r.log.Warnf("failed to read review ranking: %v", err)
		}
	}

	// Fall back to counting in the database
	var rows []struct {
		MovieID int64
		Count   int64
	}
	err := r.data.db.WithContext(ctx).
		Model(&Review{}).
		Select("movie_id, COUNT(*) as count").
		Group("movie_id").
		Order("count DESC").
		Limit(int(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank movies by reviews: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.MovieID)
	}
	return ids, nil
}

// Helper: Convert biz.Review to data.Review
func (r *reviewRepo) bizToModel(review *biz.Review) *Review {
	return &Review{
		ID:         review.ID,
		MovieID:    review.MovieID,
		MovieTitle: review.MovieTitle,
		Author:     review.Author,
		Content:    review.Content,
		Rating:     review.Rating,
		CreatedAt:  review.CreatedAt,
	}
}

// Helper: Convert data.Review to biz.Review
func (r *reviewRepo) modelToBiz(m *Review) *biz.Review {
	return &biz.Review{
		ID:         m.ID,
		MovieID:    m.MovieID,
		MovieTitle: m.MovieTitle,
		Author:     m.Author,
		Content:    m.Content,
		Rating:     m.Rating,
		CreatedAt:  m.CreatedAt,
	}
}
