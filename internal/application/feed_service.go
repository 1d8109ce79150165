package application

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/repository"
	"github.com/platebook/platebook/pkg/helpers"
)

// FeedService assembles the three read-only post feeds. Feeds only ever
// show accepted posts; pending and rejected posts are invisible outside
// the moderation pipeline. Reads run outside any transaction and tolerate
// concurrent writers.
type FeedService struct {
	Posts  repository.PostRepository
	Redis  *redis.Client
	Logger *logrus.Logger

	GlobalWindow    time.Duration
	CommunityWindow time.Duration
	CacheTTL        time.Duration
}

func NewFeedService(posts repository.PostRepository, rdb *redis.Client, logger *logrus.Logger, globalWindow, communityWindow, cacheTTL time.Duration) *FeedService {
	if globalWindow <= 0 {
		globalWindow = 24 * time.Hour
	}
	if communityWindow <= 0 {
		communityWindow = 7 * 24 * time.Hour
	}
	return &FeedService{
		Posts:           posts,
		Redis:           rdb,
		Logger:          logger,
		GlobalWindow:    globalWindow,
		CommunityWindow: communityWindow,
		CacheTTL:        cacheTTL,
	}
}

func globalFeedKey(page Page) string {
	return fmt.Sprintf("feed:global:p%d:l%d", page.Number, page.Limit)
}

// GlobalFeed returns accepted posts from the trailing window ordered by
// descending heart count. Pages are cached briefly in Redis; a stale page
// missing a just-landed like is acceptable.
func (s *FeedService) GlobalFeed(ctx context.Context, pageNum, limit int) (*FeedPage, error) {
	page, err := NewPage(pageNum, limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil && s.CacheTTL > 0 {
		var cached FeedPage
		if ok, cErr := helpers.RedisGetJSON(ctx, s.Redis, globalFeedKey(page), &cached); cErr == nil && ok {
			return &cached, nil
		}
	}

	since := time.Now().Add(-s.GlobalWindow)
	posts, total, err := s.Posts.GlobalFeed(ctx, since, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := &FeedPage{
		Items:       toPostViews(posts),
		TotalCount:  total,
		TotalPages:  page.TotalPages(total),
		CurrentPage: page.Number,
	}

	if s.Redis != nil && s.CacheTTL > 0 {
		if cErr := helpers.RedisSetJSON(ctx, s.Redis, globalFeedKey(page), out, s.CacheTTL); cErr != nil && s.Logger != nil {
			s.Logger.WithError(cErr).Warn("global feed cache write failed")
		}
	}
	return out, nil
}

// FollowingFeed returns posts from the users the caller follows, newest
// first. An empty result is reported as a distinct outcome so callers can
// tell "nothing from followed users yet" apart from a store failure.
func (s *FeedService) FollowingFeed(ctx context.Context, userID string, pageNum, limit int) (*FeedPage, error) {
	page, err := NewPage(pageNum, limit)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.Posts.FollowingFeed(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "no posts found from following users")
	}
	return &FeedPage{
		Items:       toPostViews(posts),
		TotalCount:  total,
		TotalPages:  page.TotalPages(total),
		CurrentPage: page.Number,
	}, nil
}

// CommunityFeed returns a uniform random sample of the accepted posts from
// the trailing week. Repeated calls may return different posts; that
// variety is the point, so there is no offset pagination here.
func (s *FeedService) CommunityFeed(ctx context.Context, limit int) ([]PostView, error) {
	page, err := NewPage(1, limit)
	if err != nil {
		return nil, err
	}
	since := time.Now().Add(-s.CommunityWindow)
	ids, err := s.Posts.AcceptedIDsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	sampled := helpers.ReservoirSample(ids, page.Limit)
	posts, err := s.Posts.GetManyWithOwner(ctx, sampled)
	if err != nil {
		return nil, err
	}
	return toPostViews(posts), nil
}
