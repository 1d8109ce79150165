package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/internal/domain/repository"
	"github.com/platebook/platebook/pkg/helpers"
)

// ModerationService drives the post lifecycle: pending -> accepted or
// rejected, both terminal. Re-applying a transition to a terminal post is
// rejected with Conflict so the moderation trail stays unambiguous.
// Every operation re-checks the caller's role claim even though the routes
// are already gated, so an unauthorized call can never reach the store.
type ModerationService struct {
	Posts        repository.PostRepository
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESPostsIndex string
}

func NewModerationService(posts repository.PostRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esPostsIndex string) *ModerationService {
	return &ModerationService{Posts: posts, Redis: rdb, Logger: logger, ES: es, ESPostsIndex: esPostsIndex}
}

// AcceptPost moves a pending post into the accepted state, making it
// eligible for the public feeds, and indexes it for search. Cached global
// feed pages are dropped so the post shows up on the next read instead of
// waiting out the cache TTL.
func (s *ModerationService) AcceptPost(ctx context.Context, actor Identity, postID string) (*entity.Post, error) {
	p, err := s.transition(ctx, actor, postID, entity.StatusAccepted)
	if err != nil {
		return nil, err
	}
	s.invalidateGlobalFeed(ctx)
	s.indexPost(ctx, p)
	return p, nil
}

func (s *ModerationService) invalidateGlobalFeed(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDelPattern(ctx, s.Redis, "feed:global:*"); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("global feed cache invalidation failed")
	}
}

// RejectPost moves a pending post into the rejected state. Rejected posts
// never appear in any feed.
func (s *ModerationService) RejectPost(ctx context.Context, actor Identity, postID string) (*entity.Post, error) {
	return s.transition(ctx, actor, postID, entity.StatusRejected)
}

func (s *ModerationService) transition(ctx context.Context, actor Identity, postID string, to entity.PostStatus) (*entity.Post, error) {
	if !actor.IsModerator() {
		return nil, apperr.New(apperr.KindForbidden, "moderator role required")
	}
	moved, err := s.Posts.SetStatusFromPending(ctx, postID, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		p, err := s.Posts.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperr.New(apperr.KindNotFound, "post %s not found", postID)
		}
		return nil, apperr.New(apperr.KindConflict, "post is already %s", p.Status)
	}
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"post": postID, "status": to, "moderator": actor.Username}).
			Info("post moderated")
	}
	return p, nil
}

// ListPending returns pending posts newest-first. An empty page is a
// normal outcome, not an error.
func (s *ModerationService) ListPending(ctx context.Context, actor Identity, pageNum, limit int) (*FeedPage, error) {
	if !actor.IsModerator() {
		return nil, apperr.New(apperr.KindForbidden, "moderator role required")
	}
	page, err := NewPage(pageNum, limit)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.Posts.ListPending(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	return &FeedPage{
		Items:       toPostViews(posts),
		TotalCount:  total,
		TotalPages:  page.TotalPages(total),
		CurrentPage: page.Number,
	}, nil
}

// indexPost mirrors an accepted post into Elasticsearch. Search is a
// convenience on top of the store, so failures are logged and swallowed.
func (s *ModerationService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil || s.ESPostsIndex == "" || p == nil {
		return
	}
	doc := map[string]any{
		"id":             p.ID,
		"dish_name":      p.DishName,
		"ingredients":    p.Ingredients,
		"owner_username": p.OwnerUsername,
		"date_posted":    p.DatePosted.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPostsIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post", p.ID).Warn("es index response error")
	}
}

// SearchPosts performs a multi_match search on dish name and ingredients
// over the accepted-post index.
func (s *ModerationService) SearchPosts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > maxPageLimit {
		size = defaultPageLimit
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"dish_name^2", "ingredients"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESPostsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
