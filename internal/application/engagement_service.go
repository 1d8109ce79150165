package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/repository"
)

// EngagementService maintains the like edges between users and posts.
// Precondition checks run inside the transaction, and the likes primary key
// serializes concurrent attempts on the same pair: exactly one writer wins,
// the other surfaces Conflict.
type EngagementService struct {
	UoW    repository.UnitOfWork
	Logger *logrus.Logger
}

func NewEngagementService(uow repository.UnitOfWork, logger *logrus.Logger) *EngagementService {
	return &EngagementService{UoW: uow, Logger: logger}
}

// Like records userID liking postID and returns the updated heart count so
// the caller can render without a second read.
func (s *EngagementService) Like(ctx context.Context, userID, postID string) (int, error) {
	return s.setLike(ctx, userID, postID, true)
}

// Unlike removes an existing like and returns the updated heart count.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID string) (int, error) {
	return s.setLike(ctx, userID, postID, false)
}

func (s *EngagementService) setLike(ctx context.Context, userID, postID string, liked bool) (int, error) {
	tx, err := s.UoW.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := tx.Users().GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, apperr.New(apperr.KindNotFound, "user %s not found", userID)
	}
	posts := tx.Posts()
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, apperr.New(apperr.KindNotFound, "post %s not found", postID)
	}

	has, err := posts.HasLike(ctx, userID, postID)
	if err != nil {
		return 0, err
	}
	if liked {
		if has {
			return 0, apperr.New(apperr.KindConflict, "you already liked this post")
		}
		if err := posts.AddLike(ctx, userID, postID); err != nil {
			return 0, err
		}
	} else {
		if !has {
			return 0, apperr.New(apperr.KindConflict, "you have not liked this post")
		}
		if err := posts.RemoveLike(ctx, userID, postID); err != nil {
			return 0, err
		}
	}

	hearts, err := posts.HeartCount(ctx, postID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user": userID, "post": postID, "liked": liked}).
			Info("post engagement updated")
	}
	return hearts, nil
}
