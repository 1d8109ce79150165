package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/internal/domain/repository"
)

// RelationshipService maintains the follow graph. Both operations run as a
// single unit of work across the two users involved (plus the notification
// row on follow) so a concurrent reader never observes a half-applied
// follow.
type RelationshipService struct {
	UoW    repository.UnitOfWork
	Logger *logrus.Logger
}

func NewRelationshipService(uow repository.UnitOfWork, logger *logrus.Logger) *RelationshipService {
	return &RelationshipService{UoW: uow, Logger: logger}
}

// Follow makes actor follow target and leaves exactly one follow
// notification for target.
func (s *RelationshipService) Follow(ctx context.Context, actorUsername, targetUsername string) error {
	tx, err := s.UoW.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := tx.Users()
	actor, err := users.GetByUsername(ctx, actorUsername)
	if err != nil {
		return err
	}
	if actor == nil {
		return apperr.New(apperr.KindNotFound, "user %s not found", actorUsername)
	}
	target, err := users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.New(apperr.KindNotFound, "user %s not found", targetUsername)
	}
	if actor.ID == target.ID {
		return apperr.New(apperr.KindInvalid, "cannot follow yourself")
	}

	following, err := users.IsFollowing(ctx, actor.ID, target.ID)
	if err != nil {
		return err
	}
	if following {
		return apperr.New(apperr.KindConflict, "already following %s", targetUsername)
	}

	if err := users.AddFollow(ctx, actor.ID, target.ID); err != nil {
		return err
	}
	n := &entity.Notification{
		ActorID:     actor.ID,
		RecipientID: target.ID,
		Message:     fmt.Sprintf("%s is now following you.", actor.Username),
		Type:        entity.NotificationTypeFollow,
	}
	if err := tx.Notifications().Create(ctx, n); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"actor": actorUsername, "target": targetUsername}).
			Info("user followed")
	}
	return nil
}

// Unfollow removes the follow edge. No notification is emitted.
func (s *RelationshipService) Unfollow(ctx context.Context, actorUsername, targetUsername string) error {
	tx, err := s.UoW.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := tx.Users()
	actor, err := users.GetByUsername(ctx, actorUsername)
	if err != nil {
		return err
	}
	if actor == nil {
		return apperr.New(apperr.KindNotFound, "user %s not found", actorUsername)
	}
	target, err := users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.New(apperr.KindNotFound, "user %s not found", targetUsername)
	}
	if actor.ID == target.ID {
		return apperr.New(apperr.KindInvalid, "cannot unfollow yourself")
	}

	following, err := users.IsFollowing(ctx, actor.ID, target.ID)
	if err != nil {
		return err
	}
	if !following {
		return apperr.New(apperr.KindConflict, "not following %s", targetUsername)
	}

	if err := users.RemoveFollow(ctx, actor.ID, target.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"actor": actorUsername, "target": targetUsername}).
			Info("user unfollowed")
	}
	return nil
}
