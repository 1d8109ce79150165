package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/internal/domain/repository"
	"github.com/platebook/platebook/pkg/helpers"
)

// PostService handles recipe submission. New posts always land pending;
// only moderation moves them anywhere else.
type PostService struct {
	Users     repository.UserRepository
	Posts     repository.PostRepository
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

type CreatePostInput struct {
	DishName    string
	Ingredients string
	DishImage   io.Reader
	ImageName   string
	ImageType   string
}

func (s *PostService) CreatePost(ctx context.Context, actor Identity, in CreatePostInput) (*PostView, error) {
	owner, err := s.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}

	var imageURL string
	if in.DishImage != nil {
		if s.GCS == nil || s.GCSBucket == "" {
			return nil, apperr.New(apperr.KindInternal, "image storage not configured")
		}
		ext := strings.ToLower(filepath.Ext(in.ImageName))
		objectPath := filepath.ToSlash(filepath.Join("dishes", owner.ID, uuid.NewString()+ext))
		imageURL, err = helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, in.ImageType, in.DishImage)
		if err != nil {
			return nil, err
		}
	}

	p := &entity.Post{
		PostOwner:   owner.ID,
		DishName:    in.DishName,
		Ingredients: in.Ingredients,
		DishImage:   imageURL,
		Status:      entity.StatusPending,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	p.OwnerUsername = owner.Username
	p.OwnerProfilePic = owner.ProfilePic

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"post_id": p.ID, "owner": owner.Username}).Info("post submitted for review")
	}
	v := toPostView(*p)
	return &v, nil
}

// GetPost returns a single post with owner fields. Pending and rejected
// posts are only visible to their owner or a moderator.
func (s *PostService) GetPost(ctx context.Context, actor Identity, postID string) (*PostView, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.New(apperr.KindNotFound, "post not found")
	}
	if p.Status != entity.StatusAccepted && p.PostOwner != actor.UserID && !actor.IsModerator() {
		return nil, apperr.New(apperr.KindNotFound, "post not found")
	}
	v := toPostView(*p)
	return &v, nil
}
