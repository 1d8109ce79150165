package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
)

func TestLikeReturnsUpdatedHeartCount(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	bob := store.addUser("bobbytable", entity.RoleUser)
	post := store.addPost(bob.ID, entity.StatusAccepted, time.Now())
	svc := NewEngagementService(store, nil)

	hearts, err := svc.Like(context.Background(), alice.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, hearts)

	hearts, err = svc.Like(context.Background(), bob.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, 2, hearts)

	likers, err := (*memPosts)(store).Hearts(context.Background(), post.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{alice.ID, bob.ID}, likers)

	liked, err := (*memPosts)(store).ListLikedBy(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	require.Equal(t, post.ID, liked[0].ID)
}

func TestLikeDuplicateRejected(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	post := store.addPost(alice.ID, entity.StatusAccepted, time.Now())
	svc := NewEngagementService(store, nil)

	_, err := svc.Like(context.Background(), alice.ID, post.ID)
	require.NoError(t, err)

	_, err = svc.Like(context.Background(), alice.ID, post.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	hearts, err := (*memPosts)(store).HeartCount(context.Background(), post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, hearts)
}

func TestUnlikeRoundTrip(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	post := store.addPost(alice.ID, entity.StatusAccepted, time.Now())
	svc := NewEngagementService(store, nil)

	_, err := svc.Like(context.Background(), alice.ID, post.ID)
	require.NoError(t, err)

	hearts, err := svc.Unlike(context.Background(), alice.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, hearts)

	liked, err := (*memPosts)(store).ListLikedBy(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Empty(t, liked)
}

func TestUnlikeWithoutLikeRejected(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	post := store.addPost(alice.ID, entity.StatusAccepted, time.Now())
	svc := NewEngagementService(store, nil)

	_, err := svc.Unlike(context.Background(), alice.ID, post.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLikeUnknownUserOrPost(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	post := store.addPost(alice.ID, entity.StatusAccepted, time.Now())
	svc := NewEngagementService(store, nil)

	_, err := svc.Like(context.Background(), "missing-user", post.ID)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Like(context.Background(), alice.ID, "missing-post")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
