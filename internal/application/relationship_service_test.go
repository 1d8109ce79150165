package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
)

func TestFollowCreatesMutualEdgeAndNotification(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	bob := store.addUser("bobbytable", entity.RoleUser)
	svc := NewRelationshipService(store, nil)

	require.NoError(t, svc.Follow(context.Background(), alice.Username, bob.Username))

	following, err := (*memUsers)(store).ListFollowing(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, bob.ID, following[0].ID)

	followers, err := (*memUsers)(store).ListFollowers(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, alice.ID, followers[0].ID)

	notifs, err := (*memNotifs)(store).ListForUser(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, "alicesmith is now following you.", notifs[0].Message)
	require.Equal(t, entity.NotificationTypeFollow, notifs[0].Type)
	require.Equal(t, alice.ID, notifs[0].ActorID)
}

func TestFollowSelfRejected(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	svc := NewRelationshipService(store, nil)

	err := svc.Follow(context.Background(), alice.Username, alice.Username)
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestFollowDuplicateRejectedWithoutSecondNotification(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	bob := store.addUser("bobbytable", entity.RoleUser)
	svc := NewRelationshipService(store, nil)

	require.NoError(t, svc.Follow(context.Background(), alice.Username, bob.Username))

	err := svc.Follow(context.Background(), alice.Username, bob.Username)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	notifs, err := (*memNotifs)(store).ListForUser(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
}

func TestFollowUnknownUser(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	svc := NewRelationshipService(store, nil)

	err := svc.Follow(context.Background(), alice.Username, "ghostuser")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.Follow(context.Background(), "ghostuser", alice.Username)
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUnfollowRemovesEdgeWithoutNotification(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	bob := store.addUser("bobbytable", entity.RoleUser)
	svc := NewRelationshipService(store, nil)

	require.NoError(t, svc.Follow(context.Background(), alice.Username, bob.Username))
	require.NoError(t, svc.Unfollow(context.Background(), alice.Username, bob.Username))

	following, err := (*memUsers)(store).ListFollowing(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Empty(t, following)

	followers, err := (*memUsers)(store).ListFollowers(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Empty(t, followers)

	// The follow notification stays; unfollow adds nothing.
	notifs, err := (*memNotifs)(store).ListForUser(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
}

func TestUnfollowWithoutFollowRejected(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	bob := store.addUser("bobbytable", entity.RoleUser)
	svc := NewRelationshipService(store, nil)

	err := svc.Unfollow(context.Background(), alice.Username, bob.Username)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestFollowIsDirectional(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	bob := store.addUser("bobbytable", entity.RoleUser)
	svc := NewRelationshipService(store, nil)

	require.NoError(t, svc.Follow(context.Background(), alice.Username, bob.Username))

	// bob does not follow alice back automatically
	following, err := (*memUsers)(store).ListFollowing(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Empty(t, following)

	// and bob can still unfollow nothing -> conflict
	err = svc.Unfollow(context.Background(), bob.Username, alice.Username)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
