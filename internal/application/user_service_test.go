package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/pkg/helpers"
)

func newUserService(store *memStore) *UserService {
	return &UserService{
		Users:         store.usersRepo(),
		Posts:         store.postsRepo(),
		Notifications: (*memNotifs)(store),
		JWT:           helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour),
	}
}

func TestRegisterAndVerifyAndLogin(t *testing.T) {
	store := newMemStore()
	svc := newUserService(store)
	ctx := context.Background()

	err := svc.Register(ctx, RegisterInput{Username: "alicesmith", Email: "alice@example.com", Password: "s3cretpw"})
	require.NoError(t, err)

	u, err := store.usersRepo().GetByUsername(ctx, "alicesmith")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.False(t, u.Verified)
	require.NotNil(t, u.VerificationCode)
	require.Equal(t, entity.RoleUser, u.Role)
	require.NotEqual(t, "s3cretpw", u.Password)

	// login refused until verified
	_, _, err = svc.Login(ctx, "alice@example.com", "s3cretpw")
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.Equal(t, apperr.KindInvalid,
		apperr.KindOf(svc.VerifyEmail(ctx, "alice@example.com", "wrong!")))
	require.NoError(t, svc.VerifyEmail(ctx, "alice@example.com", *u.VerificationCode))

	resp, pair, err := svc.Login(ctx, "alice@example.com", "s3cretpw")
	require.NoError(t, err)
	require.Equal(t, "alicesmith", resp.Username)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, claims.UserID)
	require.Equal(t, string(entity.RoleUser), claims.Role)
}

func TestRegisterDuplicateUsernameOrEmail(t *testing.T) {
	store := newMemStore()
	store.addUser("alicesmith", entity.RoleUser)
	svc := newUserService(store)
	ctx := context.Background()

	err := svc.Register(ctx, RegisterInput{Username: "alicesmith", Email: "other@example.com", Password: "s3cretpw"})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	err = svc.Register(ctx, RegisterInput{Username: "newcomer1", Email: "alicesmith@example.com", Password: "s3cretpw"})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginBadCredentials(t *testing.T) {
	store := newMemStore()
	svc := newUserService(store)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody@example.com", "whatever1")
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestChangeUsername(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	store.addUser("takenname", entity.RoleUser)
	svc := newUserService(store)
	actor := Identity{UserID: alice.ID, Username: alice.Username, Role: alice.Role}
	ctx := context.Background()

	require.Equal(t, apperr.KindInvalid,
		apperr.KindOf(svc.ChangeUsername(ctx, actor, "alicesmith")))
	require.Equal(t, apperr.KindConflict,
		apperr.KindOf(svc.ChangeUsername(ctx, actor, "takenname")))

	require.NoError(t, svc.ChangeUsername(ctx, actor, "alicejones"))
	u, err := store.usersRepo().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alicejones", u.Username)
}

func TestChangePassword(t *testing.T) {
	store := newMemStore()
	svc := newUserService(store)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterInput{Username: "alicesmith", Email: "alice@example.com", Password: "oldsecret"}))
	u, err := store.usersRepo().GetByUsername(ctx, "alicesmith")
	require.NoError(t, err)
	actor := Identity{UserID: u.ID, Username: u.Username, Role: u.Role}

	require.Equal(t, apperr.KindInvalid,
		apperr.KindOf(svc.ChangePassword(ctx, actor, "wrongpass", "newsecret")))
	require.Equal(t, apperr.KindInvalid,
		apperr.KindOf(svc.ChangePassword(ctx, actor, "oldsecret", "oldsecret")))
	require.NoError(t, svc.ChangePassword(ctx, actor, "oldsecret", "newsecret"))

	updated, err := store.usersRepo().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, helpers.CompareHashAndPassword(updated.Password, "newsecret"))
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	store := newMemStore()
	svc := newUserService(store)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestForgotAndResetPassword(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	svc := newUserService(store)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, alice.Email))

	u, err := store.usersRepo().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, u.ResetToken)
	require.NotNil(t, u.ResetTokenExpires)
	require.True(t, u.ResetTokenExpires.After(time.Now()))
	token := *u.ResetToken

	require.NoError(t, svc.ResetPassword(ctx, token, "brandnewpw"))

	updated, err := store.usersRepo().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Nil(t, updated.ResetToken)
	require.Nil(t, updated.ResetTokenExpires)
	require.True(t, helpers.CompareHashAndPassword(updated.Password, "brandnewpw"))

	// a consumed token never works twice
	err = svc.ResetPassword(ctx, token, "anotherpw1")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	svc := newUserService(store)
	ctx := context.Background()

	require.NoError(t, store.usersRepo().SetResetToken(ctx, alice.ID, "stale-token", time.Now().Add(-time.Minute)))

	err := svc.ResetPassword(ctx, "stale-token", "brandnewpw")
	require.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	// the password is untouched
	u, err := store.usersRepo().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "hash", u.Password)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	store := newMemStore()
	svc := newUserService(store)

	err := svc.ResetPassword(context.Background(), "bogus-token", "brandnewpw")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetUserDataAggregate(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alicesmith", entity.RoleUser)
	bob := store.addUser("bobbytable", entity.RoleUser)
	accepted := store.addPost(alice.ID, entity.StatusAccepted, time.Now())
	store.addPost(alice.ID, entity.StatusPending, time.Now())
	bobPost := store.addPost(bob.ID, entity.StatusAccepted, time.Now())
	svc := newUserService(store)
	ctx := context.Background()

	rel := NewRelationshipService(store, nil)
	require.NoError(t, rel.Follow(ctx, bob.Username, alice.Username))
	eng := NewEngagementService(store, nil)
	_, err := eng.Like(ctx, alice.ID, bobPost.ID)
	require.NoError(t, err)

	data, err := svc.GetUserData(ctx, alice.Username)
	require.NoError(t, err)
	require.Equal(t, "alicesmith", data.Username)

	// pending posts never leak into the profile
	require.Len(t, data.Posts, 1)
	require.Equal(t, accepted.ID, data.Posts[0].ID)

	require.Len(t, data.Likes, 1)
	require.Equal(t, bobPost.ID, data.Likes[0].ID)

	require.Len(t, data.Followers, 1)
	require.Equal(t, bob.Username, data.Followers[0].Username)
	require.Empty(t, data.Following)

	require.Len(t, data.Notifications, 1)
	require.Equal(t, "bobbytable is now following you.", data.Notifications[0].Message)

	_, err = svc.GetUserData(ctx, "ghostuser")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
