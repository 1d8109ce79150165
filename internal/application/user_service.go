package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/internal/domain/repository"
	"github.com/platebook/platebook/pkg/helpers"
	"github.com/platebook/platebook/pkg/mailer"
)

// UserService covers registration, verification, login/session handling
// and the profile surface. Credential hashing, email delivery, and image
// resizing stay behind their collaborators (bcrypt helpers, the RabbitMQ
// email queue, GCS).
type UserService struct {
	Users         repository.UserRepository
	Posts         repository.PostRepository
	Notifications repository.NotificationRepository
	JWT           *helpers.JWTManager
	GCS           *storage.Client
	GCSBucket     string
	Redis         *redis.Client
	Pub           *helpers.RabbitPublisher
	Logger        *logrus.Logger
	MailEnabled   bool
	ClientURL     string
	ResetTokenTTL time.Duration
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an unverified account and queues the verification
// email. Username and email uniqueness are checked up front so the caller
// gets a specific message instead of a bare constraint violation.
func (s *UserService) Register(ctx context.Context, in RegisterInput) error {
	if existing, err := s.Users.GetByUsername(ctx, in.Username); err != nil {
		return err
	} else if existing != nil {
		return apperr.New(apperr.KindConflict, "username already taken")
	}
	if existing, err := s.Users.GetByEmail(ctx, in.Email); err != nil {
		return err
	} else if existing != nil {
		return apperr.New(apperr.KindConflict, "email is already registered")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return err
	}
	code, err := helpers.GenVerificationCode()
	if err != nil {
		return err
	}
	u := &entity.User{
		Username:         in.Username,
		Email:            in.Email,
		Password:         hash,
		VerificationCode: &code,
		Role:             entity.RoleUser,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return err
	}

	if s.Pub != nil && s.MailEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.JobVerifyEmail,
			Data:     map[string]string{"Username": u.Username, "Code": code},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("verification email enqueue failed")
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"username": u.Username}).Info("user registered")
	}
	return nil
}

// VerifyEmail checks the emailed code and marks the account verified.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if u.Verified || u.VerificationCode == nil {
		return apperr.New(apperr.KindConflict, "email already verified")
	}
	if *u.VerificationCode != code {
		return apperr.New(apperr.KindInvalid, "incorrect verification code")
	}
	if err := s.Users.SetVerified(ctx, u.ID); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("email", email).Info("email verified")
	}
	return nil
}

type LoginResponse struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// Login validates credentials, requires a verified email, and issues a
// token pair backed by a Redis session hash.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, apperr.New(apperr.KindInvalid, "invalid credentials")
	}
	if !u.Verified {
		return nil, TokenPair{}, apperr.New(apperr.KindForbidden, "please verify your email first")
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		ProfilePic: u.ProfilePic,
	}
	return resp, pair, nil
}

func (s *UserService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role), sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, string(u.Role), sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and token pair when the refresh token
// matches the live session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperr.New(apperr.KindForbidden, "invalid refresh token")
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if u == nil {
		return TokenPair{}, apperr.New(apperr.KindForbidden, "invalid refresh token")
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, apperr.New(apperr.KindForbidden, "invalid refresh token")
		}
	}
	return s.issueTokens(ctx, u)
}

// Logout drops the Redis session; cookie clearing is the handler's job.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, sessionKey(userID))
	}
}

// ChangeUsername renames the acting user after uniqueness and sanity
// checks. Handler-level validation already enforced the length policy.
func (s *UserService) ChangeUsername(ctx context.Context, actor Identity, newUsername string) error {
	u, err := s.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if u.Username == newUsername {
		return apperr.New(apperr.KindInvalid, "new username cannot be your old username")
	}
	if existing, err := s.Users.GetByUsername(ctx, newUsername); err != nil {
		return err
	} else if existing != nil {
		return apperr.New(apperr.KindConflict, "username already taken")
	}
	return s.Users.UpdateUsername(ctx, u.ID, newUsername)
}

// ChangePassword verifies the current password before writing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, actor Identity, currentPassword, newPassword string) error {
	u, err := s.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if !helpers.CompareHashAndPassword(u.Password, currentPassword) {
		return apperr.New(apperr.KindInvalid, "incorrect password")
	}
	if currentPassword == newPassword {
		return apperr.New(apperr.KindInvalid, "new password cannot be your old password")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.ID, hash)
}

// ForgotPassword stores a single-use reset token on the account and
// queues the reset email. Unknown emails get NotFound so the caller knows
// nothing was sent.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.New(apperr.KindNotFound, "no account with that email")
	}

	token, err := helpers.GenResetToken()
	if err != nil {
		return err
	}
	ttl := s.ResetTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := s.Users.SetResetToken(ctx, u.ID, token, time.Now().Add(ttl)); err != nil {
		return err
	}

	if s.Pub != nil && s.MailEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.JobResetPassword,
			Data: map[string]string{
				"Username": u.Username,
				"ResetURL": strings.TrimRight(s.ClientURL, "/") + "/reset-password/" + token,
			},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("reset email enqueue failed")
		}
	}
	if s.Logger != nil {
		s.Logger.WithField("username", u.Username).Info("password reset requested")
	}
	return nil
}

// ResetPassword consumes a reset token: the new hash is written and the
// token cleared in one update, so a token never works twice.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.Users.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if u == nil || u.ResetTokenExpires == nil {
		return apperr.New(apperr.KindNotFound, "invalid or expired reset token")
	}
	if time.Now().After(*u.ResetTokenExpires) {
		return apperr.New(apperr.KindInvalid, "reset token has expired")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.ResetPassword(ctx, u.ID, hash); err != nil {
		return err
	}
	// the old password's session does not survive a reset
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, sessionKey(u.ID))
	}
	if s.Logger != nil {
		s.Logger.WithField("username", u.Username).Info("password reset")
	}
	return nil
}

// UploadProfilePic stores an already-resized image in GCS and persists the
// resulting URL on the profile. The payload is opaque to this service.
func (s *UserService) UploadProfilePic(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", apperr.New(apperr.KindNotFound, "user not found")
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.New(apperr.KindInternal, "image storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profiles", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Users.UpdateProfilePic(ctx, u.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

// NotificationView is the JSON projection of a follow notification.
type NotificationView struct {
	ID              string    `json:"id"`
	Message         string    `json:"message"`
	Type            string    `json:"type"`
	CreatedAt       time.Time `json:"created_at"`
	IsRead          bool      `json:"is_read"`
	ActorUsername   string    `json:"actor_username"`
	ActorProfilePic string    `json:"actor_profile_pic,omitempty"`
}

// UserData is the profile aggregate: accepted posts only, liked posts,
// both follow directions, and the notification feed.
type UserData struct {
	Username      string             `json:"username"`
	Email         string             `json:"email"`
	ProfilePic    string             `json:"profile_pic,omitempty"`
	Role          string             `json:"role"`
	JoinedDate    time.Time          `json:"joined_date"`
	Posts         []PostView         `json:"posts"`
	Likes         []PostView         `json:"likes"`
	Followers     []ProfileRef       `json:"followers"`
	Following     []ProfileRef       `json:"following"`
	Notifications []NotificationView `json:"notifications"`
}

type ProfileRef struct {
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// GetUserData assembles the profile view for username.
func (s *UserService) GetUserData(ctx context.Context, username string) (*UserData, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.New(apperr.KindNotFound, "user %s not found", username)
	}

	posts, err := s.Posts.ListAcceptedByOwner(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	likes, err := s.Posts.ListLikedBy(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.Users.ListFollowers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.Users.ListFollowing(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	notifs, err := s.Notifications.ListForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	out := &UserData{
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Role:       string(u.Role),
		JoinedDate: u.JoinedDate,
		Posts:      toPostViews(posts),
		Likes:      toPostViews(likes),
	}
	for _, f := range followers {
		out.Followers = append(out.Followers, ProfileRef{Username: f.Username, ProfilePic: f.ProfilePic})
	}
	for _, f := range following {
		out.Following = append(out.Following, ProfileRef{Username: f.Username, ProfilePic: f.ProfilePic})
	}
	for _, n := range notifs {
		out.Notifications = append(out.Notifications, NotificationView{
			ID:              n.ID,
			Message:         n.Message,
			Type:            n.Type,
			CreatedAt:       n.CreatedAt,
			IsRead:          n.IsRead,
			ActorUsername:   n.ActorUsername,
			ActorProfilePic: n.ActorProfilePic,
		})
	}
	return out, nil
}
