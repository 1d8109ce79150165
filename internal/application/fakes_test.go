package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/internal/domain/repository"
)

// memStore is an in-memory stand-in for the postgres layer. It keeps the
// same contracts the real repositories do: lookups return (nil, nil) when
// missing, follow and like edges are unordered pairs, and every Tx is
// all-or-nothing via snapshot restore on rollback.
type memStore struct {
	mu      sync.Mutex
	users   map[string]entity.User
	posts   map[string]entity.Post
	follows map[string]map[string]bool // follower -> followee set
	likes   map[string]map[string]bool // post -> liker set
	notifs  []entity.Notification
	seq     int
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]entity.User{},
		posts:   map[string]entity.Post{},
		follows: map[string]map[string]bool{},
		likes:   map[string]map[string]bool{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) addUser(username string, role entity.Role) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := entity.User{
		ID:         m.nextID("user"),
		Username:   username,
		Email:      username + "@example.com",
		Password:   "hash",
		Verified:   true,
		Role:       role,
		JoinedDate: time.Now(),
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addPost(ownerID string, status entity.PostStatus, datePosted time.Time) entity.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := entity.Post{
		ID:         m.nextID("post"),
		DishName:   "dish",
		Status:     status,
		DatePosted: datePosted,
		PostOwner:  ownerID,
	}
	m.posts[p.ID] = p
	return p
}

func (m *memStore) snapshot() *memStore {
	s := newMemStore()
	s.seq = m.seq
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.posts {
		s.posts[k] = v
	}
	for k, set := range m.follows {
		cp := map[string]bool{}
		for kk := range set {
			cp[kk] = true
		}
		s.follows[k] = cp
	}
	for k, set := range m.likes {
		cp := map[string]bool{}
		for kk := range set {
			cp[kk] = true
		}
		s.likes[k] = cp
	}
	s.notifs = append([]entity.Notification(nil), m.notifs...)
	return s
}

func (m *memStore) restore(s *memStore) {
	m.users = s.users
	m.posts = s.posts
	m.follows = s.follows
	m.likes = s.likes
	m.notifs = s.notifs
	m.seq = s.seq
}

func (m *memStore) usersRepo() repository.UserRepository { return (*memUsers)(m) }
func (m *memStore) postsRepo() repository.PostRepository { return (*memPosts)(m) }

// UnitOfWork

func (m *memStore) Begin(_ context.Context) (repository.Tx, error) {
	m.mu.Lock()
	snap := m.snapshot()
	m.mu.Unlock()
	return &memTx{store: m, snap: snap}, nil
}

type memTx struct {
	store *memStore
	snap  *memStore
	done  bool
}

func (t *memTx) Users() repository.UserRepository { return (*memUsers)(t.store) }
func (t *memTx) Posts() repository.PostRepository { return (*memPosts)(t.store) }
func (t *memTx) Notifications() repository.NotificationRepository {
	return (*memNotifs)(t.store)
}

func (t *memTx) Commit(_ context.Context) error {
	t.done = true
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Lock()
	t.store.restore(t.snap)
	t.store.mu.Unlock()
	return nil
}

// UserRepository

type memUsers memStore

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := (*memStore)(m)
	u.ID = s.nextID("user")
	u.JoinedDate = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) update(id string, fn func(*entity.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	fn(&u)
	m.users[id] = u
	return nil
}

func (m *memUsers) UpdateUsername(_ context.Context, id, username string) error {
	return m.update(id, func(u *entity.User) { u.Username = username })
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return m.update(id, func(u *entity.User) { u.Password = hash })
}

func (m *memUsers) UpdateProfilePic(_ context.Context, id, pic string) error {
	return m.update(id, func(u *entity.User) { u.ProfilePic = pic })
}

func (m *memUsers) SetVerified(_ context.Context, id string) error {
	return m.update(id, func(u *entity.User) {
		u.Verified = true
		u.VerificationCode = nil
	})
}

func (m *memUsers) SetResetToken(_ context.Context, id, token string, expires time.Time) error {
	return m.update(id, func(u *entity.User) {
		u.ResetToken = &token
		u.ResetTokenExpires = &expires
	})
}

func (m *memUsers) GetByResetToken(_ context.Context, token string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) ResetPassword(_ context.Context, id, hash string) error {
	return m.update(id, func(u *entity.User) {
		u.Password = hash
		u.ResetToken = nil
		u.ResetTokenExpires = nil
	})
}

func (m *memUsers) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.follows[followerID][followeeID], nil
}

func (m *memUsers) AddFollow(_ context.Context, followerID, followeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.follows[followerID] == nil {
		m.follows[followerID] = map[string]bool{}
	}
	if m.follows[followerID][followeeID] {
		return fmt.Errorf("duplicate follow edge")
	}
	m.follows[followerID][followeeID] = true
	return nil
}

func (m *memUsers) RemoveFollow(_ context.Context, followerID, followeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.follows[followerID], followeeID)
	return nil
}

func (m *memUsers) ListFollowers(_ context.Context, userID string) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.User
	for follower, set := range m.follows {
		if set[userID] {
			out = append(out, m.users[follower])
		}
	}
	sortUsers(out)
	return out, nil
}

func (m *memUsers) ListFollowing(_ context.Context, userID string) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.User
	for followee := range m.follows[userID] {
		out = append(out, m.users[followee])
	}
	sortUsers(out)
	return out, nil
}

func sortUsers(users []entity.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}

// PostRepository

type memPosts memStore

func (m *memPosts) Create(_ context.Context, p *entity.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := (*memStore)(m)
	p.ID = s.nextID("post")
	if p.DatePosted.IsZero() {
		p.DatePosted = time.Now()
	}
	s.posts[p.ID] = *p
	return nil
}

func (m *memPosts) GetByID(_ context.Context, id string) (*entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return m.withOwnerLocked(p), nil
}

func (m *memPosts) withOwnerLocked(p entity.Post) *entity.Post {
	p.HeartCount = len(m.likes[p.ID])
	if owner, ok := m.users[p.PostOwner]; ok {
		p.OwnerUsername = owner.Username
		p.OwnerProfilePic = owner.ProfilePic
	}
	return &p
}

func (m *memPosts) HasLike(_ context.Context, userID, postID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.likes[postID][userID], nil
}

func (m *memPosts) AddLike(_ context.Context, userID, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.likes[postID] == nil {
		m.likes[postID] = map[string]bool{}
	}
	if m.likes[postID][userID] {
		return fmt.Errorf("duplicate like edge")
	}
	m.likes[postID][userID] = true
	return nil
}

func (m *memPosts) RemoveLike(_ context.Context, userID, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.likes[postID], userID)
	return nil
}

func (m *memPosts) HeartCount(_ context.Context, postID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.likes[postID]), nil
}

func (m *memPosts) Hearts(_ context.Context, postID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for u := range m.likes[postID] {
		out = append(out, u)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memPosts) SetStatusFromPending(_ context.Context, postID string, to entity.PostStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok || p.Status != entity.StatusPending {
		return false, nil
	}
	p.Status = to
	m.posts[postID] = p
	return true, nil
}

func (m *memPosts) collectLocked(match func(entity.Post) bool) []entity.Post {
	var out []entity.Post
	for _, p := range m.posts {
		if match(p) {
			out = append(out, *m.withOwnerLocked(p))
		}
	}
	return out
}

func paginate(posts []entity.Post, limit, offset int) ([]entity.Post, int) {
	total := len(posts)
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return posts[offset:end], total
}

func (m *memPosts) ListPending(_ context.Context, limit, offset int) ([]entity.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := m.collectLocked(func(p entity.Post) bool { return p.Status == entity.StatusPending })
	sort.Slice(posts, func(i, j int) bool { return posts[i].DatePosted.After(posts[j].DatePosted) })
	page, total := paginate(posts, limit, offset)
	return page, total, nil
}

func (m *memPosts) GlobalFeed(_ context.Context, since time.Time, limit, offset int) ([]entity.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := m.collectLocked(func(p entity.Post) bool {
		return p.Status == entity.StatusAccepted && p.DatePosted.After(since)
	})
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].HeartCount != posts[j].HeartCount {
			return posts[i].HeartCount > posts[j].HeartCount
		}
		return posts[i].DatePosted.After(posts[j].DatePosted)
	})
	page, total := paginate(posts, limit, offset)
	return page, total, nil
}

func (m *memPosts) FollowingFeed(_ context.Context, userID string, limit, offset int) ([]entity.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	followed := m.follows[userID]
	posts := m.collectLocked(func(p entity.Post) bool {
		return p.Status == entity.StatusAccepted && followed[p.PostOwner]
	})
	sort.Slice(posts, func(i, j int) bool { return posts[i].DatePosted.After(posts[j].DatePosted) })
	page, total := paginate(posts, limit, offset)
	return page, total, nil
}

func (m *memPosts) AcceptedIDsSince(_ context.Context, since time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.posts {
		if p.Status == entity.StatusAccepted && p.DatePosted.After(since) {
			out = append(out, p.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memPosts) GetManyWithOwner(_ context.Context, ids []string) ([]entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Post
	for _, id := range ids {
		if p, ok := m.posts[id]; ok {
			out = append(out, *m.withOwnerLocked(p))
		}
	}
	return out, nil
}

func (m *memPosts) ListAcceptedByOwner(_ context.Context, ownerID string) ([]entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := m.collectLocked(func(p entity.Post) bool {
		return p.Status == entity.StatusAccepted && p.PostOwner == ownerID
	})
	sort.Slice(posts, func(i, j int) bool { return posts[i].DatePosted.After(posts[j].DatePosted) })
	return posts, nil
}

func (m *memPosts) ListLikedBy(_ context.Context, userID string) ([]entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	posts := m.collectLocked(func(p entity.Post) bool {
		return p.Status == entity.StatusAccepted && m.likes[p.ID][userID]
	})
	sort.Slice(posts, func(i, j int) bool { return posts[i].DatePosted.After(posts[j].DatePosted) })
	return posts, nil
}

// NotificationRepository

type memNotifs memStore

func (m *memNotifs) Create(_ context.Context, n *entity.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := (*memStore)(m)
	n.ID = s.nextID("notif")
	n.CreatedAt = time.Now()
	if actor, ok := s.users[n.ActorID]; ok {
		n.ActorUsername = actor.Username
		n.ActorProfilePic = actor.ProfilePic
	}
	s.notifs = append(s.notifs, *n)
	return nil
}

func (m *memNotifs) ListForUser(_ context.Context, userID string) ([]entity.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Notification
	for i := len(m.notifs) - 1; i >= 0; i-- {
		if m.notifs[i].RecipientID == userID {
			out = append(out, m.notifs[i])
		}
	}
	return out, nil
}

var (
	_ repository.UnitOfWork             = (*memStore)(nil)
	_ repository.UserRepository         = (*memUsers)(nil)
	_ repository.PostRepository         = (*memPosts)(nil)
	_ repository.NotificationRepository = (*memNotifs)(nil)
)
