package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklewash/carwash-api/internal/model"
	"github.com/sparklewash/carwash-api/internal/queue"
	"github.com/sparklewash/carwash-api/pkg/apperrors"
)

// ----- in-memory fakes for the store contracts -----

type memUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint64]*model.User{}}
}

func (s *memUserStore) Create(_ context.Context, nu NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == nu.Email {
			return nil, ErrDuplicate
		}
		if nu.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *nu.GoogleID {
			return nil, ErrDuplicate
		}
		if nu.Phone != nil && u.Phone != nil && *u.Phone == *nu.Phone {
			return nil, ErrDuplicate
		}
	}
	s.nextID++
	u := &model.User{
		ID:           s.nextID,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		GoogleID:     nu.GoogleID,
		FullName:     nu.FullName,
		Phone:        nu.Phone,
		Role:         nu.Role,
		IsVerified:   nu.IsVerified,
		AvatarURL:    nu.AvatarURL,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *memUserStore) FindByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, ErrNotFound
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool { return u.Email == email })
}

func (s *memUserStore) FindByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (s *memUserStore) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	return s.findBy(func(u *model.User) bool { return u.Phone != nil && *u.Phone == phone })
}

func (s *memUserStore) LinkGoogle(_ context.Context, userID uint64, googleID string, avatarURL *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.GoogleID = &googleID
	u.IsVerified = true
	if avatarURL != nil {
		u.AvatarURL = avatarURL
	}
	return nil
}

func (s *memUserStore) SetPassword(_ context.Context, userID uint64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = &passwordHash
	return nil
}

func (s *memUserStore) findBy(match func(*model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

type memTokenStore struct {
	mu     sync.Mutex
	nextID uint64
	byHash map[string]*model.RefreshToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{byHash: map[string]*model.RefreshToken{}}
}

func (s *memTokenStore) Create(_ context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.byHash[tokenHash] = &model.RefreshToken{
		ID:        s.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *memTokenStore) FindByHash(_ context.Context, tokenHash string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byHash[tokenHash]
	if !ok {
		return nil, ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *memTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.byHash[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
	}
	return nil
}

func (s *memTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, t := range s.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (s *memTokenStore) DeleteExpiredOrRevoked(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for h, t := range s.byHash {
		if t.RevokedAt != nil || !now.Before(t.ExpiresAt) {
			delete(s.byHash, h)
			n++
		}
	}
	return n, nil
}

type fakeVerifier struct {
	profile Profile
	err     error
}

func (f *fakeVerifier) Verify(context.Context, string) (Profile, error) {
	return f.profile, f.err
}

type recordPublisher struct {
	mu     sync.Mutex
	events []queue.AuthEvent
}

func (p *recordPublisher) Publish(_ context.Context, ev queue.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

// ----- fixtures -----

type fixture struct {
	users  *memUserStore
	tokens *memTokenStore
	audit  *recordPublisher
	svc    *Service
}

func newFixture(t *testing.T, google IdentityVerifier) *fixture {
	t.Helper()
	f := &fixture{
		users:  newMemUserStore(),
		tokens: newMemTokenStore(),
		audit:  &recordPublisher{},
	}
	issuer := NewTokenIssuer("test-secret", 15, 30)
	f.svc = NewService(f.users, f.tokens, issuer, google, f.audit)
	return f
}

func mustRegister(t *testing.T, f *fixture, email, password string) *UserView {
	t.Helper()
	v, err := f.svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: password,
		FullName: "Test User",
	})
	require.NoError(t, err)
	return v
}

// ----- tests -----

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view := mustRegister(t, f, "Anna@Example.COM", "sudsy-pass-1")
	assert.Equal(t, "anna@example.com", view.Email, "email must be lowercase-normalized")
	assert.Equal(t, model.RoleCustomer, view.Role)
	assert.False(t, view.IsVerified)

	sess, err := f.svc.Login(ctx, "anna@example.com", "sudsy-pass-1")
	require.NoError(t, err)
	assert.Equal(t, view.ID, sess.User.ID)
	assert.Equal(t, "anna@example.com", sess.User.Email)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)
	assert.True(t, sess.RefreshExpiresAt.After(time.Now()))

	assert.Equal(t, []string{queue.EventUserRegistered, queue.EventUserLogin}, f.audit.kinds())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	mustRegister(t, f, "bob@example.com", "sudsy-pass-1")

	_, err := f.svc.Register(ctx, RegisterInput{
		Email:    "BOB@example.com", // case variant of the same address
		Password: "sudsy-pass-2",
		FullName: "Second Bob",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAccountExists)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "longenough"})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = f.svc.Register(ctx, RegisterInput{Email: "ok@example.com", Password: "short"})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	v, err := f.svc.Register(ctx, RegisterInput{
		Email:    "sneaky@example.com",
		Password: "sudsy-pass-1",
		Role:     "ADMIN",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, v.Role)

	v, err = f.svc.Register(ctx, RegisterInput{
		Email:    "mgr@example.com",
		Password: "sudsy-pass-1",
		Role:     "manager",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, v.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	mustRegister(t, f, "carol@example.com", "sudsy-pass-1")

	_, errWrongPassword := f.svc.Login(ctx, "carol@example.com", "wrong-password")
	_, errNoSuchUser := f.svc.Login(ctx, "nobody@example.com", "whatever-pass")

	require.Error(t, errWrongPassword)
	require.Error(t, errNoSuchUser)
	// Same kind for both so responses cannot be used to enumerate accounts.
	assert.Equal(t, apperrors.CodeOf(errWrongPassword), apperrors.CodeOf(errNoSuchUser))
	assert.ErrorIs(t, errWrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoSuchUser, apperrors.ErrInvalidCredentials)
}

func TestLoginByPhone(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	phone := "+15550001111"
	_, err := f.svc.Register(ctx, RegisterInput{
		Email:    "dave@example.com",
		Password: "sudsy-pass-1",
		FullName: "Dave",
		Phone:    &phone,
	})
	require.NoError(t, err)

	sess, err := f.svc.Login(ctx, phone, "sudsy-pass-1")
	require.NoError(t, err)
	assert.Equal(t, "dave@example.com", sess.User.Email)
}

func TestFreshRefreshTokenIsLive(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	mustRegister(t, f, "erin@example.com", "sudsy-pass-1")
	sess, err := f.svc.Login(ctx, "erin@example.com", "sudsy-pass-1")
	require.NoError(t, err)

	rec, err := f.tokens.FindByHash(ctx, HashRefreshRaw(sess.RefreshToken))
	require.NoError(t, err)
	assert.False(t, rec.Revoked())
	assert.False(t, rec.Expired(time.Now().UTC()))
	assert.Equal(t, sess.User.ID, rec.UserID)

	res, err := f.svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)

	// Not rotated: the same refresh token keeps working.
	_, err = f.svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshFailureKinds(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrRefreshRequired)

	_, err = f.svc.Refresh(ctx, "completely-unknown-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenUnknown)

	view := mustRegister(t, f, "frank@example.com", "sudsy-pass-1")

	// Expired but never revoked: expiry wins with its own kind.
	expired := "expired-raw-token"
	require.NoError(t, f.tokens.Create(ctx, view.ID, HashRefreshRaw(expired), time.Now().UTC().Add(-time.Hour)))
	_, err = f.svc.Refresh(ctx, expired)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestLogoutRevokesSingleSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	mustRegister(t, f, "gina@example.com", "sudsy-pass-1")
	first, err := f.svc.Login(ctx, "gina@example.com", "sudsy-pass-1")
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, "gina@example.com", "sudsy-pass-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, first.RefreshToken))

	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// The other session is untouched.
	_, err = f.svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)

	// Idempotent: revoking again, or revoking garbage, is not an error.
	assert.NoError(t, f.svc.Logout(ctx, first.RefreshToken))
	assert.NoError(t, f.svc.Logout(ctx, "never-issued"))
	assert.NoError(t, f.svc.Logout(ctx, ""))
}

func TestLogoutAllRevokesOnlyThatUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	hank := mustRegister(t, f, "hank@example.com", "sudsy-pass-1")
	mustRegister(t, f, "iris@example.com", "sudsy-pass-2")

	h1, err := f.svc.Login(ctx, "hank@example.com", "sudsy-pass-1")
	require.NoError(t, err)
	h2, err := f.svc.Login(ctx, "hank@example.com", "sudsy-pass-1")
	require.NoError(t, err)
	i1, err := f.svc.Login(ctx, "iris@example.com", "sudsy-pass-2")
	require.NoError(t, err)

	require.NoError(t, f.svc.LogoutAll(ctx, hank.ID))

	_, err = f.svc.Refresh(ctx, h1.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	_, err = f.svc.Refresh(ctx, h2.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, i1.RefreshToken)
	assert.NoError(t, err, "other users' tokens must stay valid")
}

func TestGoogleLoginCreatesOnce(t *testing.T) {
	verifier := &fakeVerifier{profile: Profile{
		SubjectID: "google-sub-123",
		Email:     "Jay@Example.com",
		Name:      "Jay Doe",
		AvatarURL: "https://lh3.example/jay.png",
	}}
	f := newFixture(t, verifier)
	ctx := context.Background()

	first, err := f.svc.GoogleLogin(ctx, "assertion")
	require.NoError(t, err)
	assert.Equal(t, "jay@example.com", first.User.Email)
	assert.True(t, first.User.IsVerified, "google accounts are verified on creation")
	require.NotNil(t, first.User.AvatarURL)

	stored, err := f.users.FindByGoogleID(ctx, "google-sub-123")
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordHash)

	second, err := f.svc.GoogleLogin(ctx, "assertion")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID, "same subject id must resolve to the same account")
	assert.Len(t, f.users.users, 1, "no duplicate account creation")
}

func TestGoogleLoginLinksExistingPasswordAccount(t *testing.T) {
	verifier := &fakeVerifier{profile: Profile{
		SubjectID: "google-sub-456",
		Email:     "kate@example.com",
		Name:      "Kate",
		AvatarURL: "https://lh3.example/kate.png",
	}}
	f := newFixture(t, verifier)
	ctx := context.Background()

	view := mustRegister(t, f, "kate@example.com", "sudsy-pass-1")

	sess, err := f.svc.GoogleLogin(ctx, "assertion")
	require.NoError(t, err)
	assert.Equal(t, view.ID, sess.User.ID, "must link, not create")

	u, err := f.users.FindByID(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, u.GoogleID)
	assert.Equal(t, "google-sub-456", *u.GoogleID)
	assert.True(t, u.IsVerified)
	assert.NotNil(t, u.PasswordHash, "linking never clears the password hash")
	require.NotNil(t, u.AvatarURL)

	// Password login still works on the linked account.
	_, err = f.svc.Login(ctx, "kate@example.com", "sudsy-pass-1")
	assert.NoError(t, err)
}

func TestGoogleLoginNameFallback(t *testing.T) {
	for _, tc := range []struct {
		name  string
		email string
		want  string
	}{
		{"local part of the email", "lena.w@example.com", "lena.w"},
		{"whole email when no at sign", "opaque-handle", "opaque-handle"},
		{"whole email when at sign leads", "@oddball", "@oddball"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &fakeVerifier{profile: Profile{
				SubjectID: "google-sub-789",
				Email:     tc.email,
			}}
			f := newFixture(t, verifier)

			sess, err := f.svc.GoogleLogin(context.Background(), "assertion")
			require.NoError(t, err)
			assert.Equal(t, tc.want, sess.User.FullName)
		})
	}
}

// racingUserStore makes the first google-account Create lose a race: the
// configured rival row lands first and the create reports a duplicate, the
// same way the unique keys behave under concurrent requests.
type racingUserStore struct {
	*memUserStore
	rival NewUser
	raced bool
}

func (s *racingUserStore) Create(ctx context.Context, nu NewUser) (*model.User, error) {
	if !s.raced && nu.GoogleID != nil {
		s.raced = true
		if _, err := s.memUserStore.Create(ctx, s.rival); err != nil {
			return nil, err
		}
		return nil, ErrDuplicate
	}
	return s.memUserStore.Create(ctx, nu)
}

func TestGoogleLoginRaceAgainstPasswordRegistration(t *testing.T) {
	hash := "$argon2id$stand-in"
	users := &racingUserStore{
		memUserStore: newMemUserStore(),
		rival: NewUser{
			Email:        "raced@example.com",
			PasswordHash: &hash,
			FullName:     "Raced",
			Role:         model.RoleCustomer,
		},
	}
	tokens := newMemTokenStore()
	verifier := &fakeVerifier{profile: Profile{
		SubjectID: "google-sub-race",
		Email:     "raced@example.com",
		Name:      "Racer",
	}}
	svc := NewService(users, tokens, NewTokenIssuer("race-secret", 15, 30), verifier, nil)
	ctx := context.Background()

	sess, err := svc.GoogleLogin(ctx, "assertion")
	require.NoError(t, err, "losing the create race to a password registration must link, not fail")

	u, err := users.FindByID(ctx, sess.User.ID)
	require.NoError(t, err)
	require.NotNil(t, u.GoogleID)
	assert.Equal(t, "google-sub-race", *u.GoogleID)
	assert.NotNil(t, u.PasswordHash, "the rival's password hash survives the link")
	assert.True(t, u.IsVerified)
	assert.Len(t, users.users, 1, "no second account")
}

func TestGoogleLoginRaceAgainstSameSubject(t *testing.T) {
	subject := "google-sub-twin"
	users := &racingUserStore{
		memUserStore: newMemUserStore(),
		rival: NewUser{
			Email:      "twin@example.com",
			GoogleID:   &subject,
			FullName:   "Twin",
			Role:       model.RoleCustomer,
			IsVerified: true,
		},
	}
	verifier := &fakeVerifier{profile: Profile{
		SubjectID: subject,
		Email:     "twin@example.com",
		Name:      "Twin",
	}}
	svc := NewService(users, newMemTokenStore(), NewTokenIssuer("race-secret", 15, 30), verifier, nil)

	sess, err := svc.GoogleLogin(context.Background(), "assertion")
	require.NoError(t, err)
	assert.Len(t, users.users, 1)
	assert.Equal(t, "twin@example.com", sess.User.Email)
}

func TestGoogleLoginFailureKinds(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.svc.GoogleLogin(context.Background(), "assertion")
		assert.ErrorIs(t, err, apperrors.ErrGoogleNotEnabled)
	})

	t.Run("rejected assertion", func(t *testing.T) {
		f := newFixture(t, &fakeVerifier{err: ErrInvalidAssertion})
		_, err := f.svc.GoogleLogin(context.Background(), "garbage")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("assertion without email", func(t *testing.T) {
		f := newFixture(t, &fakeVerifier{profile: Profile{SubjectID: "sub-x"}})
		_, err := f.svc.GoogleLogin(context.Background(), "assertion")
		assert.ErrorIs(t, err, apperrors.ErrEmailMissing)
	})
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view := mustRegister(t, f, "mona@example.com", "original-pass")
	sess, err := f.svc.Login(ctx, "mona@example.com", "original-pass")
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, view.ID, "wrong-current", "next-pass-123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, f.svc.ChangePassword(ctx, view.ID, "original-pass", "next-pass-123"))

	_, err = f.svc.Login(ctx, "mona@example.com", "original-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "mona@example.com", "next-pass-123")
	assert.NoError(t, err)

	// Existing sessions survive a password change; sign-out-everywhere is an
	// explicit, separate call.
	_, err = f.svc.Refresh(ctx, sess.RefreshToken)
	assert.NoError(t, err)

	err = f.svc.ChangePassword(ctx, 9999, "x", "irrelevant-pass")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestChangePasswordOnGoogleOnlyAccount(t *testing.T) {
	verifier := &fakeVerifier{profile: Profile{
		SubjectID: "google-sub-aaa",
		Email:     "nick@example.com",
		Name:      "Nick",
	}}
	f := newFixture(t, verifier)
	ctx := context.Background()

	sess, err := f.svc.GoogleLogin(ctx, "assertion")
	require.NoError(t, err)

	// No current password exists, so none is required to set the first one.
	require.NoError(t, f.svc.ChangePassword(ctx, sess.User.ID, "", "first-pass-123"))

	_, err = f.svc.Login(ctx, "nick@example.com", "first-pass-123")
	assert.NoError(t, err)
}

func TestCleanupSweepRemovesOnlyTerminalRows(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view := mustRegister(t, f, "olga@example.com", "sudsy-pass-1")
	live, err := f.svc.Login(ctx, "olga@example.com", "sudsy-pass-1")
	require.NoError(t, err)
	revoked, err := f.svc.Login(ctx, "olga@example.com", "sudsy-pass-1")
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, revoked.RefreshToken))
	require.NoError(t, f.tokens.Create(ctx, view.ID, HashRefreshRaw("old"), time.Now().UTC().Add(-time.Minute)))

	n, err := f.tokens.DeleteExpiredOrRevoked(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = f.svc.Refresh(ctx, live.RefreshToken)
	assert.NoError(t, err, "live tokens must survive the sweep")
}

func TestPasswordHashNeverInViews(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	view := mustRegister(t, f, "pam@example.com", "sudsy-pass-1")
	u, err := f.users.FindByID(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, u.PasswordHash)
	assert.NotEqual(t, "sudsy-pass-1", *u.PasswordHash)
	assert.True(t, strings.HasPrefix(*u.PasswordHash, "$argon2id$"))
}
