package usecase

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "pickleclub-backend/internal/auth/domain"
	authdto "pickleclub-backend/internal/auth/dto"
	"pickleclub-backend/internal/auth/repository"
	"pickleclub-backend/pkg/config"
)

// ==========================
// Mock Implementations
// ==========================

type fakeUserRepo struct {
	usersByID    map[string]*authdomain.User
	usersByEmail map[string]*authdomain.User
	refresh      map[string]*authdomain.RefreshToken

	findByIDCalls int
	updateCalls   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByID:    map[string]*authdomain.User{},
		usersByEmail: map[string]*authdomain.User{},
		refresh:      map[string]*authdomain.RefreshToken{},
	}
}

func (f *fakeUserRepo) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	copied := *user
	f.usersByID[user.ID] = &copied
	f.usersByEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	if u, ok := f.usersByEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	f.findByIDCalls++
	if u, ok := f.usersByID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(user *authdomain.User) error {
	f.updateCalls++
	copied := *user
	f.usersByID[user.ID] = &copied
	f.usersByEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	f.refresh[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return f.refresh[token], nil
}

func (f *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(f.refresh, token)
	return nil
}

func (f *fakeUserRepo) DeleteRefreshTokensByUser(userID string) error {
	for k, v := range f.refresh {
		if v.UserID == userID {
			delete(f.refresh, k)
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
		ProfileCacheTTL:  5 * time.Minute,
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo) *authdomain.User {
	t.Helper()
	hash, err := repository.HashPassword("correct horse")
	require.NoError(t, err)
	user := &authdomain.User{
		ID:        "user-1",
		Email:     "ana@example.com",
		Password:  hash,
		FirstName: "Ana",
		LastName:  "Reyes",
		Phone:     "+52 55 1234 5678",
	}
	require.NoError(t, repo.Create(user))
	return user
}

func cacheClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// ==========================
// Tests
// ==========================

func TestRegisterIssuesTokens(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, nil, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEmpty(t, resp.User.ID)

	validated, err := u.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, validated.ID)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, nil, testConfig())

	_, err := u.Register(&authdto.RegisterRequest{Email: "ana@example.com", Password: "pw"})
	assert.Error(t, err)
}

func TestLoginChecksPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, nil, testConfig())

	resp, err := u.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = u.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Error(t, err)

	_, err = u.Login(&authdto.LoginRequest{Email: "ghost@example.com", Password: "correct horse"})
	assert.Error(t, err)
}

func TestRefreshTokenRotates(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, nil, testConfig())

	login, err := u.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	refreshed, err := u.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshTokenUnknownRejected(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, nil, testConfig())

	login, err := u.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, u.Logout(login.RefreshToken))
	_, err = u.RefreshToken(login.RefreshToken)
	assert.Error(t, err)
}

func TestGetProfileReadThroughCache(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, cacheClient(t), testConfig())

	first, err := u.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.FirstName)
	dbReads := repo.findByIDCalls

	second, err := u.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, dbReads, repo.findByIDCalls)
}

func TestUpdateProfileInvalidatesCache(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, cacheClient(t), testConfig())

	_, err := u.GetProfile("user-1")
	require.NoError(t, err)

	newPhone := "+52 55 9999 0000"
	updated, err := u.UpdateProfile("user-1", &authdto.UpdateProfileRequest{Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, newPhone, updated.Phone)

	// The next read misses the cache and sees the new value.
	fresh, err := u.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, newPhone, fresh.Phone)
}

func TestUpdateProfilePartialUpdateKeepsOtherFields(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, nil, testConfig())

	first := "Anita"
	updated, err := u.UpdateProfile("user-1", &authdto.UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Anita", updated.FirstName)
	assert.Equal(t, "Reyes", updated.LastName)
	assert.Equal(t, "+52 55 1234 5678", updated.Phone)
}

func TestProfileComplete(t *testing.T) {
	user := authdomain.User{FirstName: "Ana", LastName: "Reyes", Phone: "+52 55 1234 5678"}
	assert.True(t, user.ProfileComplete())

	user.Phone = ""
	assert.False(t, user.ProfileComplete())
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	u := NewAuthUsecase(repo, nil, testConfig())

	other := NewAuthUsecase(repo, nil, &config.Config{
		JWTSecret:        "different-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	})
	login, err := other.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = u.ValidateToken(login.AccessToken)
	assert.Error(t, err)
}
