package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Profile(ctx context.Context) (*entity.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAPI) ActivateSeller(ctx context.Context, req dto.ActivateSellerRequest) error {
	return m.Called(ctx, req).Error(0)
}

func newSession(store TokenStore, api *mockAPI) (*Session, *[]string) {
	var mu sync.Mutex
	tokens := &[]string{}
	s := New(store, func(tok string) API {
		mu.Lock()
		*tokens = append(*tokens, tok)
		mu.Unlock()
		return api
	})
	return s, tokens
}

func TestBootstrap_RejectedTokenSignsOut(t *testing.T) {
	store := NewMemoryStore("stale-token")
	api := &mockAPI{}
	api.On("Profile", mock.Anything).Return(nil, apperror.Upstream(http.StatusUnauthorized, "Token tidak valid"))
	s, _ := newSession(store, api)

	err := s.Bootstrap(context.Background())

	require.NoError(t, err)
	assert.Nil(t, s.State().User)
	assert.False(t, s.State().Loading)
	tok, _ := store.Load()
	assert.Empty(t, tok)
	api.AssertExpectations(t)
}

func TestBootstrap_LoadsProfile(t *testing.T) {
	store := NewMemoryStore("good")
	api := &mockAPI{}
	api.On("Profile", mock.Anything).Return(&entity.User{ID: "u-1", FullName: "Budi"}, nil)
	s, tokens := newSession(store, api)

	var states []State
	s.Subscribe(func(st State) { states = append(states, st) })

	require.NoError(t, s.Bootstrap(context.Background()))

	require.NotNil(t, s.User())
	assert.Equal(t, "u-1", s.User().ID)
	assert.Equal(t, []string{"good"}, *tokens)
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
}

func TestBootstrap_NoToken(t *testing.T) {
	api := &mockAPI{}
	s, tokens := newSession(NewMemoryStore(""), api)

	require.NoError(t, s.Bootstrap(context.Background()))

	assert.Nil(t, s.User())
	assert.Empty(t, *tokens)
	api.AssertNotCalled(t, "Profile", mock.Anything)
}

func TestBootstrap_ExpiredJWTDroppedWithoutNetwork(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)

	store := NewMemoryStore(raw)
	api := &mockAPI{}
	s, _ := newSession(store, api)

	require.NoError(t, s.Bootstrap(context.Background()))

	assert.Nil(t, s.User())
	tok, _ := store.Load()
	assert.Empty(t, tok)
	api.AssertNotCalled(t, "Profile", mock.Anything)
}

func TestRefresh_NetworkFailureKeepsToken(t *testing.T) {
	store := NewMemoryStore("tok")
	api := &mockAPI{}
	api.On("Profile", mock.Anything).Return(nil, apperror.Wrap(errors.New("dial tcp"), apperror.ErrCodeUpstreamUnavailable, "offline")).Once()
	api.On("Profile", mock.Anything).Return(&entity.User{ID: "u-1"}, nil).Once()
	s, _ := newSession(store, api)

	err := s.Bootstrap(context.Background())
	assert.True(t, apperror.IsUnavailable(err))
	assert.Nil(t, s.User())
	assert.False(t, s.State().Loading)
	tok, _ := store.Load()
	assert.Equal(t, "tok", tok)

	require.NoError(t, s.Resume(context.Background()))
	require.NotNil(t, s.User())
	assert.Equal(t, "u-1", s.User().ID)

	// профиль уже есть, повторный Resume ничего не делает
	require.NoError(t, s.Resume(context.Background()))
	api.AssertNumberOfCalls(t, "Profile", 2)
}

type blockingAPI struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingAPI) Profile(ctx context.Context) (*entity.User, error) {
	b.calls.Add(1)
	<-b.release
	return &entity.User{ID: "u-1"}, nil
}
func (b *blockingAPI) Logout(context.Context) error { return nil }
func (b *blockingAPI) ActivateSeller(context.Context, dto.ActivateSellerRequest) error { return nil }

func TestRefresh_SingleProfileFetchInFlight(t *testing.T) {
	api := &blockingAPI{release: make(chan struct{})}
	s := New(NewMemoryStore("tok"), func(string) API { return api })

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Refresh(context.Background()))
		}()
	}
	require.Eventually(t, func() bool { return api.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(api.release)
	wg.Wait()

	assert.LessOrEqual(t, api.calls.Load(), int32(5))
	assert.Equal(t, "u-1", s.User().ID)
}

// tokenAPI отдаёт профиль владельца токена; запрос со старым токеном ждёт release.
type tokenAPI struct {
	token   string
	started chan struct{}
	release chan struct{}
}

func (a *tokenAPI) Profile(context.Context) (*entity.User, error) {
	if a.token == "old" {
		close(a.started)
		<-a.release
	}
	return &entity.User{ID: "user-of-" + a.token}, nil
}
func (a *tokenAPI) Logout(context.Context) error { return nil }
func (a *tokenAPI) ActivateSeller(context.Context, dto.ActivateSellerRequest) error { return nil }

func TestRefresh_TokenChangedDuringFetchLoadsNewUser(t *testing.T) {
	store := NewMemoryStore("old")
	started, release := make(chan struct{}), make(chan struct{})
	s := New(store, func(tok string) API {
		return &tokenAPI{token: tok, started: started, release: release}
	})

	done := make(chan error, 1)
	go func() { done <- s.Bootstrap(context.Background()) }()

	<-started
	store.SetExternal("new")
	close(release)
	require.NoError(t, <-done)

	tok, _ := store.Load()
	assert.Equal(t, "new", tok)
	require.NotNil(t, s.User())
	assert.Equal(t, "user-of-new", s.User().ID)
}

func TestLogout_AlwaysClearsLocalState(t *testing.T) {
	store := NewMemoryStore("tok")
	api := &mockAPI{}
	api.On("Profile", mock.Anything).Return(&entity.User{ID: "u-1"}, nil)
	api.On("Logout", mock.Anything).Return(errors.New("server down"))
	s, _ := newSession(store, api)
	require.NoError(t, s.Bootstrap(context.Background()))

	require.NoError(t, s.Logout(context.Background()))

	assert.Nil(t, s.User())
	tok, _ := store.Load()
	assert.Empty(t, tok)
	api.AssertCalled(t, "Logout", mock.Anything)
}

func TestSignIn_SavesTokenAndLoadsProfile(t *testing.T) {
	store := NewMemoryStore("")
	api := &mockAPI{}
	api.On("Profile", mock.Anything).Return(&entity.User{ID: "u-2"}, nil)
	s, tokens := newSession(store, api)

	require.NoError(t, s.SignIn(context.Background(), "fresh"))

	assert.Equal(t, "u-2", s.User().ID)
	assert.Equal(t, []string{"fresh"}, *tokens)
}

func TestActivateSeller_ValidatesBeforeCall(t *testing.T) {
	api := &mockAPI{}
	s, _ := newSession(NewMemoryStore("tok"), api)

	err := s.ActivateSeller(context.Background(), dto.ActivateSellerRequest{PhoneNumber: "123", Bio: "pendek"})

	assert.True(t, apperror.IsValidation(err))
	api.AssertNotCalled(t, "ActivateSeller", mock.Anything, mock.Anything)
}

func TestActivateSeller_RefreshesProfile(t *testing.T) {
	api := &mockAPI{}
	req := dto.ActivateSellerRequest{PhoneNumber: "081234567890", Bio: "Desainer grafis berpengalaman"}
	api.On("ActivateSeller", mock.Anything, req).Return(nil)
	api.On("Profile", mock.Anything).Return(&entity.User{ID: "u-1", IsSeller: true}, nil)
	s, _ := newSession(NewMemoryStore("tok"), api)

	require.NoError(t, s.ActivateSeller(context.Background(), req))

	assert.True(t, s.User().IsSeller)
}

func TestRun_ReactsToExternalTokenChange(t *testing.T) {
	store := NewMemoryStore("")
	api := &mockAPI{}
	api.On("Profile", mock.Anything).Return(&entity.User{ID: "u-9"}, nil)
	s, _ := newSession(store, api)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		store.SetExternal("from-other-process")
		return s.User() != nil
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "u-9", s.User().ID)

	cancel()
	<-done
}
