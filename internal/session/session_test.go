package session

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdulrehman1203/invera-tech-store/internal/api"
	"github.com/Abdulrehman1203/invera-tech-store/internal/store"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/logger"
)

// memoryCredentialStore хранит учетные данные в памяти для тестов
type memoryCredentialStore struct {
	creds   *store.Credentials
	loadErr error
	saveErr error
}

func (m *memoryCredentialStore) Save(creds *store.Credentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.creds = creds
	return nil
}

func (m *memoryCredentialStore) Load() (*store.Credentials, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.creds == nil {
		return nil, fmt.Errorf("credentials file not found")
	}
	return m.creds, nil
}

func (m *memoryCredentialStore) Has() bool {
	return m.creds != nil
}

func (m *memoryCredentialStore) Clear() error {
	m.creds = nil
	return nil
}

type fakeAuthAPI struct {
	tokenResp   *api.TokenResponse
	tokenErr    error
	registerErr error

	obtainCalls   int
	registerCalls int
}

func (f *fakeAuthAPI) ObtainToken(ctx context.Context, login, password string) (*api.TokenResponse, error) {
	f.obtainCalls++
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return f.tokenResp, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, req api.RegisterRequest) error {
	f.registerCalls++
	return f.registerErr
}

func statusError(code int, body string) *api.StatusError {
	return &api.StatusError{StatusCode: code, Body: []byte(body)}
}

func TestRestore(t *testing.T) {
	t.Run("no stored credentials", func(t *testing.T) {
		s := NewStore(&memoryCredentialStore{}, &fakeAuthAPI{}, logger.NewNop())
		s.Restore()

		assert.Equal(t, StateAnonymous, s.State())
		assert.Nil(t, s.Current())
	})

	t.Run("restores identity", func(t *testing.T) {
		userData, err := json.Marshal(&api.UserProfile{
			ID: 7, Username: "alice", Email: "alice@example.com",
		})
		require.NoError(t, err)

		creds := &memoryCredentialStore{creds: &store.Credentials{
			AccessToken:  "access",
			RefreshToken: "refresh",
			UserData:     userData,
		}}
		s := NewStore(creds, &fakeAuthAPI{}, logger.NewNop())
		s.Restore()

		assert.Equal(t, StateAuthenticated, s.State())
		identity := s.Current()
		require.NotNil(t, identity)
		assert.Equal(t, "alice", identity.Username)
	})

	t.Run("corrupted identity degrades to marker", func(t *testing.T) {
		creds := &memoryCredentialStore{creds: &store.Credentials{
			AccessToken: "access",
			UserData:    json.RawMessage(`{not valid json`),
		}}
		s := NewStore(creds, &fakeAuthAPI{}, logger.NewNop())
		s.Restore()

		assert.Equal(t, StateAuthenticated, s.State())
		identity := s.Current()
		require.NotNil(t, identity)
		assert.True(t, identity.IsAuthenticated)
		assert.Empty(t, identity.Username)
	})

	t.Run("empty access token means anonymous", func(t *testing.T) {
		creds := &memoryCredentialStore{creds: &store.Credentials{}}
		s := NewStore(creds, &fakeAuthAPI{}, logger.NewNop())
		s.Restore()

		assert.Equal(t, StateAnonymous, s.State())
	})

	t.Run("runs only once", func(t *testing.T) {
		creds := &memoryCredentialStore{}
		s := NewStore(creds, &fakeAuthAPI{}, logger.NewNop())
		s.Restore()

		// Появившиеся позже учетные данные не меняют состояние
		creds.creds = &store.Credentials{AccessToken: "late"}
		s.Restore()

		assert.Equal(t, StateAnonymous, s.State())
	})
}

func TestLogin(t *testing.T) {
	t.Run("success stores credentials and identity", func(t *testing.T) {
		creds := &memoryCredentialStore{}
		authAPI := &fakeAuthAPI{tokenResp: &api.TokenResponse{
			Access:  "access-token",
			Refresh: "refresh-token",
			User:    &api.UserProfile{ID: 1, Username: "bob", Email: "bob@example.com"},
		}}
		s := NewStore(creds, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "bob", "secret")

		assert.True(t, result.Success)
		assert.Equal(t, StateAuthenticated, s.State())
		assert.Equal(t, "bob", s.Current().Username)

		require.NotNil(t, creds.creds)
		assert.Equal(t, "access-token", creds.creds.AccessToken)
		assert.Equal(t, "refresh-token", creds.creds.RefreshToken)
		assert.Equal(t, "access-token", s.AccessToken())
	})

	t.Run("missing user payload falls back to marker", func(t *testing.T) {
		authAPI := &fakeAuthAPI{tokenResp: &api.TokenResponse{Access: "a", Refresh: "r"}}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "bob", "secret")

		assert.True(t, result.Success)
		identity := s.Current()
		require.NotNil(t, identity)
		assert.True(t, identity.IsAuthenticated)
	})

	t.Run("detail message has priority", func(t *testing.T) {
		authAPI := &fakeAuthAPI{tokenErr: statusError(401,
			`{"detail": "Account disabled", "non_field_errors": ["other"]}`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "bob", "secret")

		assert.False(t, result.Success)
		assert.Equal(t, "Account disabled", result.Message)
	})

	t.Run("non_field_errors message", func(t *testing.T) {
		authAPI := &fakeAuthAPI{tokenErr: statusError(400,
			`{"non_field_errors": ["Too many attempts", "second"]}`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "bob", "secret")

		assert.False(t, result.Success)
		assert.Equal(t, "Too many attempts", result.Message)
	})

	t.Run("fallback message", func(t *testing.T) {
		authAPI := &fakeAuthAPI{tokenErr: statusError(401, `{"code": "unknown_shape"}`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "bob", "wrong")

		assert.False(t, result.Success)
		assert.Equal(t, "Invalid credentials", result.Message)
	})

	t.Run("raw string body is not used", func(t *testing.T) {
		authAPI := &fakeAuthAPI{tokenErr: statusError(500, `"upstream exploded"`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "bob", "secret")

		assert.False(t, result.Success)
		assert.Equal(t, "Invalid credentials", result.Message)
	})

	t.Run("failure keeps stored credentials intact", func(t *testing.T) {
		creds := &memoryCredentialStore{creds: &store.Credentials{AccessToken: "old"}}
		authAPI := &fakeAuthAPI{tokenErr: statusError(401, `{"detail": "nope"}`)}
		s := NewStore(creds, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "bob", "wrong")

		assert.False(t, result.Success)
		assert.Equal(t, "old", creds.creds.AccessToken)
	})

	t.Run("empty fields fail before network call", func(t *testing.T) {
		authAPI := &fakeAuthAPI{}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Login(context.Background(), "", "")

		assert.False(t, result.Success)
		assert.Equal(t, 0, authAPI.obtainCalls)
	})
}

func TestRegister(t *testing.T) {
	fields := RegisterFields{
		Username:        "carol",
		Email:           "carol@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}

	t.Run("success does not change session state", func(t *testing.T) {
		s := NewStore(&memoryCredentialStore{}, &fakeAuthAPI{}, logger.NewNop())
		s.Restore()

		result := s.Register(context.Background(), fields)

		assert.True(t, result.Success)
		assert.Equal(t, StateAnonymous, s.State())
		assert.Nil(t, s.Current())
	})

	t.Run("field error has priority", func(t *testing.T) {
		authAPI := &fakeAuthAPI{registerErr: statusError(400,
			`{"username": ["Already taken"], "non_field_errors": ["other"]}`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Register(context.Background(), fields)

		assert.False(t, result.Success)
		assert.Equal(t, "Already taken", result.Message)
	})

	t.Run("email error when username is fine", func(t *testing.T) {
		authAPI := &fakeAuthAPI{registerErr: statusError(400,
			`{"email": ["Enter a valid email address."]}`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Register(context.Background(), fields)

		assert.False(t, result.Success)
		assert.Equal(t, "Enter a valid email address.", result.Message)
	})

	t.Run("raw string body is used", func(t *testing.T) {
		authAPI := &fakeAuthAPI{registerErr: statusError(500, `"registration closed"`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Register(context.Background(), fields)

		assert.False(t, result.Success)
		assert.Equal(t, "registration closed", result.Message)
	})

	t.Run("fallback message", func(t *testing.T) {
		authAPI := &fakeAuthAPI{registerErr: statusError(400, `{"weird": true}`)}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Register(context.Background(), fields)

		assert.False(t, result.Success)
		assert.Equal(t, "Registration failed", result.Message)
	})

	t.Run("empty fields fail before network call", func(t *testing.T) {
		authAPI := &fakeAuthAPI{}
		s := NewStore(&memoryCredentialStore{}, authAPI, logger.NewNop())

		result := s.Register(context.Background(), RegisterFields{Username: "carol"})

		assert.False(t, result.Success)
		assert.Equal(t, 0, authAPI.registerCalls)
	})
}

func TestLogout(t *testing.T) {
	userData, _ := json.Marshal(&api.UserProfile{Username: "dave"})
	creds := &memoryCredentialStore{creds: &store.Credentials{
		AccessToken: "access",
		UserData:    userData,
	}}
	s := NewStore(creds, &fakeAuthAPI{}, logger.NewNop())
	s.Restore()
	require.Equal(t, StateAuthenticated, s.State())

	s.Logout()

	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.Current())
	assert.False(t, creds.Has())
	assert.Empty(t, s.AccessToken())
}

func TestCurrentReturnsCopy(t *testing.T) {
	userData, _ := json.Marshal(&api.UserProfile{Username: "eve"})
	creds := &memoryCredentialStore{creds: &store.Credentials{
		AccessToken: "access",
		UserData:    userData,
	}}
	s := NewStore(creds, &fakeAuthAPI{}, logger.NewNop())
	s.Restore()

	first := s.Current()
	first.Username = "mallory"

	assert.Equal(t, "eve", s.Current().Username)
}
