package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Abdulrehman1203/invera-tech-store/internal/api"
	"github.com/Abdulrehman1203/invera-tech-store/internal/store"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/logger"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/validation"
)

// State представляет состояние сессии
type State int

// Состояния сессии: Uninitialized → Loading → {Authenticated, Anonymous};
// Authenticated ⇄ Anonymous через Login/Logout.
const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

// Result представляет исход операции входа или регистрации.
// Операции никогда не возвращают транспортную ошибку наружу:
// любая неудача сводится к человекочитаемому сообщению.
type Result struct {
	Success bool
	Message string
}

// AuthAPI описывает используемую часть API клиента
type AuthAPI interface {
	ObtainToken(ctx context.Context, login, password string) (*api.TokenResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
}

// Store владеет идентичностью пользователя и сохраненными учетными данными.
// Остальные компоненты только читают состояние через Current и State.
type Store struct {
	mu          sync.Mutex
	restoreOnce sync.Once

	creds     store.CredentialStore
	authAPI   AuthAPI
	logger    logger.Logger
	validator *validation.Validator

	state    State
	identity *api.UserProfile
}

// NewStore создает новое хранилище сессии
func NewStore(creds store.CredentialStore, authAPI AuthAPI, log logger.Logger) *Store {
	return &Store{
		creds:     creds,
		authAPI:   authAPI,
		logger:    log,
		validator: validation.NewValidator(),
		state:     StateUninitialized,
	}
}

// RegisterFields представляет поля формы регистрации
type RegisterFields struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Restore восстанавливает сессию из сохраненных учетных данных.
// Выполняется ровно один раз за время жизни процесса; повторные вызовы
// не имеют эффекта. Никогда не возвращает ошибку: испорченные данные
// идентичности деградируют до минимального маркера аутентификации.
func (s *Store) Restore() {
	s.restoreOnce.Do(func() {
		s.mu.Lock()
		s.state = StateLoading
		s.mu.Unlock()

		creds, err := s.creds.Load()

		s.mu.Lock()
		defer s.mu.Unlock()

		if err != nil || creds.AccessToken == "" {
			s.logger.Debug("сохраненная сессия не найдена")
			s.state = StateAnonymous
			s.identity = nil
			return
		}

		var profile api.UserProfile
		if len(creds.UserData) > 0 && json.Unmarshal(creds.UserData, &profile) == nil {
			s.identity = &profile
		} else {
			// Токен есть, но идентичность не разобралась
			s.logger.Warn("не удалось разобрать сохраненную идентичность, используется минимальный маркер")
			s.identity = &api.UserProfile{IsAuthenticated: true}
		}

		s.state = StateAuthenticated
		s.logger.Info("сессия восстановлена",
			logger.String("username", s.identity.Username))
	})
}

// Login выполняет вход пользователя.
// При неудаче сообщение извлекается из тела ответа в порядке приоритета:
// detail → non_field_errors[0] → "Invalid credentials". Сохраненные
// токены при неудаче не изменяются.
func (s *Store) Login(ctx context.Context, login, password string) Result {
	if err := s.validator.ValidateRequiredFields(map[string]interface{}{
		"login":    login,
		"password": password,
	}); err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	s.logger.Info("попытка входа пользователя", logger.String("login", login))

	resp, err := s.authAPI.ObtainToken(ctx, login, password)
	if err != nil {
		message := api.ExtractMessage(err,
			[]string{"detail", "non_field_errors"}, false, "Invalid credentials")
		s.logger.Warn("неудачная попытка входа",
			logger.String("login", login),
			logger.String("message", message))
		return Result{Success: false, Message: message}
	}

	identity := resp.User
	if identity == nil {
		// Сервер не вернул данные пользователя
		identity = &api.UserProfile{IsAuthenticated: true}
	}

	userData, err := json.Marshal(identity)
	if err != nil {
		return Result{Success: false, Message: "Failed to store session"}
	}

	if err := s.creds.Save(&store.Credentials{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		UserData:     userData,
	}); err != nil {
		s.logger.Error("ошибка сохранения учетных данных", logger.Error(err))
		return Result{Success: false, Message: "Failed to store session"}
	}

	s.mu.Lock()
	s.identity = identity
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.logger.Info("вход выполнен успешно", logger.String("login", login))
	return Result{Success: true}
}

// Register создает новую учетную запись. Состояние сессии не меняется:
// после регистрации пользователь должен выполнить вход.
// Сообщение о неудаче выбирается в порядке приоритета: ошибка поля
// (username, email, password, confirm_password) → non_field_errors[0] →
// тело-строка → "Registration failed".
func (s *Store) Register(ctx context.Context, fields RegisterFields) Result {
	if err := s.validator.ValidateRequiredFields(map[string]interface{}{
		"username":         fields.Username,
		"email":            fields.Email,
		"password":         fields.Password,
		"confirm_password": fields.ConfirmPassword,
	}); err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	s.logger.Info("попытка регистрации пользователя",
		logger.String("username", fields.Username),
		logger.String("email", fields.Email))

	err := s.authAPI.Register(ctx, api.RegisterRequest{
		Username:        fields.Username,
		Email:           fields.Email,
		Password:        fields.Password,
		ConfirmPassword: fields.ConfirmPassword,
	})
	if err != nil {
		message := api.ExtractMessage(err,
			[]string{"username", "email", "password", "confirm_password", "non_field_errors"},
			true, "Registration failed")
		s.logger.Warn("неудачная попытка регистрации",
			logger.String("username", fields.Username),
			logger.String("message", message))
		return Result{Success: false, Message: message}
	}

	s.logger.Info("регистрация выполнена успешно",
		logger.String("username", fields.Username))
	return Result{Success: true}
}

// Logout синхронно очищает учетные данные и идентичность без сетевого вызова
func (s *Store) Logout() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Error("ошибка удаления учетных данных", logger.Error(err))
	}

	s.mu.Lock()
	s.identity = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	s.logger.Info("выход выполнен успешно")
}

// Current возвращает копию идентичности текущего пользователя или nil
func (s *Store) Current() *api.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// State возвращает текущее состояние сессии
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsLoading сообщает, идет ли начальное восстановление сессии
func (s *Store) IsLoading() bool {
	return s.State() == StateLoading
}

// AccessToken возвращает сохраненный access токен или пустую строку.
// Используется как TokenProvider для API клиента.
func (s *Store) AccessToken() string {
	creds, err := s.creds.Load()
	if err != nil {
		return ""
	}
	return creds.AccessToken
}
