package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials содержит сохраненные учетные данные сессии.
// Все три поля записываются и очищаются вместе.
type Credentials struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	UserData     json.RawMessage `json:"user_data,omitempty"`
}

// CredentialStore управляет долговременным хранением учетных данных
type CredentialStore interface {
	Save(creds *Credentials) error
	Load() (*Credentials, error)
	Has() bool
	Clear() error
}

// FileCredentialStore хранит учетные данные в файле в домашней директории
type FileCredentialStore struct {
	credentialsPath string
}

// NewFileCredentialStore создает новое файловое хранилище учетных данных
func NewFileCredentialStore() (*FileCredentialStore, error) {
	// Сначала проверяем переменную окружения
	home := os.Getenv("INVERA_HOME")
	if home == "" {
		// Если переменная не установлена, используем домашнюю директорию
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
	}

	// Создаем директорию если она не существует
	inveraDir := filepath.Join(home, ".invera")
	if err := os.MkdirAll(inveraDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", inveraDir, err)
	}

	return &FileCredentialStore{
		credentialsPath: filepath.Join(inveraDir, "credentials"),
	}, nil
}

// Save сохраняет учетные данные в файл
func (fs *FileCredentialStore) Save(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(fs.credentialsPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	return nil
}

// Load загружает учетные данные из файла
func (fs *FileCredentialStore) Load() (*Credentials, error) {
	if _, err := os.Stat(fs.credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("credentials file not found")
	}

	data, err := os.ReadFile(fs.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}

	return &creds, nil
}

// Has проверяет наличие сохраненных учетных данных
func (fs *FileCredentialStore) Has() bool {
	_, err := os.Stat(fs.credentialsPath)
	return !os.IsNotExist(err)
}

// Clear удаляет файл учетных данных
func (fs *FileCredentialStore) Clear() error {
	if err := os.Remove(fs.credentialsPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
