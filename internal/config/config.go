package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config представляет конфигурацию CLI
type Config struct {
	// API настройки
	API struct {
		BaseURL string `yaml:"base_url" json:"base_url"`
		Timeout int    `yaml:"timeout" json:"timeout"`
	} `yaml:"api" json:"api"`

	// Хранилище учетных данных
	Storage struct {
		Backend       string `yaml:"backend" json:"backend"` // file, redis
		RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
		RedisPassword string `yaml:"redis_password" json:"redis_password"`
		RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	} `yaml:"storage" json:"storage"`

	// Настройки вывода
	Output struct {
		Format string `yaml:"format" json:"format"` // table, json, yaml
	} `yaml:"output" json:"output"`

	// Логирование
	Log struct {
		Environment string `yaml:"environment" json:"environment"` // dev, prod
		Level       string `yaml:"level" json:"level"`
	} `yaml:"log" json:"log"`

	// Путь к файлу конфигурации
	Path string `yaml:"-" json:"-"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	config := &Config{}

	config.API.BaseURL = "http://localhost:8000/api"
	config.API.Timeout = 30

	config.Storage.Backend = "file"
	config.Storage.RedisAddr = "localhost:6379"
	config.Storage.RedisDB = 0

	config.Output.Format = "table"

	config.Log.Environment = "dev"
	config.Log.Level = "warn"

	return config
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	config.Path = path

	// Если файл не существует, возвращаем конфигурацию по умолчанию
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save сохраняет конфигурацию в файл
func (c *Config) Save() error {
	if c.Path == "" {
		return fmt.Errorf("config file path is not set")
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(c.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath возвращает путь к файлу конфигурации
func GetConfigPath() (string, error) {
	home := os.Getenv("INVERA_HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
	}

	return filepath.Join(home, ".invera", "config.yaml"), nil
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	switch c.Storage.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	validFormats := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("unknown output format: %s", c.Output.Format)
	}

	return nil
}
