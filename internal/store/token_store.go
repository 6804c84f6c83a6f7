package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Credential содержит сохраненный bearer токен оператора
type Credential struct {
	AccessToken string    `json:"access_token"`
	Username    string    `json:"username,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

// Store определяет интерфейс хранилища токена.
// В системе хранится не более одного токена под одним известным именем.
type Store interface {
	Save(credential *Credential) error
	Load() (*Credential, error)
	Has() bool
	Clear() error
	AccessToken() string
}

// TokenStore хранит токен в файле
type TokenStore struct {
	tokenPath string
}

// NewTokenStore создает новое файловое хранилище токена
func NewTokenStore() (*TokenStore, error) {
	// Сначала проверяем переменную окружения
	home := os.Getenv("LKADMIN_HOME")
	if home == "" {
		// Если переменная не установлена, используем домашнюю директорию
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("ошибка получения домашней директории: %w", err)
		}
	}

	// Создаем директорию если она не существует
	adminDir := filepath.Join(home, ".lkadmin")
	if err := os.MkdirAll(adminDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", adminDir, err)
	}

	return &TokenStore{
		tokenPath: filepath.Join(adminDir, "token"),
	}, nil
}

// Save сохраняет токен в файл
func (ts *TokenStore) Save(credential *Credential) error {
	// Сериализуем токен
	data, err := json.MarshalIndent(credential, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации токена: %w", err)
	}

	// Сохраняем в файл с правами только для владельца
	if err := os.WriteFile(ts.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	return nil
}

// Load загружает токен из файла
func (ts *TokenStore) Load() (*Credential, error) {
	// Проверяем существует ли файл
	if _, err := os.Stat(ts.tokenPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("файл токена не найден")
	}

	// Читаем данные
	data, err := os.ReadFile(ts.tokenPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла токена: %w", err)
	}

	// Десериализуем токен
	var credential Credential
	if err := json.Unmarshal(data, &credential); err != nil {
		return nil, fmt.Errorf("ошибка десериализации токена: %w", err)
	}

	return &credential, nil
}

// Has проверяет наличие токена
func (ts *TokenStore) Has() bool {
	credential, err := ts.Load()
	return err == nil && credential.AccessToken != ""
}

// Clear удаляет файл токена
func (ts *TokenStore) Clear() error {
	if err := os.Remove(ts.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла токена: %w", err)
	}
	return nil
}

// AccessToken возвращает access токен
func (ts *TokenStore) AccessToken() string {
	if credential, err := ts.Load(); err == nil {
		return credential.AccessToken
	}
	return ""
}
