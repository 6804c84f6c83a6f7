package session

import (
	"LicenseKeyAdmin/internal/store"
	"LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
)

// Session управляет учетными данными текущей сессии оператора.
// Наличие непустого токена в хранилище - единственный локальный признак
// аутентификации; срок жизни и подпись токена проверяет только бэкенд.
type Session struct {
	store  store.Store
	logger logger.Logger
}

// NewSession создает новую сессию поверх хранилища токена
func NewSession(tokenStore store.Store, log logger.Logger) *Session {
	return &Session{
		store:  tokenStore,
		logger: log,
	}
}

// HasCredential проверяет наличие учетных данных
func (s *Session) HasCredential() bool {
	return s.store.Has()
}

// Token возвращает текущий bearer токен или пустую строку
func (s *Session) Token() string {
	return s.store.AccessToken()
}

// Establish сохраняет учетные данные после успешного входа
func (s *Session) Establish(credential *store.Credential) error {
	if credential == nil || credential.AccessToken == "" {
		return errors.New(errors.ErrValidation, "пустой токен не может быть сохранен")
	}

	if err := s.store.Save(credential); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "ошибка сохранения учетных данных")
	}

	s.logger.Info("сессия установлена", logger.String("username", credential.Username))
	return nil
}

// OnUnauthorized сбрасывает учетные данные после отказа бэкенда (401).
// Повторный вызов безопасен. Возвращает ошибку-сигнал перехода к входу.
func (s *Session) OnUnauthorized() *errors.Error {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("ошибка сброса учетных данных", logger.Error(err))
	} else {
		s.logger.Warn("бэкенд отклонил учетные данные, сессия сброшена")
	}

	return s.LoginRequired()
}

// Logout сбрасывает учетные данные безусловно
func (s *Session) Logout() error {
	if err := s.store.Clear(); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "ошибка удаления учетных данных")
	}

	s.logger.Info("выход выполнен, учетные данные удалены")
	return nil
}

// LoginRequired возвращает ошибку-сигнал о необходимости входа.
// Это CLI-эквивалент перенаправления на страницу входа.
func (s *Session) LoginRequired() *errors.Error {
	return errors.New(errors.ErrUnauthorized, "требуется вход: выполните `lkadmin auth login`")
}
