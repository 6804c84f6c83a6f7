package state

import (
	"context"
	"errors"
	"sync"

	"LicenseKeyAdmin/internal/client"
	"LicenseKeyAdmin/internal/session"
	pkgerrors "LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
)

// State - синхронизированная пара коллекций бэкенда.
// Заменяется только целиком: частичное обновление одной коллекции
// при устаревшей второй недопустимо.
type State struct {
	Systems  []client.ActiveSystem
	Licenses []client.License
}

// Synchronizer выполняет координированную загрузку систем и лицензий.
// Новый цикл отменяет незавершенный предыдущий, поэтому применяются
// результаты не более чем одного цикла.
type Synchronizer struct {
	client  *client.AdminClient
	session *session.Session
	logger  logger.Logger

	mu         sync.Mutex
	state      *State
	cycle      uint64
	cancelPrev context.CancelFunc
}

// NewSynchronizer создает новый синхронизатор состояния
func NewSynchronizer(adminClient *client.AdminClient, sess *session.Session, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		client:  adminClient,
		session: sess,
		logger:  log,
	}
}

// State возвращает последнюю примененную пару коллекций.
// До первой успешной синхронизации возвращает nil.
func (s *Synchronizer) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// beginCycle отменяет предыдущий цикл и открывает новый
func (s *Synchronizer) beginCycle(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPrev != nil {
		s.cancelPrev()
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	s.cycle++

	return cycleCtx, cancel, s.cycle
}

// Sync выполняет один цикл синхронизации.
//
// Оба списочных запроса стартуют до ожидания любого из них, поэтому
// порядок прихода ответов не влияет на результат. Отказ 401 любого из
// запросов сбрасывает сессию ровно один раз и отбрасывает оба ответа.
// Отмена цикла (teardown или новый цикл) не является ошибкой: состояние
// не меняется, повтор не выполняется.
func (s *Synchronizer) Sync(ctx context.Context) (*State, error) {
	// Без учетных данных не выполняем ни одного сетевого вызова
	if !s.session.HasCredential() {
		s.logger.Warn("синхронизация без учетных данных отклонена")
		return nil, s.session.LoginRequired()
	}

	cycleCtx, cancel, cycle := s.beginCycle(ctx)
	defer cancel()

	var (
		wg           sync.WaitGroup
		systems      []client.ActiveSystem
		licenses     []client.License
		systemsErr   error
		licensesErr  error
		unauthorized sync.Once
		sessionErr   *pkgerrors.Error
	)

	// Отказ учетных данных обрабатываем ровно один раз и сразу
	// прерываем второй запрос цикла
	onUnauthorized := func() {
		unauthorized.Do(func() {
			sessionErr = s.session.OnUnauthorized()
			cancel()
		})
	}

	wg.Add(2)

	go func() {
		defer wg.Done()
		systems, systemsErr = s.client.ListSystems(cycleCtx)
		if isUnauthorized(systemsErr) {
			onUnauthorized()
		}
	}()

	go func() {
		defer wg.Done()
		licenses, licensesErr = s.client.ListLicenses(cycleCtx)
		if isUnauthorized(licensesErr) {
			onUnauthorized()
		}
	}()

	wg.Wait()

	// Сброшенная сессия отменяет оба ответа целиком
	if sessionErr != nil {
		return nil, sessionErr
	}

	// Отмена цикла - штатное завершение без изменения состояния
	if ctx.Err() != nil || cycleCtx.Err() != nil {
		s.logger.Debug("цикл синхронизации отменен", logger.Int64("cycle", int64(cycle)))
		return nil, context.Canceled
	}

	// Прочие сбои (транспорт, некорректное тело) оставляют предыдущее
	// состояние: устаревшие данные лучше поврежденных
	if systemsErr != nil {
		s.logger.Error("ошибка загрузки списка систем", logger.Error(systemsErr))
		return nil, systemsErr
	}
	if licensesErr != nil {
		s.logger.Error("ошибка загрузки списка лицензий", logger.Error(licensesErr))
		return nil, licensesErr
	}

	// Применяем пару атомарно и только если цикл не был вытеснен новым
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cycle != cycle {
		s.logger.Debug("результаты вытесненного цикла отброшены", logger.Int64("cycle", int64(cycle)))
		return nil, context.Canceled
	}

	newState := &State{
		Systems:  systems,
		Licenses: licenses,
	}
	s.state = newState

	s.logger.Info("состояние синхронизировано",
		logger.Int("systems", len(systems)),
		logger.Int("licenses", len(licenses)))

	return newState, nil
}

// isUnauthorized проверяет, является ли ошибка отказом учетных данных
func isUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == pkgerrors.ErrUnauthorized
}
