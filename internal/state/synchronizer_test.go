package state

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LicenseKeyAdmin/internal/client"
	"LicenseKeyAdmin/internal/session"
	"LicenseKeyAdmin/internal/store"
	pkgerrors "LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
	"LicenseKeyAdmin/pkg/metrics"
)

// countingStore — хранилище токена в памяти со счетчиком сбросов
type countingStore struct {
	mu         sync.Mutex
	credential *store.Credential
	clearCalls int
}

func (m *countingStore) Save(c *store.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = c
	return nil
}

func (m *countingStore) Load() (*store.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.credential == nil {
		return nil, assert.AnError
	}
	return m.credential, nil
}

func (m *countingStore) Has() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential != nil && m.credential.AccessToken != ""
}

func (m *countingStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = nil
	m.clearCalls++
	return nil
}

func (m *countingStore) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.credential == nil {
		return ""
	}
	return m.credential.AccessToken
}

func (m *countingStore) ClearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}

// fakeBackend — тестовый бэкенд лицензий с управляемыми ответами
type fakeBackend struct {
	server *httptest.Server

	requests      atomic.Int64
	systemsBody   atomic.Value // string
	licensesBody  atomic.Value // string
	systemsStatus atomic.Int64
	licensesStat  atomic.Int64

	// Открытый канал блокирует обработку запросов до закрытия
	holdMu sync.Mutex
	hold   chan struct{}
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{}
	fb.systemsBody.Store(`[{"id":1,"system_name":"Inventory"}]`)
	fb.licensesBody.Store(`[{"license_key":"KEY-1","active_system":"Inventory","create_at":"2026-01-10","ip_limit":null}]`)
	fb.systemsStatus.Store(http.StatusOK)
	fb.licensesStat.Store(http.StatusOK)

	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.requests.Add(1)

		fb.holdMu.Lock()
		hold := fb.hold
		fb.holdMu.Unlock()
		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		switch r.URL.Path {
		case "/active_system":
			w.WriteHeader(int(fb.systemsStatus.Load()))
			w.Write([]byte(fb.systemsBody.Load().(string)))
		case "/licenses":
			w.WriteHeader(int(fb.licensesStat.Load()))
			w.Write([]byte(fb.licensesBody.Load().(string)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fb.server.Close)

	return fb
}

func (fb *fakeBackend) holdRequests() chan struct{} {
	fb.holdMu.Lock()
	defer fb.holdMu.Unlock()
	fb.hold = make(chan struct{})
	return fb.hold
}

func (fb *fakeBackend) releaseRequests() {
	fb.holdMu.Lock()
	defer fb.holdMu.Unlock()
	if fb.hold != nil {
		close(fb.hold)
		fb.hold = nil
	}
}

func newTestSynchronizer(t *testing.T, fb *fakeBackend, withCredential bool) (*Synchronizer, *countingStore) {
	t.Helper()

	ms := &countingStore{}
	if withCredential {
		ms.credential = &store.Credential{AccessToken: "tok"}
	}

	sess := session.NewSession(ms, logger.NewNopLogger())
	gw := client.NewGateway(fb.server.URL, 5*time.Second, sess, metrics.NewMetrics("lkadmin_test"), logger.NewNopLogger())
	admin := client.NewAdminClient(gw, logger.NewNopLogger())

	return NewSynchronizer(admin, sess, logger.NewNopLogger()), ms
}

func TestSynchronizer_Sync_NoCredential(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newTestSynchronizer(t, fb, false)

	_, err := s.Sync(context.Background())
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, pkgerrors.ErrUnauthorized, typed.Code)

	// Без учетных данных не выполняется ни одного сетевого вызова
	assert.Equal(t, int64(0), fb.requests.Load())
	assert.Nil(t, s.State())
}

func TestSynchronizer_Sync_Success(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newTestSynchronizer(t, fb, true)

	st, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)

	require.Len(t, st.Systems, 1)
	assert.Equal(t, "Inventory", st.Systems[0].SystemName)
	require.Len(t, st.Licenses, 1)
	assert.Equal(t, "KEY-1", st.Licenses[0].LicenseKey)

	// Оба запроса цикла выполнены
	assert.Equal(t, int64(2), fb.requests.Load())
	assert.Equal(t, st, s.State())
}

func TestSynchronizer_Sync_UnauthorizedLicenses(t *testing.T) {
	fb := newFakeBackend(t)
	fb.licensesStat.Store(http.StatusUnauthorized)
	fb.licensesBody.Store(`{"detail":"Could not validate credentials"}`)

	s, ms := newTestSynchronizer(t, fb, true)

	_, err := s.Sync(context.Background())
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, pkgerrors.ErrUnauthorized, typed.Code)

	// Оба ответа отброшены, учетные данные сброшены ровно один раз
	assert.Nil(t, s.State())
	assert.Equal(t, 1, ms.ClearCalls())
	assert.False(t, ms.Has())
}

func TestSynchronizer_Sync_UnauthorizedBoth(t *testing.T) {
	fb := newFakeBackend(t)
	fb.systemsStatus.Store(http.StatusUnauthorized)
	fb.systemsBody.Store(`{"detail":"Could not validate credentials"}`)
	fb.licensesStat.Store(http.StatusUnauthorized)
	fb.licensesBody.Store(`{"detail":"Could not validate credentials"}`)

	s, ms := newTestSynchronizer(t, fb, true)

	_, err := s.Sync(context.Background())
	require.Error(t, err)

	// Даже при отказе обоих запросов сессия сбрасывается один раз
	assert.Equal(t, 1, ms.ClearCalls())
	assert.Nil(t, s.State())
}

func TestSynchronizer_Sync_PartialFailureKeepsPreviousState(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newTestSynchronizer(t, fb, true)

	prev, err := s.Sync(context.Background())
	require.NoError(t, err)

	// Следующий цикл ломается на декодировании лицензий
	fb.licensesBody.Store("не json")

	_, err = s.Sync(context.Background())
	require.Error(t, err)

	// Предыдущая пара остается нетронутой
	assert.Equal(t, prev, s.State())
}

func TestSynchronizer_Sync_CanceledContext(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newTestSynchronizer(t, fb, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Sync(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, s.State())
}

func TestSynchronizer_Sync_NewCycleSupersedesPrevious(t *testing.T) {
	fb := newFakeBackend(t)
	s, _ := newTestSynchronizer(t, fb, true)

	// Первый цикл зависает на бэкенде
	fb.holdRequests()

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Sync(context.Background())
		firstDone <- err
	}()

	// Дожидаемся, пока оба запроса первого цикла дойдут до бэкенда
	require.Eventually(t, func() bool {
		return fb.requests.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	// Отпускаем бэкенд, когда запросы второго цикла дойдут до него.
	// К этому моменту первый цикл уже отменен и его запросы прерваны.
	go func() {
		deadline := time.After(2 * time.Second)
		for fb.requests.Load() < 4 {
			select {
			case <-deadline:
				fb.releaseRequests()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
		fb.releaseRequests()
	}()

	// Второй цикл вытесняет первый
	st, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)

	// Первый цикл завершается отменой без изменения состояния
	select {
	case firstErr := <-firstDone:
		assert.ErrorIs(t, firstErr, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("первый цикл не завершился")
	}

	assert.Equal(t, st, s.State())
}
