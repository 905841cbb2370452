package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-vitals/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-vitals/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-vitals/internal/config"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/services"
	"github.com/comitanigiacomo/kanso-vitals/internal/instrumentation"
)

const (
	testPassword = "correct-horse-battery"
	testSecret   = "handler-test-secret"
)

var (
	hashOnce sync.Once
	testHash string
)

func passwordHash(t *testing.T) string {
	hashOnce.Do(func() {
		h, err := services.HashPassword(testPassword)
		require.NoError(t, err)
		testHash = h
	})
	return testHash
}

type stubProvider struct {
	mu    sync.Mutex
	err   error
	steps int
	calls int
}

func (p *stubProvider) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	steps, kcal, meters := p.steps, 2300.4, 8123.0
	return &domain.DailySummary{TotalSteps: &steps, TotalKilocalories: &kcal, TotalDistanceMeters: &meters}, nil
}

func (p *stubProvider) SleepSummary(ctx context.Context, date time.Time) (*domain.SleepSummary, error) {
	return nil, nil
}

type stubQueue struct {
	accept bool
	jobs   []string
}

func (q *stubQueue) Enqueue(reason string) bool {
	if !q.accept {
		return false
	}
	q.jobs = append(q.jobs, reason)
	return true
}

type testApp struct {
	router   *gin.Engine
	repo     *repository.InMemorySnapshotRepository
	provider *stubProvider
	queue    *stubQueue
	tokens   *services.TokenService
	metrics  *instrumentation.Manager
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemorySnapshotRepository()
	store := services.NewSnapshotLock(repo)
	provider := &stubProvider{steps: 8000}
	queue := &stubQueue{accept: true}
	m, reg := instrumentation.NewTestManagerAndRegistry()

	start := time.Now().UTC().AddDate(0, 0, -2).Format(domain.DateLayout)
	syncSvc, err := services.NewSyncService(store, provider, m, start, time.UTC)
	require.NoError(t, err)

	tracker := services.NewTrackerService(store, m, time.UTC)
	tokens := services.NewTokenService(testSecret, "kanso-vitals-test", time.Hour)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(services.NewAuthService(passwordHash(t), tokens)),
		TrackerHandler:   adapterHTTP.NewTrackerHandler(tracker, config.Profile{Name: "Giacomo", Role: "Developer"}),
		AdminHandler:     adapterHTTP.NewAdminHandler(tracker, syncSvc, queue),
		DashboardHandler: adapterHTTP.NewDashboardHandler(services.NewDashboardService(repo, 2000, time.UTC)),
		TokenService:     tokens,
		Metrics:          m,
		Gatherer:         prometheus.Gatherer(reg),
		StartTime:        time.Now(),
	})

	return &testApp{
		router:   router,
		repo:     repo,
		provider: provider,
		queue:    queue,
		tokens:   tokens,
		metrics:  m,
	}
}

func (a *testApp) token(t *testing.T) string {
	t.Helper()
	token, err := a.tokens.GenerateToken(services.AdminSubject)
	require.NoError(t, err)
	return token
}

// do sends body as JSON when it is not a string; strings go out as form data.
func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req, _ = http.NewRequest(method, path, nil)
	case string:
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(b))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		req, _ = http.NewRequest(method, path, bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
