package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"horizonx-gauge/internal/config"
	"horizonx-gauge/internal/core/auth"
	"horizonx-gauge/internal/core/gauge"
	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"
	"horizonx-gauge/internal/storage/snapshot"
	"horizonx-gauge/internal/transport/websocket"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shoenig/test/must"
)

const (
	testSecret   = "test-secret"
	testEmail    = "admin@example.com"
	testPassword = "password123"
)

type memUsers struct {
	mu    sync.Mutex
	users []*domain.User
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, u)
	return nil
}

type fakeInstances struct {
	items map[uuid.UUID]*domain.Instance
}

func (f *fakeInstances) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult[*domain.Instance], error) {
	all, _ := f.All(ctx)
	return &domain.ListResult[*domain.Instance]{Data: all}, nil
}

func (f *fakeInstances) All(ctx context.Context) ([]*domain.Instance, error) {
	out := make([]*domain.Instance, 0, len(f.items))
	for _, i := range f.items {
		out = append(out, i)
	}
	return out, nil
}

func (f *fakeInstances) GetByID(ctx context.Context, id uuid.UUID) (*domain.Instance, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, domain.ErrInstanceNotFound
	}
	return i, nil
}

func (f *fakeInstances) Create(ctx context.Context, req domain.InstanceSaveRequest) (*domain.Instance, error) {
	i := &domain.Instance{ID: uuid.New(), Name: req.Name, Source: req.Source, MetricsURL: req.MetricsURL}
	f.items[i.ID] = i
	return i, nil
}

func (f *fakeInstances) Update(ctx context.Context, req domain.InstanceSaveRequest, id uuid.UUID) (*domain.Instance, error) {
	i, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	i.Name, i.Source, i.MetricsURL = req.Name, req.Source, req.MetricsURL
	return i, nil
}

func (f *fakeInstances) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrInstanceNotFound
	}
	delete(f.items, id)
	return nil
}

type staticSource struct{}

func (staticSource) Fetch(ctx context.Context, instance *domain.Instance) (*domain.MetricsSnapshot, error) {
	user0, user1 := 30.0, 20.0
	cores := 2
	return &domain.MetricsSnapshot{
		CPU: domain.CPUSnapshot{
			"cpu0": {"user": {{Value: &user0}}},
			"cpu1": {"user": {{Value: &user1}}},
		},
		CoreCount: &cores,
	}, nil
}

type staticResolver struct{}

func (staticResolver) For(*domain.Instance) (domain.MetricsSource, error) {
	return staticSource{}, nil
}

type testEnv struct {
	handler   http.Handler
	instances *fakeInstances
	store     *snapshot.GaugeStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{JWTSecret: testSecret, JWTExpiry: time.Hour, AllowedOrigins: []string{"http://localhost:5173"}}
	log := logger.Nop()

	instances := &fakeInstances{items: make(map[uuid.UUID]*domain.Instance)}
	gauges := gauge.NewService(staticResolver{}, gauge.Options{}, time.Minute, 2, log)
	store := snapshot.NewGaugeStore()

	authService := auth.NewService(&memUsers{}, cfg)
	must.NoError(t, authService.EnsureAdmin(context.Background(), testEmail, testPassword))

	hub := websocket.NewHub(context.Background(), log)
	t.Cleanup(hub.Stop)

	router := NewRouter(cfg, &RouterDeps{
		WS:       websocket.NewHandler(hub, cfg, log),
		Auth:     NewAuthHandler(authService, cfg),
		Instance: NewInstanceHandler(instances, log),
		Gauge:    NewGaugeHandler(gauges, instances, store, log),
	})

	return &testEnv{handler: router, instances: instances, store: store}
}

func (e *testEnv) do(t *testing.T, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authed {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": 1,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		must.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	must.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", false)
	must.Eq(t, http.StatusOK, rec.Code)
	must.Eq(t, "OK", rec.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/gauges", "", false)
	must.Eq(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/ws", "", false)
	must.Eq(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GaugesIndex(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/gauges", "", true)
	must.Eq(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	must.Eq(t, "[]", string(body.Data))
	must.Eq(t, `{"polled":false}`, string(body.Meta))

	env.store.Set([]domain.GaugeReading{})

	rec = env.do(t, http.MethodGet, "/gauges", "", true)
	body = decode(t, rec)
	must.Eq(t, "[]", string(body.Data))
	must.Eq(t, `{"polled":true}`, string(body.Meta))

	env.store.Set([]domain.GaugeReading{{Max: 100, Value: 7, Text: "7%"}})

	rec = env.do(t, http.MethodGet, "/gauges", "", true)
	var readings []domain.GaugeReading
	must.NoError(t, json.Unmarshal(decode(t, rec).Data, &readings))
	must.SliceLen(t, 1, readings)
	must.Eq(t, "7%", readings[0].Text)
}

func TestRouter_RefreshThenShowGauge(t *testing.T) {
	env := newTestEnv(t)

	id := uuid.New()
	env.instances.items[id] = &domain.Instance{ID: id, Name: "vm-1", Source: domain.SourceLocal}

	rec := env.do(t, http.MethodGet, "/instances/"+id.String()+"/cpu-gauge", "", true)
	must.Eq(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/instances/"+id.String()+"/cpu-gauge/refresh", "", true)
	must.Eq(t, http.StatusOK, rec.Code)

	var refreshed domain.GaugeReading
	must.NoError(t, json.Unmarshal(decode(t, rec).Data, &refreshed))
	must.Eq(t, 200, refreshed.Max)
	must.Eq(t, 50, refreshed.Value)
	must.Eq(t, "50%", refreshed.Text)
	must.Eq(t, "2 cores", refreshed.Subtitle)

	rec = env.do(t, http.MethodGet, "/instances/"+id.String()+"/cpu-gauge", "", true)
	must.Eq(t, http.StatusOK, rec.Code)

	var latest domain.GaugeReading
	must.NoError(t, json.Unmarshal(decode(t, rec).Data, &latest))
	must.Eq(t, "50%", latest.Text)
}

func TestRouter_RefreshUnknownInstance(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/instances/"+uuid.NewString()+"/cpu-gauge/refresh", "", true)
	must.Eq(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/instances/not-a-uuid/cpu-gauge/refresh", "", true)
	must.Eq(t, http.StatusNotFound, rec.Code)
}

func TestRouter_InstanceValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/instances", `{"name":"vm-1","source":"ftp"}`, true)
	must.Eq(t, http.StatusUnprocessableEntity, rec.Code)
	must.MapContainsKey(t, decode(t, rec).Errors, "source")

	rec = env.do(t, http.MethodPost, "/instances", `{"name":"vm-1","source":"http"}`, true)
	must.Eq(t, http.StatusUnprocessableEntity, rec.Code)
	must.MapContainsKey(t, decode(t, rec).Errors, "metrics_url")

	rec = env.do(t, http.MethodPost, "/instances", `{"name":"vm-1","source":"http","metrics_url":"https://metrics.example.com"}`, true)
	must.Eq(t, http.StatusCreated, rec.Code)
	must.MapLen(t, 1, env.instances.items)
}

func TestRouter_InstanceDestroy(t *testing.T) {
	env := newTestEnv(t)

	id := uuid.New()
	env.instances.items[id] = &domain.Instance{ID: id, Name: "vm-1", Source: domain.SourceLocal}

	rec := env.do(t, http.MethodDelete, "/instances/"+id.String(), "", true)
	must.Eq(t, http.StatusOK, rec.Code)
	must.MapEmpty(t, env.instances.items)

	rec = env.do(t, http.MethodDelete, "/instances/"+id.String(), "", true)
	must.Eq(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Login(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", `{"email":"`+testEmail+`","password":"`+testPassword+`"}`, false)
	must.Eq(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			cookie = c
		}
	}
	must.NotNil(t, cookie)
	must.NotEq(t, "", cookie.Value)
	must.True(t, cookie.HttpOnly)

	var res domain.AuthResponse
	must.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	must.Eq(t, cookie.Value, res.AccessToken)
	must.Eq(t, testEmail, res.User.Email)

	// the issued cookie authenticates protected routes
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	env.handler.ServeHTTP(me, req)
	must.Eq(t, http.StatusOK, me.Code)

	var user domain.User
	must.NoError(t, json.Unmarshal(decode(t, me).Data, &user))
	must.Eq(t, testEmail, user.Email)
}

func TestRouter_LoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", `{"email":"`+testEmail+`","password":"wrong-password"}`, false)
	must.Eq(t, http.StatusUnauthorized, rec.Code)
	must.SliceEmpty(t, rec.Result().Cookies())

	rec = env.do(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`, false)
	must.Eq(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_Logout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/logout", "", true)
	must.Eq(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	must.SliceLen(t, 1, cookies)
	must.Eq(t, "access_token", cookies[0].Name)
	must.Eq(t, "", cookies[0].Value)
	must.Less(t, 0, cookies[0].MaxAge)
}

func TestRouter_MeUnknownSubject(t *testing.T) {
	env := newTestEnv(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 99,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	must.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	must.Eq(t, http.StatusUnauthorized, rec.Code)
}
