//go:build integration

package router

// End-to-end test against a real Redis snapshot backend via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v
//
// A first server instance takes an order through the kitchen; a second
// instance, started on the same backend, must come back with the same
// state and accept the same credentials.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paulinepos/internal/config"
	"paulinepos/internal/dto"
	"paulinepos/internal/infra"
	"paulinepos/internal/model"
	"paulinepos/internal/repository"
	"paulinepos/internal/store"
	"paulinepos/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, token string) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		buf = jsonBody(t, body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, srv.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Instance ─────────────────────────────────────────────────────────────────

type instance struct {
	server    *httptest.Server
	store     *store.Store
	persister *worker.Persister
	stop      func()
}

func startInstance(t *testing.T, cfg *config.Config) *instance {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	backend, err := repository.Open(ctx, cfg)
	require.NoError(t, err)
	require.True(t, backend.Remote)

	st := store.New(store.WithLocation(cfg.Location()))
	p := worker.NewPersister(backend.Repo, worker.PersisterConfig{
		Debounce: 10 * time.Millisecond,
		Breaker:  infra.NewCircuitBreaker(infra.DefaultCBConfig()),
	})
	detach := p.Attach(st)
	require.NoError(t, st.Hydrate(ctx, backend.Repo))

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	srv := httptest.NewServer(New(cfg, Deps{Store: st, Repo: backend.Repo, Persister: p}))
	inst := &instance{server: srv, store: st, persister: p}
	inst.stop = func() {
		srv.Close()
		cancel()
		require.NoError(t, <-done)
		require.NoError(t, p.Flush(context.Background()))
		detach()
		_ = backend.Close()
	}
	return inst
}

func TestE2E_StateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	rc, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Terminate(ctx) })

	url, err := rc.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		StorageBackend:     config.BackendRedis,
		StorageKey:         "pauline-e2e",
		RedisURL:           url,
		JWTSecret:          "e2e-secret-with-at-least-32-characters",
		JWTExpirationHours: 1,
		Timezone:           "Africa/Douala",
		Currency:           "FCFA",
		ReceiptStoragePath: t.TempDir(),
	}

	// ── First run ────────────────────────────────────────────────────────────
	first := startInstance(t, cfg)

	resp := do(t, first.server, http.MethodPost, "/v1/auth/register", dto.RegisterRequest{
		Firstname: "Awa", Lastname: "Mbarga", Email: "awa@pauline.cm", Password: "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var login dto.LoginResponse
	decodeJSON(t, resp, &login)
	token := login.AccessToken

	resp = do(t, first.server, http.MethodPost, "/v1/restaurants", dto.CreateRestaurantRequest{
		Name: "Chez Pauline", Specialty: "Camerounaise", Address: "Akwa", Demo: true,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rest model.Restaurant
	decodeJSON(t, resp, &rest)

	tables := first.store.TablesByRestaurant(rest.ID)
	products := first.store.AvailableProducts(rest.ID)
	require.NotEmpty(t, tables)
	require.NotEmpty(t, products)

	resp = do(t, first.server, http.MethodPost, "/v1/restaurants/"+string(rest.ID)+"/orders",
		dto.CreateOrderRequest{TableID: string(tables[0].ID)}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decodeJSON(t, resp, &order)

	resp = do(t, first.server, http.MethodPost, "/v1/orders/"+string(order.ID)+"/items",
		dto.AddItemRequest{ProductID: string(products[0].ID), Qty: 3}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, first.server, http.MethodPut, "/v1/orders/"+string(order.ID)+"/status",
		dto.SetStatusRequest{Status: "EN_PREPA"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// the background persister catches up without an explicit flush
	want := first.store.Snapshot().Revision
	require.Eventually(t, func() bool {
		st := first.persister.Status()
		return st.SavedRevision >= want && !st.Pending
	}, 10*time.Second, 20*time.Millisecond)

	first.stop()

	// ── Second run on the same backend ───────────────────────────────────────
	second := startInstance(t, cfg)
	defer second.stop()

	tb, ok := second.store.Table(tables[0].ID)
	require.True(t, ok)
	assert.Equal(t, model.TableEnService, tb.Status)

	got, ok := second.store.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusEnPrepa, got.Status)
	assert.Equal(t, 3*products[0].Price, got.Total())

	resp = do(t, second.server, http.MethodPost, "/v1/auth/login",
		dto.LoginRequest{Email: "awa@pauline.cm", Password: "secret1"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &login)

	resp = do(t, second.server, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, "redis", health["backend"])
}
