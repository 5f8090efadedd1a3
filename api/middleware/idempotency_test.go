package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
)

type memoryStore map[string]string

func (m memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m[key]; ok {
		return false, nil
	}
	m[key], _ = value.(string)
	return true, nil
}

func (m memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m[key], _ = value.(string)
	return nil
}

func (m memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m, key)
	}
	return nil
}

func (m memoryStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

// hookStore runs onWrite once, after a Del or before a Set, so a test can send
// a retry in the gap between the handler finishing and the record landing.
type hookStore struct {
	memoryStore
	onWrite func()
}

func (h *hookStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	h.fire()
	return h.memoryStore.Set(ctx, key, value, ttl)
}

func (h *hookStore) Del(ctx context.Context, keys ...string) error {
	err := h.memoryStore.Del(ctx, keys...)
	h.fire()
	return err
}

func (h *hookStore) fire() {
	if fn := h.onWrite; fn != nil {
		h.onWrite = nil
		fn()
	}
}

func keyedRequest(method, path, body, key string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	return req
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestRouteTTL(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   time.Duration
		ok     bool
	}{
		{http.MethodPost, "/api/orders", criticalIdempotencyTTL, true},
		{http.MethodPost, "/api/orders/", criticalIdempotencyTTL, true},
		{http.MethodPatch, "/api/orders/{orderId}/status", criticalIdempotencyTTL, true},
		{http.MethodPatch, "/api/orders/456/cancel", criticalIdempotencyTTL, true},
		{http.MethodPost, "/api/ingredients/abc/add-stock", criticalIdempotencyTTL, true},
		{http.MethodPost, "/api/reviews", criticalIdempotencyTTL, true},
		{http.MethodPatch, "/api/orders/abc/rider", defaultIdempotencyTTL, true},
		{http.MethodPost, "/api/notifications/abc/read", defaultIdempotencyTTL, true},
		{http.MethodPost, "/api/notifications/read-all", defaultIdempotencyTTL, true},
		{http.MethodGet, "/api/orders", 0, false},
		{http.MethodPatch, "/api/inventory/abc", 0, false},
		{http.MethodPatch, "/api/orders/a/b/status", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ttl, ok := routeTTL(tt.method, tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, ttl)
		})
	}
}

func TestIdempotencyPassesThroughWithoutKey(t *testing.T) {
	store := memoryStore{}
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, keyedRequest(http.MethodPost, "/api/orders", `{"foo":"bar"}`, ""))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store)
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	store := memoryStore{}
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, keyedRequest(http.MethodPost, "/api/orders", `{"foo":"bar"}`, "abc"))
	require.Equal(t, http.StatusCreated, first.Code)

	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, keyedRequest(http.MethodPost, "/api/orders", `{"foo":"bar"}`, "abc"))
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "application/json", replay.Header().Get("Content-Type"))
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, `{"ok":true}`, replay.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyForgetsServerErrors(t *testing.T) {
	store := memoryStore{}
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), keyedRequest(http.MethodPatch, "/api/orders/1/status", `{"status":"approved"}`, "retry-me"))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store)
}

func TestIdempotencyRejectsChangedBody(t *testing.T) {
	store := memoryStore{}
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), keyedRequest(http.MethodPost, "/api/reviews", `{"rating":5}`, "xyz"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, keyedRequest(http.MethodPost, "/api/reviews", `{"rating":1}`, "xyz"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeIdempotency), errorCode(t, rec))
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	store := memoryStore{}
	var nested *httptest.ResponseRecorder
	var handler http.Handler
	handler = Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if nested == nil {
			nested = httptest.NewRecorder()
			handler.ServeHTTP(nested, keyedRequest(http.MethodPost, "/api/orders", `{"foo":"bar"}`, "dup"))
		}
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, keyedRequest(http.MethodPost, "/api/orders", `{"foo":"bar"}`, "dup"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, nested)
	assert.Equal(t, http.StatusConflict, nested.Code)
	assert.Equal(t, string(pkgerrors.CodeConflict), errorCode(t, nested))
}

func TestIdempotencyRetryWhileStoringRunsHandlerOnce(t *testing.T) {
	store := &hookStore{memoryStore: memoryStore{}}
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"stock":"12"}`))
	}))

	const path = "/api/ingredients/abc/add-stock"
	retry := httptest.NewRecorder()
	store.onWrite = func() {
		handler.ServeHTTP(retry, keyedRequest(http.MethodPost, path, `{"quantity":"2"}`, "restock-1"))
	}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, keyedRequest(http.MethodPost, path, `{"quantity":"2"}`, "restock-1"))
	require.Equal(t, http.StatusOK, first.Code)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusConflict, retry.Code)
	assert.Equal(t, string(pkgerrors.CodeConflict), errorCode(t, retry))

	replay := httptest.NewRecorder()
	handler.ServeHTTP(replay, keyedRequest(http.MethodPost, path, `{"quantity":"2"}`, "restock-1"))
	assert.Equal(t, http.StatusOK, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, `{"stock":"12"}`, replay.Body.String())
	assert.Equal(t, 1, calls)
}
