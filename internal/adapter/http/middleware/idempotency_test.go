package middleware_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/adapter/http/middleware/mocks"
)

const testTTL = 24 * time.Hour

func authedRequest(userID, method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/transfers", bytes.NewBufferString(body))
	identity := &middleware.Identity{UserID: userID, Email: userID + "@example.com"}
	return req.WithContext(context.WithValue(req.Context(), middleware.IdentityContextKey, identity))
}

func bodyDigest(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

func storedEntry(state, fingerprint, responseBody string) []byte {
	return []byte(state + "\n" + fingerprint + "\n" + responseBody)
}

func TestIdempotencyMiddleware_ReplaysCachedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	cachedBody := `{"record":{"external_ref":"ref-1"}}`
	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-1:POST:/api/v1/transfers:key-1", gomock.Any(), testTTL).
		Return(true, storedEntry("201", bodyDigest(`{}`), cachedBody), nil)

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)

	var called bool
	req := authedRequest("user-1", http.MethodPost, `{}`)
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if called {
		t.Fatal("handler must not run on replay")
	}
	if rr.Code != http.StatusCreated {
		t.Errorf("expected the original status to be replayed, got %d", rr.Code)
	}
	if rr.Header().Get("X-Idempotency-Replay") != "true" {
		t.Error("expected replay header")
	}
	if rr.Body.String() != cachedBody {
		t.Errorf("expected cached body, got %s", rr.Body.String())
	}
}

func TestIdempotencyMiddleware_RejectsInFlightDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	// The first attempt claimed the key and has not finished yet.
	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-1:POST:/api/v1/transfers:key-1", gomock.Any(), testTTL).
		Return(true, storedEntry("processing", bodyDigest(`{}`), ""), nil)

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)

	var executions int
	req := authedRequest("user-1", http.MethodPost, `{}`)
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		executions++
		w.WriteHeader(http.StatusCreated)
	})).ServeHTTP(rr, req)

	if executions != 0 {
		t.Fatalf("handler executed %d times for an in-flight duplicate", executions)
	}
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409 for an in-flight duplicate, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	original := `{"recipient_email":"bob@example.com","amount":"50"}`
	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-1:POST:/api/v1/transfers:key-1", gomock.Any(), testTTL).
		Return(true, storedEntry("201", bodyDigest(original), `{"ok":true}`), nil)

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)

	var called bool
	req := authedRequest("user-1", http.MethodPost, `{"recipient_email":"mallory@example.com","amount":"999"}`)
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if called {
		t.Fatal("handler must not run when the key is reused with a different body")
	}
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ScopesKeysPerUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-1:POST:/api/v1/transfers:shared-key", gomock.Any(), testTTL).
		Return(false, nil, nil)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-2:POST:/api/v1/transfers:shared-key", gomock.Any(), testTTL).
		Return(false, nil, nil)
	store.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any(), testTTL).
		Return(nil).
		Times(2)

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	for _, userID := range []string{"user-1", "user-2"} {
		req := authedRequest(userID, http.MethodPost, `{}`)
		req.Header.Set(middleware.IdempotencyKeyHeader, "shared-key")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("%s: expected 201, got %d", userID, rr.Code)
		}
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	fingerprint := bodyDigest(`{}`)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-1:POST:/api/v1/transfers:key-2", storedEntry("processing", fingerprint, ""), testTTL).
		Return(false, nil, nil)
	store.EXPECT().
		Update(gomock.Any(), "user-1:POST:/api/v1/transfers:key-2", storedEntry("201", fingerprint, `{"ok":true}`), testTTL).
		Return(nil)

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)

	req := authedRequest("user-1", http.MethodPost, `{}`)
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-2")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_DoesNotCacheFailedResponses(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-1:POST:/api/v1/transfers:key-3", gomock.Any(), testTTL).
		Return(false, nil, nil)
	// No Update expectation: error responses must not be stored.

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)

	req := authedRequest("user-1", http.MethodPost, `{}`)
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-3")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_FailsClosedOnStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	store.EXPECT().
		CheckAndSet(gomock.Any(), "user-1:POST:/api/v1/transfers:key-4", gomock.Any(), testTTL).
		Return(false, nil, context.DeadlineExceeded)

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)

	var called bool
	req := authedRequest("user-1", http.MethodPost, `{}`)
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-4")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if called {
		t.Fatal("handler must not run when the store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_SkipsUncheckedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)
	// No expectations: the store must not be touched.

	mw := middleware.NewIdempotencyMiddleware(store, testTTL)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"post without key", authedRequest("user-1", http.MethodPost, `{}`)},
		{"get with key", authedRequest("user-1", http.MethodGet, "")},
		{"post without identity", httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`))},
	}
	tests[1].req.Header.Set(middleware.IdempotencyKeyHeader, "key-5")
	tests[2].req.Header.Set(middleware.IdempotencyKeyHeader, "key-6")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			rr := httptest.NewRecorder()

			mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})).ServeHTTP(rr, tt.req)

			if !called {
				t.Error("handler must run")
			}
		})
	}
}
