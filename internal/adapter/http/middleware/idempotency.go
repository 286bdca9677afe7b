package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/gowallet/internal/usecase"
)

// IdempotencyKeyHeader is the header name for idempotency keys. Retried
// requests carrying the same key replay the stored response instead of
// double-executing the transfer.
const IdempotencyKeyHeader = "Idempotency-Key"

// processingState marks a key claimed by a request that has not finished.
const processingState = "processing"

// IdempotencyMiddleware handles request idempotency using Redis.
//
// Keys are scoped to the authenticated user and the route, so one user's key
// can never replay another user's response. Each stored entry carries a
// fingerprint of the request body; reusing a key with a different body is
// rejected, and a duplicate arriving while the first request is still in
// flight gets 409 instead of a second execution.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			// Unauthenticated routes have no user to scope the key by.
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		fingerprint := hex.EncodeToString(sum[:])
		scopedKey := identity.UserID + ":" + r.Method + ":" + r.URL.Path + ":" + key

		claim := encodeEntry(processingState, fingerprint, nil)

		exists, cached, err := m.store.CheckAndSet(r.Context(), scopedKey, claim, m.ttl)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			state, cachedFingerprint, cachedBody := decodeEntry(cached)

			if cachedFingerprint != fingerprint {
				http.Error(w, "idempotency key reused with a different request body", http.StatusUnprocessableEntity)
				return
			}

			if state == processingState {
				http.Error(w, "a request with this idempotency key is still in progress", http.StatusConflict)
				return
			}

			status, err := strconv.Atoi(state)
			if err != nil {
				status = http.StatusOK
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(status)
			w.Write(cachedBody)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Only successful responses are replayable.
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			entry := encodeEntry(strconv.Itoa(recorder.statusCode), fingerprint, recorder.body.Bytes())
			m.store.Update(r.Context(), scopedKey, entry, m.ttl)
		}
	})
}

// encodeEntry packs a stored idempotency value: state (processing or the
// final status code), request body fingerprint, and the response body.
func encodeEntry(state, fingerprint string, body []byte) []byte {
	entry := make([]byte, 0, len(state)+len(fingerprint)+len(body)+2)
	entry = append(entry, state...)
	entry = append(entry, '\n')
	entry = append(entry, fingerprint...)
	entry = append(entry, '\n')
	entry = append(entry, body...)
	return entry
}

func decodeEntry(entry []byte) (state, fingerprint string, body []byte) {
	parts := strings.SplitN(string(entry), "\n", 3)
	if len(parts) != 3 {
		return processingState, "", nil
	}
	return parts[0], parts[1], []byte(parts[2])
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
