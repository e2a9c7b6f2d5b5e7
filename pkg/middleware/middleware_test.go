package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/referral-ledger/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func protected() http.Handler {
	return AdminAuth(secret, "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := SubjectFromContext(r.Context())
		w.Write([]byte(sub))
	}))
}

func TestAdminAuth(t *testing.T) {
	t.Run("Valid admin token", func(t *testing.T) {
		token, err := IssueToken(secret, "admin", time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "admin", rr.Body.String())
	})

	t.Run("Missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		protected().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/ledger", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		req.Header.Set("Authorization", "Basic abc")
		rr := httptest.NewRecorder()
		protected().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Other subject", func(t *testing.T) {
		token, err := IssueToken(secret, "someone-else", time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := IssueToken([]byte("other"), "admin", time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token, err := IssueToken(secret, "admin", -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Other signing method", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}).SignedString(secret)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/accounts/{accountId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.HTTPRequests.WithLabelValues("/accounts/{accountId}", http.MethodGet, "404")
	before := testutil.ToFloat64(counter)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/accounts/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := NewStructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/purchases/confirm", nil))

	assert.Contains(t, buf.String(), `"msg":"server error"`)
	assert.Contains(t, buf.String(), `"path":"/admin/purchases/confirm"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
