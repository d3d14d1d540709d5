package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/fredhutch/github-org-manager/pkg/middleware"
	"github.com/stretchr/testify/assert"
)

func testLogger() logger.Logger {
	log, _ := logger.GetLogger("text", "info")
	log.GetInternalLogger().Out = io.Discard
	return log
}

func TestCallerIP(t *testing.T) {
	t.Run("socket address", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", nil)
		r.RemoteAddr = "140.107.42.10:54321"

		ip, err := middleware.CallerIP(r)

		assert.NoError(t, err)
		assert.Equal(t, "140.107.42.10", ip)
	})

	t.Run("forwarded header takes precedence", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", nil)
		r.RemoteAddr = "10.0.0.1:54321"
		r.Header.Set("X-Forwarded-For", "140.107.42.10")

		ip, err := middleware.CallerIP(r)

		assert.NoError(t, err)
		assert.Equal(t, "140.107.42.10", ip)
	})

	t.Run("multiple forwarded hops are rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/", nil)
		r.Header.Set("X-Forwarded-For", "140.107.42.10, 10.0.0.1")

		_, err := middleware.CallerIP(r)

		assert.ErrorContains(t, err, "multiple addresses in X-Forwarded-For header")
	})
}

func TestRequireApprovedIP(t *testing.T) {
	approved := []string{"140.107.42.10", "140.107.42.11"}

	mutated := false
	handler := middleware.RequireApprovedIP(approved, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutated = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("approved caller passes through", func(t *testing.T) {
		mutated = false
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.RemoteAddr = "140.107.42.11:1234"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.True(t, mutated)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown caller is blocked before any mutation", func(t *testing.T) {
		mutated = false
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.False(t, mutated)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"status": "unknown ip 203.0.113.7, not allowed to modify organization membership"}`, w.Body.String())
	})

	t.Run("spoofed forwarded header is blocked", func(t *testing.T) {
		mutated = false
		r := httptest.NewRequest(http.MethodPut, "/", nil)
		r.RemoteAddr = "140.107.42.10:1234"
		r.Header.Set("X-Forwarded-For", "140.107.42.10, 203.0.113.7")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.False(t, mutated)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
