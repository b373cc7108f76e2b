package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/pkg/composables"
)

func TestWithLogger_AttachesRequestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.InfoLevel)

	var scoped *logrus.Entry
	h := WithLogger(logger, "X-Request-ID")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoped = composables.UseLogger(r.Context(), nil)
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/layup/schedule", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	require.NotNil(t, scoped)
	require.Equal(t, "req-42", scoped.Data["request-id"])
	require.Contains(t, buf.String(), "request completed")
}

func TestWithLogger_RecoversPanic(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	h := WithLogger(logger, "X-Request-ID")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/layup/schedule/generate", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}
