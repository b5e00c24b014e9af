package providers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessTestLogger struct {
	cacheTestLogger
	types []TypeEnum
	lines []string
}

func (l *accessTestLogger) Infof(t TypeEnum, format string, args ...interface{}) {
	l.types = append(l.types, t)
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestAccessLogMiddleware_LogsPostAsPost(t *testing.T) {
	logger := &accessTestLogger{}
	handler := AccessLogMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/events/tab-closed", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Len(t, logger.lines, 1)
	assert.Equal(t, TypePost, logger.types[0])
	assert.Contains(t, logger.lines[0], "POST /events/tab-closed 202")
}

func TestAccessLogMiddleware_LogsGetAsGet(t *testing.T) {
	logger := &accessTestLogger{}
	handler := AccessLogMiddleware(logger, dummyHandler())

	req := httptest.NewRequest(http.MethodGet, "/estimate", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, logger.types, 1)
	assert.Equal(t, TypeGet, logger.types[0])
}
