package controllers

import (
	"ecotrack/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
}

func TestTabCreated(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.TabCreated(rr, post(""))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, 1, svc.created)
}

func TestTabClosed(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.TabClosed(rr, post(""))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, 1, svc.closed)
}

func TestTabEvent_TrackerClosed(t *testing.T) {
	svc := &mockService{eventErr: services.ErrClosed}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.TabCreated(rr, post(""))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestIdleChanged(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.IdleChanged(rr, post(`{"state":"idle","at":1704067200000}`))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, svc.idle, 1)
	assert.Equal(t, "idle", svc.idle[0].state)
	assert.True(t, svc.idle[0].at.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIdleChanged_NoTimestampMeansNow(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	ec.IdleChanged(httptest.NewRecorder(), post(`{"state":"active"}`))

	require.Len(t, svc.idle, 1)
	assert.True(t, svc.idle[0].at.IsZero())
}

func TestIdleChanged_UnknownState(t *testing.T) {
	svc := &mockService{eventErr: services.ErrUnknownIdleState}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.IdleChanged(rr, post(`{"state":"asleep"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIdleChanged_InvalidJSON(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.IdleChanged(rr, post(`{state`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.idle)
}

func TestTabCount(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.TabCount(rr, post(`{"count":12}`))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []int{12}, svc.counts)
}

func TestTabCount_ZeroIsValid(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.TabCount(rr, post(`{"count":0}`))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []int{0}, svc.counts)
}

func TestTabCount_Missing(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.TabCount(rr, post(`{}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.counts)
}

func TestTabCount_NotANumber(t *testing.T) {
	svc := &mockService{}
	ec := NewEventController(&mockLogger{}, svc)

	rr := httptest.NewRecorder()
	ec.TabCount(rr, post(`{"count":"many"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
