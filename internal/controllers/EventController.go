package controllers

import (
	"ecotrack/internal/providers"
	"ecotrack/internal/services"
	"errors"
	"net/http"
	"time"
)

// EventController receives browser notifications from the extension.
type EventController struct {
	logger  providers.Logger
	service services.TrackerServiceInterface
}

func NewEventController(logger providers.Logger, service services.TrackerServiceInterface) *EventController {
	return &EventController{
		logger:  logger,
		service: service,
	}
}

type idleRequest struct {
	State string `json:"state"`
	// At is a unix millisecond timestamp; 0 means now.
	At int64 `json:"at"`
}

type tabCountRequest struct {
	Count *int `json:"count"`
}

func (ec *EventController) respond(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, services.ErrInvalidEventInput):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		ec.logger.Warnf(providers.TypeEvent, "Event rejected: %s", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	}
}

func (ec *EventController) TabCreated(w http.ResponseWriter, r *http.Request) {
	ec.respond(w, ec.service.OnTabCreated())
}

func (ec *EventController) TabClosed(w http.ResponseWriter, r *http.Request) {
	ec.respond(w, ec.service.OnTabClosed())
}

func (ec *EventController) IdleChanged(w http.ResponseWriter, r *http.Request) {
	var payload idleRequest
	if err := decodeBody(w, r, &payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var at time.Time
	if payload.At > 0 {
		at = time.UnixMilli(payload.At)
	}
	ec.respond(w, ec.service.OnIdleStateChanged(payload.State, at))
}

func (ec *EventController) TabCount(w http.ResponseWriter, r *http.Request) {
	var payload tabCountRequest
	if err := decodeBody(w, r, &payload); err != nil || payload.Count == nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ec.respond(w, ec.service.OnTabCountSnapshot(*payload.Count))
}
