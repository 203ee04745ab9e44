package api

import (
	"net/http"

	"go.uber.org/zap"

	"schedulink/slot"
	"schedulink/validation"
)

type createSlotRequest struct {
	StartTime timestamp `json:"start_time"`
	EndTime   timestamp `json:"end_time"`
	UserID    *int64    `json:"user_id"`
}

type bookSlotRequest struct {
	UserID *int64 `json:"user_id" validate:"required,gt=0"`
}

func (a *API) createSlot(w http.ResponseWriter, r *http.Request) {
	var req createSlotRequest
	if err := a.decode(w, r, &req); err != nil {
		a.Error(w, r, err)
		return
	}

	payload := slot.Slot{
		StartTime: req.StartTime.Time,
		EndTime:   req.EndTime.Time,
		UserID:    req.UserID,
	}

	created, err := a.slots.CreateSlot(r.Context(), payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	// accepted as-is; ordering is not enforced
	if !created.EndTime.After(created.StartTime) {
		a.logger.Warn("slot end time is not after start time",
			zap.Int64("slot_id", created.ID),
			zap.Time("start_time", created.StartTime),
			zap.Time("end_time", created.EndTime),
			zap.String("request_id", RequestID(r.Context())),
		)
	}
	a.Response(w, http.StatusOK, created)
}

func (a *API) getSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := a.slots.GetSlots(r.Context())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, slots)
}

func (a *API) getSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	s, err := a.slots.GetSlot(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, s)
}

func (a *API) bookSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	var req bookSlotRequest
	if err := a.decode(w, r, &req); err != nil {
		a.Error(w, r, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		a.Error(w, r, err)
		return
	}

	booked, err := a.slots.BookSlot(r.Context(), id, *req.UserID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, booked)
}
