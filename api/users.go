package api

import (
	"net/http"

	"schedulink/slot"
	"schedulink/user"
)

// userResponse is a user together with the slots booked by them.
type userResponse struct {
	user.User
	Slots []slot.Slot `json:"slots"`
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var payload user.User
	if err := a.decode(w, r, &payload); err != nil {
		a.Error(w, r, err)
		return
	}
	payload.ID = 0

	created, err := a.users.CreateUser(r.Context(), payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, created)
}

func (a *API) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.GetUsers(r.Context())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, users)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	u, err := a.users.GetUser(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	slots, err := a.slots.GetUserSlots(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, userResponse{User: u, Slots: slots})
}
