package controllers

import (
	"net/http"

	"github.com/classwish/classwish-backend/api/middleware"
	"github.com/classwish/classwish-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if actor := middleware.ActorFromContext(r.Context()); actor.Valid() {
			payload["profile_id"] = actor.ProfileID.String()
			payload["role"] = string(actor.Role)
		}
		responses.WriteSuccess(w, payload)
	}
}
