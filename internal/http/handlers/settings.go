package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/decode"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/response"
)

type SettingsService interface {
	Get(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, s model.Settings) (model.Settings, error)
	SetOpen(ctx context.Context, open bool) (model.Settings, error)
}

type openRequest struct {
	IsOpen bool `json:"is_open"`
}

func GetSettings(svc SettingsService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Get(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, s)
	}
}

func UpdateSettings(svc SettingsService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s model.Settings
		if err := decode.JSON(r, &s); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		updated, err := svc.Update(r.Context(), s)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, updated)
	}
}

func SetStoreOpen(svc SettingsService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openRequest
		if err := decode.JSON(r, &req); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		s, err := svc.SetOpen(r.Context(), req.IsOpen)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, s)
	}
}
