package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/decode"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/response"
	"github.com/sanchey92/pizzeria/internal/service/account"
)

type AccountService interface {
	Register(ctx context.Context, r account.Registration) (model.User, error)
	Login(ctx context.Context, phone, password string) (model.User, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*model.User, error)
	AddAddress(ctx context.Context, addr model.Address) (model.User, error)
	RemoveAddress(ctx context.Context, id string) (model.User, error)
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
}

type sessionResponse struct {
	User           *model.User `json:"user"`
	DefaultAddress string      `json:"default_address,omitempty"`
}

func newSessionResponse(u *model.User) sessionResponse {
	if u == nil {
		return sessionResponse{}
	}
	return sessionResponse{User: u, DefaultAddress: u.DefaultAddress()}
}

func GetSession(svc AccountService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Current(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, newSessionResponse(u))
	}
}

func Register(svc AccountService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.Registration
		if err := decode.JSON(r, &req); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		u, err := svc.Register(r.Context(), req)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.Created(w, newSessionResponse(&u))
	}
}

func Login(svc AccountService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decode.JSON(r, &req); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		u, err := svc.Login(r.Context(), req.Phone, req.Password)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, newSessionResponse(&u))
	}
}

func Logout(svc AccountService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			fail(w, log, err)
			return
		}
		response.NoContent(w)
	}
}

func AddAddress(svc AccountService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var addr model.Address
		if err := decode.JSON(r, &addr); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		u, err := svc.AddAddress(r.Context(), addr)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.Created(w, newSessionResponse(&u))
	}
}

func RemoveAddress(svc AccountService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.RemoveAddress(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, newSessionResponse(&u))
	}
}
