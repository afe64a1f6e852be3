package request

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/ledger"
	"github.com/nikahapp/matrimony-backend/middleware"
	"github.com/nikahapp/matrimony-backend/redis"
)

const adminPendingLimit = 100

type Handlers struct {
	logger *log.Logger
	svc    *ledger.Service
}

func (h *Handlers) submit(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		ToUserID uint   `json:"to_user_id"`
		Kind     string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	res, err := h.svc.Submit(r.Context(), u, body.ToUserID, body.Kind)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (h *Handlers) incoming(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	if b, err := redis.GetNotifications(u.ID, u.IsAdmin); err != nil {
		h.logger.Println(err)
	} else if b != nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
		return
	}

	var rs []model.Request
	var err error
	if u.IsAdmin {
		rs, err = h.svc.ListAllPending(r.Context(), adminPendingLimit)
	} else {
		rs, err = h.svc.ListIncoming(r.Context(), u)
	}
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := redis.SetNotifications(u.ID, u.IsAdmin, rs); err != nil {
		h.logger.Println(err)
	}
	json.NewEncoder(w).Encode(rs)
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		RequestID uint   `json:"request_id"`
		Action    string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	res, err := h.svc.Respond(r.Context(), u, body.RequestID, body.Action)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (h *Handlers) withdraw(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	res, err := h.svc.Withdraw(r.Context(), u, body.UserID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (h *Handlers) writeErr(w http.ResponseWriter, err error) {
	var le *ledger.LimitError
	switch {
	case errors.As(err, &le):
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(struct {
			Message   string `json:"message"`
			Limit     int    `json:"limit"`
			Remaining int    `json:"remaining"`
			IsPremium bool   `json:"is_premium"`
		}{"daily request limit reached", le.Limit, le.Remaining, le.IsPremium})
	case errors.Is(err, ledger.ErrMissingTarget),
		errors.Is(err, ledger.ErrSelfTarget),
		errors.Is(err, ledger.ErrBadKind),
		errors.Is(err, ledger.ErrBadAction):
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
	case errors.Is(err, ledger.ErrBlocked), errors.Is(err, ledger.ErrAdminExcluded):
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(err.Error()))
	case errors.Is(err, ledger.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(err.Error()))
	case errors.Is(err, ledger.ErrResolved):
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(err.Error()))
	default:
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/requests", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger), middleware.ApprovedOnly)
		r.Post("/", h.submit)
		r.With(middleware.NoCache).Get("/incoming", h.incoming)
		r.Post("/respond", h.respond)
		r.Post("/withdraw", h.withdraw)
	})
}

func NewHandlers(l *log.Logger, svc *ledger.Service) *Handlers {
	return &Handlers{l, svc}
}
