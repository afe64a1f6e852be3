package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/db/store"
	"github.com/nikahapp/matrimony-backend/middleware"
	"gorm.io/gorm"
)

type Handlers struct {
	logger   *log.Logger
	policies store.Policies
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users := make([]model.User, 0)
	if err := db.GetDB(r.Context()).Find(&users).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(users)
}

func (h *Handlers) approveUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	res := db.GetDB(r.Context()).Model(&model.User{}).
		Where("id = ?", body.UserID).
		Update("status", model.UserStatusApproved)
	if res.Error != nil {
		h.logger.Println(res.Error)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := db.GetDB(r.Context()).Delete(&model.User{}, body.UserID).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// unrejectUser reverses a soft feed-rejection on a user's behalf.
func (h *Handlers) unrejectUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID         uint `json:"user_id"`
		RejectedUserID uint `json:"rejected_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 || body.RejectedUserID == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err := db.GetDB(r.Context()).
		Model(&model.User{Base: model.Base{ID: body.UserID}}).
		Association("RejectedUsers").
		Delete(&model.User{Base: model.Base{ID: body.RejectedUserID}})
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.policies.Settings(r.Context())
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(s)
}

// updateSettings applies a partial settings patch. Field-flag maps are
// validated against the known key sets before anything is written.
func (h *Handlers) updateSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FreeUserRequestLimit    *int             `json:"free_user_request_limit"`
		PremiumUserRequestLimit *int             `json:"premium_user_request_limit"`
		ProfileDisplayFields    model.FieldFlags `json:"profile_display_fields"`
		EnabledFilters          model.FieldFlags `json:"enabled_filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if bad := unknownKeys(body.ProfileDisplayFields, model.DefaultDisplayFields()); bad != "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("unknown display field: " + bad))
		return
	}
	if bad := unknownKeys(body.EnabledFilters, model.DefaultFilters()); bad != "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("unknown filter: " + bad))
		return
	}
	s, err := h.policies.Settings(r.Context())
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if body.FreeUserRequestLimit != nil {
		s.FreeUserRequestLimit = *body.FreeUserRequestLimit
	}
	if body.PremiumUserRequestLimit != nil {
		s.PremiumUserRequestLimit = *body.PremiumUserRequestLimit
	}
	for k, v := range body.ProfileDisplayFields {
		s.ProfileDisplayFields[k] = v
	}
	for k, v := range body.EnabledFilters {
		s.EnabledFilters[k] = v
	}
	if err := db.GetDB(r.Context()).Save(s).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(s)
}

func unknownKeys(patch, known model.FieldFlags) string {
	for k := range patch {
		if _, ok := known[k]; !ok {
			return k
		}
	}
	return ""
}

func (h *Handlers) listPlans(w http.ResponseWriter, r *http.Request) {
	plans := make([]model.PremiumPlan, 0)
	if err := db.GetDB(r.Context()).Find(&plans).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(plans)
}

func (h *Handlers) createPlan(w http.ResponseWriter, r *http.Request) {
	var p model.PremiumPlan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if p.Name == "" || p.RequestLimit <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("name and request_limit are required"))
		return
	}
	if err := db.GetDB(r.Context()).Create(&p).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

// deactivatePlan retires a plan from sale. Plan versions referenced by
// subscribers are never deleted.
func (h *Handlers) deactivatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "planID")
	res := db.GetDB(r.Context()).Model(&model.PremiumPlan{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		h.logger.Println(res.Error)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	var u model.User
	err := db.GetDB(r.Context()).
		Preload("BlockedUsers").
		Preload("RejectedUsers").
		First(&u, chi.URLParam(r, "userID")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(u)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger), middleware.AdminOnly)
		r.Get("/users", h.listUsers)
		r.Get("/users/{userID}", h.getUser)
		r.Post("/users/approve", h.approveUser)
		r.Post("/users/delete", h.deleteUser)
		r.Post("/users/unreject", h.unrejectUser)
		r.Post("/edits/review", h.reviewEdits)
		r.Get("/settings", h.getSettings)
		r.Put("/settings", h.updateSettings)
		r.Get("/plans", h.listPlans)
		r.Post("/plans", h.createPlan)
		r.Post("/plans/{planID}/deactivate", h.deactivatePlan)
	})
}

func NewHandlers(l *log.Logger) *Handlers {
	return &Handlers{logger: l}
}
