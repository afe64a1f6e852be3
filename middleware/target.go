package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"gorm.io/gorm"
)

// WithTarget resolves the {userID} route param into the viewed/target
// user, with block and rejection sets preloaded.
func WithTarget(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "userID")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var u model.User
		err := db.GetDB(r.Context()).
			Preload("BlockedUsers").
			Preload("RejectedUsers").
			First(&u, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				w.WriteHeader(http.StatusNotFound)
			} else {
				w.WriteHeader(http.StatusInternalServerError)
			}
			return
		}
		ctx := context.WithValue(r.Context(), "target", &u)
		h.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}
