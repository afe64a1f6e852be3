package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/nikahapp/matrimony-backend/auth"
	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"gorm.io/gorm"
)

func Authenticator(logger *log.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie("accessToken")
			if err != nil {
				logger.Println(err)
				if errors.Is(err, http.ErrNoCookie) {
					w.WriteHeader(http.StatusUnauthorized)
				} else {
					w.WriteHeader(http.StatusInternalServerError)
				}
				return
			}
			claims, err := auth.ParseAccessToken(c.Value)
			if err != nil || claims["aud"] != r.Context().Value("deviceIP") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			uid := claims["sub"].(string)
			ip := claims["aud"].(string)
			db := db.GetDB(r.Context())
			var u model.User
			if err := db.
				Preload("BlockedUsers").
				Preload("RejectedUsers").
				Preload("Sessions").
				First(&u, uid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					w.WriteHeader(http.StatusForbidden)
				} else {
					w.WriteHeader(http.StatusInternalServerError)
				}
				return
			}
			var s *model.Session
			for _, ss := range u.Sessions {
				if ss.IP == ip {
					s = &ss
					break
				}
			}
			if s == nil {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("session does not exist"))
				return
			}
			ctx := context.WithValue(context.WithValue(r.Context(), "user", &u), "session", s)
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// ApprovedOnly rejects accounts an administrator has not approved yet.
// Admins bypass the check.
func ApprovedOnly(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		u := r.Context().Value("user").(*model.User)
		if !u.IsAdmin && u.Status != model.UserStatusApproved {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("waiting for admin approval"))
			return
		}
		h.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

// AdminOnly restricts a route to administrators.
func AdminOnly(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		u := r.Context().Value("user").(*model.User)
		if !u.IsAdmin {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
