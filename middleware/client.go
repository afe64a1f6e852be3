package middleware

import (
	"context"
	"net/http"
)

func WithExpoPushToken(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		t := r.Header.Get("X-Expo-Push-Token")
		if t == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("missing header: X-Expo-Push-Token"))
			return
		}
		ctx := context.WithValue(r.Context(), "expoPushToken", t)
		h.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}
