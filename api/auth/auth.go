package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nikahapp/matrimony-backend/auth"
	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Gender   string `json:"gender"`
		Contact  string `json:"contact"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Age      int    `json:"age"`
		Location string `json:"location"`
	}
	encoder, decoder := json.NewEncoder(w), json.NewDecoder(r.Body)
	if err := decoder.Decode(&body); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Contact == "" || body.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}
	if body.Gender != model.GenderMale && body.Gender != model.GenderFemale {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid gender"))
		return
	}
	if body.Email != "" {
		if addr, err := mail.ParseAddress(body.Email); err != nil {
			h.logger.Println(err)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("invalid email"))
			return
		} else {
			body.Email = addr.Address
		}
	}
	if exists, err := isUserExist(r.Context(), body.Contact, body.Email); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	} else if exists {
		w.WriteHeader(http.StatusConflict)
		encoder.Encode("contact / email exists")
		return
	}
	passBytes, err := bcrypt.GenerateFromPassword([]byte(body.Password), 14)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user := &model.User{
		Name:            body.Name,
		Gender:          body.Gender,
		Contact:         body.Contact,
		Email:           body.Email,
		PasswordHash:    string(passBytes),
		Age:             body.Age,
		Location:        body.Location,
		Status:          model.UserStatusPending,
		RequestsTodayAt: time.Now().UTC(),
	}
	if db.GetDB(r.Context()).Create(user).Error != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	encoder.Encode(user)
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) signin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(body.Email) < 1 || len(body.Password) < 1 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}

	c := r.Context()
	u, err := getUserFromEmail(c, body.Email)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if u == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ip := c.Value("deviceIP").(string)
	s := &model.Session{}
	if err := db.GetDB(c).Where(&model.Session{UserID: u.ID, IP: ip}).First(s).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if s, err = insertSession(c, u.ID, ip, c.Value("expoPushToken").(string)); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.logger.Println(err)
			return
		}
	}

	accessToken, err := auth.GenAccessToken(ip, strconv.FormatUint(uint64(u.ID), 10))
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Expires:  time.Now().Add(2 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	json.NewEncoder(w).Encode(struct {
		AccessToken string `json:"access_token"`
	}{
		AccessToken: accessToken,
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) user(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	encoder := json.NewEncoder(w)
	w.WriteHeader(http.StatusOK)
	if err := encoder.Encode(u); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.With(middleware.WithExpoPushToken).Post("/signin", h.signin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(h.logger))
			r.With(middleware.NoCache).Get("/user", h.user)
			r.Post("/signout", h.signout)
		})
	})
}

func isUserExist(ctx context.Context, contact, email string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var exists bool
	err := db.GetDB(ctx).Raw("SELECT EXISTS(SELECT 1 FROM users WHERE contact = ? OR (email <> '' AND email = ?))", contact, email).Scan(&exists).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	return exists, err
}

func getUserFromEmail(ctx context.Context, email string) (user *model.User, err error) {
	user = &model.User{}
	if ctx == nil {
		ctx = context.Background()
	}
	if err = db.GetDB(ctx).First(user, "email = ?", email).Error; err != nil {
		user = nil
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}
	}
	return
}

func insertSession(ctx context.Context, userID uint, ip string, token string) (session *model.Session, err error) {
	k := fmt.Sprintf("%s:%s", strconv.FormatUint(uint64(userID), 10), ip)

	hash := sha256.New()
	hash.Write([]byte(k))
	ch := hex.EncodeToString(hash.Sum(nil))

	session = &model.Session{
		UserID:        userID,
		IP:            ip,
		Ch:            ch,
		ExpoPushToken: token,
		Status:        model.StatusOffline,
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err = db.GetDB(ctx).Create(session).Error; err != nil {
		session = nil
	}
	return
}

func NewHandlers(logger *log.Logger) *Handlers {
	return &Handlers{logger}
}
