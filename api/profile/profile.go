package profile

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/db/store"
	"github.com/nikahapp/matrimony-backend/ledger"
	"github.com/nikahapp/matrimony-backend/middleware"
	"github.com/nikahapp/matrimony-backend/visibility"
	"golang.org/x/crypto/bcrypt"
)

const feedPageSize = 10

type Handlers struct {
	logger   *log.Logger
	svc      *ledger.Service
	policies store.Policies
}

// view resolves the target's profile through the visibility layers.
func (h *Handlers) view(w http.ResponseWriter, r *http.Request) {
	viewer := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	p, err := h.resolve(r, viewer, target)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (h *Handlers) resolve(r *http.Request, viewer, target *model.User) (*visibility.Profile, error) {
	ctx := r.Context()
	conn, err := h.svc.ConnState(ctx, viewer.ID, target.ID)
	if err != nil {
		return nil, err
	}
	settings, err := h.policies.Settings(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := h.svc.PlanFeatures(ctx, viewer)
	if err != nil {
		return nil, err
	}
	p := visibility.Resolve(visibility.Input{
		Viewer:   viewer,
		Target:   target,
		Conn:     conn,
		Plan:     plan,
		Settings: settings,
	})
	return &p, nil
}

type feedItem struct {
	visibility.Profile
	RequestStatus    string `json:"request_status"`
	RequestDirection string `json:"request_direction,omitempty"`
}

type feedPage struct {
	Items    []feedItem `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// feed lists discovery candidates of the opposite gender, excluding the
// viewer, soft-rejected accounts and already-matched pairs, with the
// admin-enabled filters applied.
func (h *Handlers) feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := r.Context().Value("user").(*model.User)

	gender := model.GenderFemale
	if viewer.Gender == model.GenderFemale {
		gender = model.GenderMale
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	settings, err := h.policies.Settings(ctx)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	matched, err := h.svc.MatchedPeerIDs(ctx, viewer.ID)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	exclude := append([]uint{viewer.ID}, matched...)
	for _, u := range viewer.RejectedUsers {
		exclude = append(exclude, u.ID)
	}

	q := db.GetDB(ctx).Model(&model.User{}).
		Where("gender = ? AND status = ? AND is_admin = false", gender, model.UserStatusApproved).
		Where("id NOT IN ?", exclude)
	q = applyFilters(q, r, settings.EnabledFilters)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	users := make([]model.User, 0, feedPageSize)
	err = q.Order("display_priority DESC, created_at DESC").
		Offset((page - 1) * feedPageSize).
		Limit(feedPageSize).
		Preload("BlockedUsers").
		Find(&users).Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	items := make([]feedItem, 0, len(users))
	for i := range users {
		u := &users[i]
		p, err := h.resolve(r, viewer, u)
		if err != nil {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		status, direction, err := h.svc.PairStatus(ctx, viewer.ID, u.ID)
		if err != nil {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if status == "" {
			status = "none"
		}
		items = append(items, feedItem{Profile: *p, RequestStatus: status, RequestDirection: direction})
	}
	json.NewEncoder(w).Encode(feedPage{Items: items, Total: total, Page: page, PageSize: feedPageSize})
}

// reject removes the target from the viewer's feed. Reversible by an
// administrator only; not a block.
func (h *Handlers) reject(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)
	if u.HasRejected(target.ID) {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := db.GetDB(r.Context()).Model(u).Association("RejectedUsers").Append(target); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// block adds the target to the viewer's block list and severs every
// request record between the pair. Unblocking later starts from a clean
// slate.
func (h *Handlers) block(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)
	if !u.HasBlocked(target.ID) {
		if err := db.GetDB(r.Context()).Model(u).Association("BlockedUsers").Append(target); err != nil {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	if err := h.svc.SeverPair(r.Context(), u.ID, target.ID); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) unblock(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)
	if err := db.GetDB(r.Context()).Model(u).Association("BlockedUsers").Delete(target); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewPassword == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.CurrentPassword)) != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("current password is incorrect"))
		return
	}
	passBytes, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 14)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	u.PasswordHash = string(passBytes)
	if err := db.GetDB(r.Context()).Model(u).Update("password_hash", u.PasswordHash).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) deleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ImageURL == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	kept := make(model.StringList, 0, len(u.GalleryImages))
	for _, url := range u.GalleryImages {
		if url != body.ImageURL {
			kept = append(kept, url)
		}
	}
	u.GalleryImages = kept
	if err := db.GetDB(r.Context()).Model(u).Update("gallery_images", kept).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(struct {
		GalleryImages []string `json:"gallery_images"`
	}{kept})
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger), middleware.ApprovedOnly)
		r.With(middleware.NoCache).Get("/", h.feed)
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithTarget)
			r.Get("/{userID}", h.view)
			r.Post("/{userID}/reject", h.reject)
			r.Post("/{userID}/block", h.block)
			r.Post("/{userID}/unblock", h.unblock)
		})
	})
	r.Route("/profile", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Put("/", h.update)
		r.Post("/password", h.changePassword)
		r.Post("/gallery/delete", h.deleteGalleryImage)
	})
}

func NewHandlers(l *log.Logger, svc *ledger.Service) *Handlers {
	return &Handlers{logger: l, svc: svc}
}
