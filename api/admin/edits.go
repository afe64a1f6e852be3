package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"gorm.io/gorm"
)

// reviewEdits approves or discards a user's staged profile edits. On
// approval each staged key is written onto the live profile.
func (h *Handlers) reviewEdits(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID uint   `json:"user_id"`
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Action != "approve" && body.Action != "discard" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("unknown action"))
		return
	}
	var u model.User
	if err := db.GetDB(r.Context()).First(&u, body.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			h.logger.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	if !u.HasPendingEdits {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no pending edits"))
		return
	}

	patch := map[string]any{
		"pending_edits":     nil,
		"has_pending_edits": false,
	}
	if body.Action == "approve" {
		for k, v := range u.PendingEdits {
			col, val, ok := editColumn(k, v)
			if !ok {
				continue
			}
			patch[col] = val
		}
	}
	if err := db.GetDB(r.Context()).Model(&u).Updates(patch).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// editColumn maps a staged edit key onto its column and coerces the
// JSON-decoded value. Unknown keys and wrong-typed values are skipped.
func editColumn(key string, v any) (string, any, bool) {
	switch key {
	case "name", "location", "education", "occupation", "about",
		"maritalStatus", "disability", "countryOfOrigin", "lookingFor",
		"fatherName", "motherName", "profilePhoto":
		s, ok := v.(string)
		return columnName(key), s, ok
	case "age", "siblings":
		f, ok := v.(float64)
		return columnName(key), int(f), ok
	case "dateOfBirth":
		s, ok := v.(string)
		if !ok {
			return "", nil, false
		}
		t, err := time.Parse("2006-01-02", s)
		return "date_of_birth", t, err == nil
	case "languagesKnown", "galleryImages":
		list, ok := v.([]any)
		if !ok {
			return "", nil, false
		}
		out := make(model.StringList, 0, len(list))
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				return "", nil, false
			}
			out = append(out, s)
		}
		return columnName(key), out, true
	}
	return "", nil, false
}

func columnName(key string) string {
	switch key {
	case "fatherName":
		return "father_name"
	case "motherName":
		return "mother_name"
	case "maritalStatus":
		return "marital_status"
	case "countryOfOrigin":
		return "country_of_origin"
	case "lookingFor":
		return "looking_for"
	case "profilePhoto":
		return "profile_photo"
	case "languagesKnown":
		return "languages_known"
	case "galleryImages":
		return "gallery_images"
	default:
		return key
	}
}
