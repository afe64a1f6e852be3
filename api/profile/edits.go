package profile

import (
	"encoding/json"
	"net/http"

	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
)

// editableFields is the closed set of keys a user may stage for admin
// approval. Anything else in the payload is rejected.
var editableFields = map[string]bool{
	"name":            true,
	"fatherName":      true,
	"motherName":      true,
	"age":             true,
	"dateOfBirth":     true,
	"location":        true,
	"education":       true,
	"occupation":      true,
	"about":           true,
	"maritalStatus":   true,
	"disability":      true,
	"countryOfOrigin": true,
	"languagesKnown":  true,
	"siblings":        true,
	"lookingFor":      true,
	"profilePhoto":    true,
	"galleryImages":   true,
}

// update stages profile edits into the user's pending bag; nothing goes
// live until an administrator approves it.
func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	for k := range body {
		if !editableFields[k] {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("unknown field: " + k))
			return
		}
	}
	if len(body) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("no fields provided"))
		return
	}
	pending := u.PendingEdits
	if pending == nil {
		pending = make(model.EditBag, len(body))
	}
	for k, v := range body {
		pending[k] = v
	}
	err := db.GetDB(r.Context()).Model(u).Updates(map[string]any{
		"pending_edits":     pending,
		"has_pending_edits": true,
	}).Error
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(struct {
		Message string `json:"message"`
	}{"edits submitted for admin approval"})
}
