package profile

import (
	"net/http"
	"strconv"

	"github.com/nikahapp/matrimony-backend/db/model"
	"gorm.io/gorm"
)

// applyFilters narrows the feed query by the caller's query params,
// honoring only the filters the administrator has enabled.
func applyFilters(q *gorm.DB, r *http.Request, enabled model.FieldFlags) *gorm.DB {
	v := r.URL.Query()
	if enabled.Enabled("location") {
		if loc := v.Get("location"); loc != "" {
			q = q.Where("location = ?", loc)
		}
	}
	if enabled.Enabled("age") {
		if min, err := strconv.Atoi(v.Get("min_age")); err == nil && min > 0 {
			q = q.Where("age >= ?", min)
		}
		if max, err := strconv.Atoi(v.Get("max_age")); err == nil && max > 0 {
			q = q.Where("age <= ?", max)
		}
	}
	if enabled.Enabled("education") {
		if edu := v.Get("education"); edu != "" {
			q = q.Where("education = ?", edu)
		}
	}
	if enabled.Enabled("occupation") {
		if occ := v.Get("occupation"); occ != "" {
			q = q.Where("occupation = ?", occ)
		}
	}
	if enabled.Enabled("maritalStatus") {
		if ms := v.Get("marital_status"); ms != "" {
			q = q.Where("marital_status = ?", ms)
		}
	}
	if enabled.Enabled("nameSearch") {
		if name := v.Get("name"); name != "" {
			q = q.Where("name ILIKE ?", name+"%")
		}
	}
	return q
}
