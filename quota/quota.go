// Package quota computes daily request allowances. The counter rolls
// over at UTC midnight regardless of the account's local time zone, and
// the rollover is lazy: a stale counter reads as zero here and is only
// physically reset by the next mutating request.
package quota

import (
	"time"

	"github.com/nikahapp/matrimony-backend/db/model"
)

// StartOfDayUTC truncates t to the UTC day boundary.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Stale reports whether the stored counter belongs to a previous UTC
// day and must be treated as zero.
func Stale(u *model.User, now time.Time) bool {
	return u.RequestsTodayAt.UTC().Before(StartOfDayUTC(now))
}

// ConsumedToday is the effective number of requests spent today.
func ConsumedToday(u *model.User, now time.Time) int {
	if Stale(u, now) {
		return 0
	}
	return u.RequestsToday
}

// EffectiveLimit resolves the daily cap: an unexpired premium
// subscription prefers its plan's limit, falling back to the global
// premium default; everyone else gets the global free default.
func EffectiveLimit(u *model.User, plan *model.PremiumPlan, s *model.AppSettings, now time.Time) int {
	if u.PremiumActive(now) {
		if plan != nil && plan.RequestLimit > 0 {
			return plan.RequestLimit
		}
		return s.PremiumUserRequestLimit
	}
	return s.FreeUserRequestLimit
}

// Remaining is the number of requests left today, never negative.
func Remaining(u *model.User, plan *model.PremiumPlan, s *model.AppSettings, now time.Time) int {
	r := EffectiveLimit(u, plan, s, now) - ConsumedToday(u, now)
	if r < 0 {
		return 0
	}
	return r
}

// Exceeded reports whether a further non-photo submission must be
// rejected.
func Exceeded(u *model.User, plan *model.PremiumPlan, s *model.AppSettings, now time.Time) bool {
	return ConsumedToday(u, now) >= EffectiveLimit(u, plan, s, now)
}
