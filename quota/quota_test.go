package quota

import (
	"testing"
	"time"

	"github.com/nikahapp/matrimony-backend/db/model"
)

func settings() *model.AppSettings {
	return &model.AppSettings{FreeUserRequestLimit: 2, PremiumUserRequestLimit: 20}
}

func TestStartOfDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 03:00 on the 2nd in UTC+8 is still the 1st in UTC
	got := StartOfDayUTC(time.Date(2026, 3, 2, 3, 0, 0, 0, loc))
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDayUTC = %v, want %v", got, want)
	}
}

func TestStaleRollsOverAtUTCMidnight(t *testing.T) {
	u := &model.User{
		RequestsToday:   2,
		RequestsTodayAt: time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC),
	}
	if Stale(u, time.Date(2026, 3, 1, 23, 59, 30, 0, time.UTC)) {
		t.Error("counter from the same day reported stale")
	}
	if got := ConsumedToday(u, time.Date(2026, 3, 1, 23, 59, 30, 0, time.UTC)); got != 2 {
		t.Errorf("ConsumedToday = %d, want 2", got)
	}
	after := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)
	if !Stale(u, after) {
		t.Error("counter from the previous day not reported stale")
	}
	if got := ConsumedToday(u, after); got != 0 {
		t.Errorf("ConsumedToday after rollover = %d, want 0", got)
	}
}

func TestEffectiveLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		user model.User
		plan *model.PremiumPlan
		want int
	}{
		{"free", model.User{}, nil, 2},
		{
			"premium with plan limit",
			model.User{IsPremium: true, PremiumExpiresAt: &future},
			&model.PremiumPlan{RequestLimit: 50},
			50,
		},
		{
			"premium without plan falls back to global",
			model.User{IsPremium: true, PremiumExpiresAt: &future},
			nil,
			20,
		},
		{
			"premium plan with zero limit falls back to global",
			model.User{IsPremium: true, PremiumExpiresAt: &future},
			&model.PremiumPlan{},
			20,
		},
		{
			"expired premium drops to free",
			model.User{IsPremium: true, PremiumExpiresAt: &past},
			&model.PremiumPlan{RequestLimit: 50},
			2,
		},
		{
			"premium without expiry never expires",
			model.User{IsPremium: true},
			&model.PremiumPlan{RequestLimit: 50},
			50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveLimit(&tt.user, tt.plan, settings(), now); got != tt.want {
				t.Errorf("EffectiveLimit = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemainingAndExceeded(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	u := &model.User{RequestsToday: 1, RequestsTodayAt: now}
	if got := Remaining(u, nil, settings(), now); got != 1 {
		t.Errorf("Remaining = %d, want 1", got)
	}
	if Exceeded(u, nil, settings(), now) {
		t.Error("Exceeded with one slot left")
	}

	u.RequestsToday = 2
	if got := Remaining(u, nil, settings(), now); got != 0 {
		t.Errorf("Remaining at limit = %d, want 0", got)
	}
	if !Exceeded(u, nil, settings(), now) {
		t.Error("not Exceeded at limit")
	}

	// a limit lowered below the consumed count must not go negative
	u.RequestsToday = 5
	if got := Remaining(u, nil, settings(), now); got != 0 {
		t.Errorf("Remaining over limit = %d, want 0", got)
	}

	// premium with 3 spent out of 50
	p := &model.User{
		IsPremium:        true,
		PremiumExpiresAt: &future,
		RequestsToday:    3,
		RequestsTodayAt:  now,
	}
	plan := &model.PremiumPlan{RequestLimit: 50}
	if got := Remaining(p, plan, settings(), now); got != 47 {
		t.Errorf("premium Remaining = %d, want 47", got)
	}

	// stale counter reads as a full allowance
	u.RequestsTodayAt = now.Add(-48 * time.Hour)
	if Exceeded(u, nil, settings(), now) {
		t.Error("Exceeded with a stale counter")
	}
	if got := Remaining(u, nil, settings(), now); got != 2 {
		t.Errorf("stale Remaining = %d, want 2", got)
	}
}
