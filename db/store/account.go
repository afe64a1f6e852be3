package store

import (
	"context"
	"errors"
	"time"

	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/quota"
	"gorm.io/gorm"
)

type Accounts struct{}

func (Accounts) Get(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := db.GetDB(ctx).
		Preload("BlockedUsers").
		Preload("RejectedUsers").
		Preload("Sessions").
		First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ConsumeQuota spends one unit in a single UPDATE: a counter from a
// previous UTC day restarts at 1, otherwise it increments. The caller's
// copy is refreshed to match.
func (Accounts) ConsumeQuota(ctx context.Context, u *model.User, now time.Time) error {
	start := quota.StartOfDayUTC(now)
	err := db.GetDB(ctx).Model(&model.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"requests_today":    gorm.Expr("CASE WHEN requests_today_at < ? THEN 1 ELSE requests_today + 1 END", start),
			"requests_today_at": now,
		}).Error
	if err != nil {
		return err
	}
	if quota.Stale(u, now) {
		u.RequestsToday = 1
	} else {
		u.RequestsToday++
	}
	u.RequestsTodayAt = now
	return nil
}
