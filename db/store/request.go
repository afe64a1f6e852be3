// Package store provides the gorm-backed implementations of the
// collaborator interfaces consumed by the ledger and the api handlers.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/ledger"
	"gorm.io/gorm"
)

type Requests struct{}

func (Requests) GetOrdered(ctx context.Context, from, to uint) (*model.Request, error) {
	var r model.Request
	err := db.GetDB(ctx).Where("from_id = ? AND to_id = ?", from, to).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (Requests) GetPhoto(ctx context.Context, a, b uint) (*model.Request, error) {
	var r model.Request
	err := db.GetDB(ctx).
		Where("kind = ? AND ((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?))",
			model.KindPhoto, a, b, b, a).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (Requests) GetByID(ctx context.Context, id uint) (*model.Request, error) {
	var r model.Request
	err := db.GetDB(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (Requests) Create(ctx context.Context, r *model.Request) error {
	if err := db.GetDB(ctx).Create(r).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ledger.ErrDuplicatePair
		}
		return err
	}
	return nil
}

func (Requests) Save(ctx context.Context, r *model.Request) error {
	return db.GetDB(ctx).Save(r).Error
}

// Delete removes the row for good. A soft delete would keep the ordered
// pair occupied in the unique index and block resubmission.
func (Requests) Delete(ctx context.Context, id uint) error {
	return db.GetDB(ctx).Unscoped().Delete(&model.Request{}, id).Error
}

func (Requests) DeleteBetween(ctx context.Context, a, b uint) error {
	return db.GetDB(ctx).Unscoped().
		Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)", a, b, b, a).
		Delete(&model.Request{}).Error
}

func (Requests) ListIncoming(ctx context.Context, to uint) ([]model.Request, error) {
	rs := make([]model.Request, 0)
	err := db.GetDB(ctx).
		Where("to_id = ? AND status = ?", to, model.StatusPending).
		Order("created_at DESC").
		Preload("From").
		Find(&rs).Error
	return rs, err
}

func (Requests) ListPendingAll(ctx context.Context, limit int) ([]model.Request, error) {
	rs := make([]model.Request, 0)
	err := db.GetDB(ctx).
		Where("status = ?", model.StatusPending).
		Order("created_at DESC").
		Limit(limit).
		Preload("From").
		Preload("To").
		Find(&rs).Error
	return rs, err
}

func (Requests) Connected(ctx context.Context, a, b uint) (bool, error) {
	var ct int64
	err := db.GetDB(ctx).Model(&model.Request{}).
		Where("status = ? AND kind <> ? AND ((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?))",
			model.StatusAccepted, model.KindPhoto, a, b, b, a).
		Count(&ct).Error
	return ct > 0, err
}

func (Requests) AcceptedPeerIDs(ctx context.Context, userID uint) ([]uint, error) {
	rs := make([]model.Request, 0)
	err := db.GetDB(ctx).
		Select("from_id", "to_id").
		Where("status = ? AND kind <> ? AND (from_id = ? OR to_id = ?)",
			model.StatusAccepted, model.KindPhoto, userID, userID).
		Find(&rs).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]bool, len(rs))
	ids := make([]uint, 0, len(rs))
	for _, r := range rs {
		other := r.FromID
		if other == userID {
			other = r.ToID
		}
		if other != userID && !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}
