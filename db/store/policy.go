package store

import (
	"context"
	"errors"

	"github.com/nikahapp/matrimony-backend/db"
	"github.com/nikahapp/matrimony-backend/db/model"
	"gorm.io/gorm"
)

type Policies struct{}

// Settings returns the global settings singleton, creating it with
// defaults on first read.
func (Policies) Settings(ctx context.Context) (*model.AppSettings, error) {
	var s model.AppSettings
	err := db.GetDB(ctx).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	s = model.AppSettings{
		FreeUserRequestLimit:    2,
		PremiumUserRequestLimit: 20,
		ProfileDisplayFields:    model.DefaultDisplayFields(),
		EnabledFilters:          model.DefaultFilters(),
	}
	if err := db.GetDB(ctx).Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (Policies) Plan(ctx context.Context, id uint) (*model.PremiumPlan, error) {
	var p model.PremiumPlan
	err := db.GetDB(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
