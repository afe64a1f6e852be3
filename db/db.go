package db

import (
	"context"
	"os"

	"github.com/nikahapp/matrimony-backend/db/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func init() {
	conn := os.Getenv("DB_CONN")
	var err error
	db, err = gorm.Open(postgres.Open(conn), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	db.AutoMigrate(&model.User{})
	db.AutoMigrate(&model.Session{})
	db.AutoMigrate(&model.Request{})
	db.AutoMigrate(&model.PremiumPlan{})
	db.AutoMigrate(&model.AppSettings{})
}

func GetDB(ctx context.Context) *gorm.DB {
	return db.WithContext(ctx)
}
