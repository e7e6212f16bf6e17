package repo

import (
	"errors"
	"strings"

	gormpg "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"MedMonitor/internal/model"
)

// InitDB открывает соединение с БД и прогоняет автомиграции.
// Диалект выбирается по DSN: postgres:// — PostgreSQL, иначе —
// файл (или :memory:) SQLite через pure-Go драйвер modernc.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty database DSN")
	}

	var dial gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dial = gormpg.Open(dsn)
	} else {
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Device{},
		&model.VitalSign{},
		&model.Alert{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
