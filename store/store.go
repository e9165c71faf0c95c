package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexora/lexora-server/forms"
	"github.com/lexora/lexora-server/internal/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the relational store behind users, forms and lawyer plans.
type Store struct {
	db     *gorm.DB
	driver string
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		PrepareStmt:    true,
	}
}

// Open connects to the database selected by driver.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DBDriverSqlite:
		dialector = sqlite.Open(dsn)
	case config.DBDriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DBDriverMysql:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("[Store Open] unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("[Store Open] %s: %w", driver, err)
	}
	log.Info().Str("driver", driver).Msg("database connected")

	s := &Store{db: db, driver: driver}
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Users() *UserStore {
	return &UserStore{db: s.db}
}

func (s *Store) Forms() *FormStore {
	return &FormStore{db: s.db}
}

func (s *Store) Plans() *PlanStore {
	return &PlanStore{db: s.db}
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("[Store Ping] get db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("[Store Ping] %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("[Store Close] get db: %w", err)
	}
	return sqlDB.Close()
}

// Migrate creates or updates every table and seeds the default form
// categories into an empty category table.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&userModel{}, &categoryModel{}, &formModel{}, &downloadModel{}, &lawyerModel{}); err != nil {
		return fmt.Errorf("[Store Migrate] auto migrate: %w", err)
	}

	var categories int64
	if err := db.Model(&categoryModel{}).Count(&categories).Error; err != nil {
		return fmt.Errorf("[Store Migrate] count categories: %w", err)
	}
	if categories > 0 {
		return nil
	}

	seed := make([]categoryModel, 0, len(forms.DefaultCategories()))
	for _, c := range forms.DefaultCategories() {
		seed = append(seed, categoryModel{Name: c.Name, DisplayOrder: c.DisplayOrder, IsActive: c.IsActive})
	}
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("[Store Migrate] seed categories: %w", err)
	}
	log.Info().Int("count", len(seed)).Msg("seeded default form categories")
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
