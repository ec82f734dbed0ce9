package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campus-food-api/models"

	"github.com/glebarez/sqlite"
)

// Config holds all process configuration. It is constructed once in main
// and passed into components; business logic never reads the environment.
type Config struct {
	Port           string `envconfig:"PORT" default:"8080"`
	GinMode        string `envconfig:"GIN_MODE" default:"debug"`
	DBPath         string `envconfig:"DB_PATH" default:"campus_food.db"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"campus_food_super_secret_2024"`
	GoogleClientID string `envconfig:"GOOGLE_CLIENT_ID"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	return &cfg, nil
}

// SigningKey returns the JWT signing key as bytes.
func (c *Config) SigningKey() []byte {
	return []byte(c.JWTSecret)
}

// OpenDB opens the sqlite database and migrates all models.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates every model. Split out so tests can migrate an
// in-memory database without going through OpenDB.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.College{},
		&models.Canteen{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	return errors.Wrap(err, "migrate database")
}
