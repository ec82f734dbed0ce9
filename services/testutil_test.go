package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campus-food-api/config"
	"campus-food-api/models"
)

// newTestDB opens a private in-memory database. A single pooled connection
// keeps the memory database alive and serializes store access the way a
// real sqlite file would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCanteen(t *testing.T, db *gorm.DB, name, phone string, vendorID *uint) *models.Canteen {
	t.Helper()
	canteen := &models.Canteen{Name: name, VendorPhone: phone, VendorID: vendorID}
	require.NoError(t, db.Create(canteen).Error)
	return canteen
}

func seedMenuItem(t *testing.T, db *gorm.DB, canteenID uint, name string, price int64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{CanteenID: canteenID, Name: name, Price: price}
	require.NoError(t, db.Create(item).Error)
	return item
}
