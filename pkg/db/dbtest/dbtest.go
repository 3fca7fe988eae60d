// Package dbtest opens throwaway databases for repository and service tests.
package dbtest

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresDSNEnv points integration tests at a real Postgres instance.
const PostgresDSNEnv = "PROYEC_TEST_DB_DSN"

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_")

// SQLite returns an in-memory database private to t with every model migrated.
// It is closed when the test ends.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", nameReplacer.Replace(t.Name()))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.New(log.New(io.Discard, "", 0), gormlogger.Config{LogLevel: gormlogger.Silent}),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// Postgres connects to the database named by PROYEC_TEST_DB_DSN, skipping
// the test when it is unset. The schema is expected to be migrated already.
func Postgres(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", PostgresDSNEnv)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

// Count returns the number of rows in the model's table.
func Count(t testing.TB, conn *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	if err := conn.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
