package cfsdb

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/teachstack/coursefs/pkg/cfsdb/cfsmodel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteInMemoryDSN is the DSN tests use to create a shared in-memory
// database. Callers must set MaxOpenConns to 1 so every connection sees the
// same database.
const SqliteInMemoryDSN = "file::memory:?cache=shared"

func MakeDSNFromEnv() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("CFS_DB_USERNAME"),
		os.Getenv("CFS_DB_PASSWORD"),
		os.Getenv("CFS_DB_HOST"),
		os.Getenv("CFS_DB_PORT"),
		os.Getenv("CFS_DB_DATABASE"))
}

const maxDBRetries = 5

// MustConnectToDB will attempt to connect to the database maxDBRetries times. If it isn't successful
// after that number of retries then it will call log.Fatalf(), which will cause the server to exit.
// Between retry attempts it will sleep for 3 seconds.
func MustConnectToDB() *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	retryCount := 1
	for {
		db, err = gorm.Open(mysql.Open(MakeDSNFromEnv()), gormConfig)
		switch {
		case err == nil:
			// Connected to db, yay!
			return db
		case retryCount >= maxDBRetries:
			// Retry limit exceeded :-(
			log.Fatalf("Failed to open db (%s): %s", MakeDSNFromEnv(), err)
		default:
			// Couldn't connect, so increment count, then wait a bit before trying again.
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}

// RunMigrations creates the file-browser schema. Production runs against a
// schema managed externally; this exists for sqlite test databases and for
// bootstrapping a fresh install.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&cfsmodel.User{},
		&cfsmodel.FileRecord{},
		&cfsmodel.FileView{},
		&cfsmodel.ClipboardEntry{},
		&cfsmodel.ExpandedFolder{},
		&cfsmodel.BrowserSize{},
		&cfsmodel.BrowserLast{},
		&cfsmodel.Assignment{},
	)
}
