package db

import (
	"time"

	"github.com/rs/zerolog/log"

	models "github.com/grvlle/qanda/model"
	"github.com/pkg/errors"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"    //Dialect
	_ "github.com/jinzhu/gorm/dialects/postgres" //Dialect
	_ "github.com/jinzhu/gorm/dialects/sqlite"   //Dialect
)

// Database wraps the gorm connection and carries every
// repository operation of the application.
type Database struct {
	*gorm.DB
}

// Options describes how to reach the relational store.
type Options struct {
	Dialect         string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

// InitializeDB opens the connection described by opts, applies the
// pool settings and migrates the schema.
func InitializeDB(opts Options) (*Database, error) {
	conn, err := gorm.Open(opts.Dialect, opts.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s database", opts.Dialect)
	}
	log.Info().Str("dialect", opts.Dialect).Msg("Successfully connected to the database.")

	if opts.ConnMaxLifetime > 0 {
		conn.DB().SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.MaxIdleConns > 0 {
		conn.DB().SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		conn.DB().SetMaxOpenConns(opts.MaxOpenConns)
	}
	conn.SetLogger(Logger{log.Logger})
	conn.LogMode(opts.Debug)

	db := &Database{conn}
	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates missing tables, columns and indexes.
func (db *Database) Migrate() error {
	if err := db.AutoMigrate(models.All()...).Error; err != nil {
		return errors.Wrap(err, "unable to migrate database")
	}
	log.Info().Msg("Database migration successful.")
	return nil
}

// CreateNewDBRecord inserts record using conn, which is either the
// database itself or an open transaction.
func CreateNewDBRecord(conn *gorm.DB, record interface{}) error {
	if !conn.NewRecord(record) {
		log.Warn().Msg("The value's primary key is not blank")
	}
	if err := conn.Create(record).Error; err != nil {
		return errors.Wrapf(err, "unable to create %T record", record)
	}
	log.Debug().Msgf("A new %T record was successfully added.", record)
	return nil
}
