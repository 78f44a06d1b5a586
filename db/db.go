package db

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var ErrUnknownDriver = errors.New("unknown database driver")

func DefaultOptions() url.Values {
	return url.Values{
		// with this, the db sleeps for a little while when locked. can prevent
		// a SQLITE_BUSY. see https://www.sqlite.org/c3ref/busy_timeout.html
		"_busy_timeout": {"30000"},
		"_journal_mode": {"WAL"},
		"_foreign_keys": {"true"},
	}
}

func mockOptions() url.Values {
	return url.Values{
		"_foreign_keys": {"true"},
	}
}

type DB struct {
	*gorm.DB
}

// New opens the sqlite database at path
func New(path string, options url.Values) (*DB, error) {
	url := url.URL{Scheme: "file", Opaque: path}
	url.RawQuery = options.Encode()
	return open(DriverSQLite, url.String())
}

// NewDSN opens a database for one of the server drivers. sqlite3 is accepted
// too, in which case dsn is taken as is
func NewDSN(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("no dsn provided for driver %q", driver)
	}
	dsn, err := normaliseDSN(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("parse %s dsn: %w", driver, err)
	}
	return open(driver, dsn)
}

// normaliseDSN makes sure times round trip through the server drivers. mysql
// needs to be told to parse DATETIME columns, and postgres urls are turned
// into the key/value form
func normaliseDSN(driver, dsn string) (string, error) {
	switch driver {
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN(), nil
	case DriverPostgres:
		if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			return dsn, nil
		}
		return pq.ParseURL(dsn)
	default:
		return dsn, nil
	}
}

func NewMock() (*DB, error) {
	return open(DriverSQLite, ":memory:?"+mockOptions().Encode())
}

// Wrap is used to put an already opened gorm handle behind a *DB, eg. one
// backed by a mock sql driver
func Wrap(db *gorm.DB) *DB {
	return &DB{DB: db}
}

func open(driver, source string) (*DB, error) {
	db, err := gorm.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("with gorm: %w", err)
	}
	db.SetLogger(log.New(os.Stdout, "gorm ", 0))
	if driver == DriverSQLite {
		// one writer at a time, and the in memory db lives on a single connection
		db.DB().SetMaxOpenConns(1)
	}
	return &DB{DB: db}, nil
}

func (db *DB) GetSetting(key SettingKey) (string, error) {
	var setting Setting
	if err := db.Where(Setting{Key: key}).First(&setting).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return setting.Value, nil
}

func (db *DB) SetSetting(key SettingKey, value string) error {
	return db.
		Where(Setting{Key: key}).
		Assign(Setting{Value: value}).
		FirstOrCreate(&Setting{}).
		Error
}

// Transaction runs cb in a transaction, rolling back if cb returns an error or
// the commit fails
func (db *DB) Transaction(cb func(tx *DB) error) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		return cb(&DB{DB: tx})
	})
}
