package cli

import (
	"fmt"
	"time"
)

// Store backends accepted by --store.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Options carries the flags shared by the motionplan commands.
type Options struct {
	ConfigPath    string
	PrimitivesDir string

	Workers    int
	Sequential bool

	// CheckersPath lists external solution checkers; Checker selects one by name.
	CheckersPath string
	Checker      string

	Store         string
	ReportsDir    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ReportTTL     time.Duration
	SQLiteDSN     string

	JSON     bool
	LogLevel string
}

func (o Options) validate() error {
	switch o.Store {
	case StoreFile, StoreRedis, StoreSQLite, StoreMemory:
	case "":
		return fmt.Errorf("--store is required")
	default:
		return fmt.Errorf("unknown store %q (want file, redis, sqlite or memory)", o.Store)
	}
	if o.Workers < 0 {
		return fmt.Errorf("--workers must not be negative")
	}
	if o.Store == StoreSQLite && o.SQLiteDSN == "" {
		return fmt.Errorf("--sqlite-dsn is required for the sqlite store")
	}
	return nil
}
