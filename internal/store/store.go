// Package store persists player preferences and session history in a small
// SQLite database. Every read falls back to a documented default and every
// failure is logged and swallowed by the convenience accessors, so a broken
// disk never stops a game.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Preference keys.
const (
	KeyTruckStyle    = "truck_style"
	KeyHydrantStyle  = "hydrant_style"
	KeyDevMode       = "dev_mode"
	KeyVoiceEnabled  = "voice_enabled"
	KeyTotalFires    = "total_fires"
	KeyTotalSessions = "total_sessions"
	KeyBestScore     = "best_score"
)

// Defaults holds the value used for any key that has never been written.
var Defaults = map[string]string{
	KeyTruckStyle:    "classic",
	KeyHydrantStyle:  "red",
	KeyDevMode:       "false",
	KeyVoiceEnabled:  "true",
	KeyTotalFires:    "0",
	KeyTotalSessions: "0",
	KeyBestScore:     "0",
}

// Setting is one key-value row.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

// Session is one finished fire rescue level.
type Session struct {
	ID                string `gorm:"primaryKey;size:36"`
	StartedAt         time.Time
	EndedAt           time.Time `gorm:"index"`
	FiresExtinguished int
	WaterUsed         float64
	Shots             int
	Hits              int
	ResponseMillis    int64
	Score             int
	Grade             string `gorm:"size:2"`
	Achievements      string // comma separated IDs
}

// Store wraps the settings database.
type Store struct {
	db     *gorm.DB
	log    zerolog.Logger
	closed bool
}

// Open opens (creating if needed) the database at path. An empty path
// keeps everything in memory for the life of the process.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open settings db %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Setting{}, &Session{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate settings db: %w", err)
	}

	s := &Store{db: db, log: log.With().Str("component", "store").Logger()}
	if path == "" {
		s.log.Info().Msg("using in-memory settings store")
	} else {
		s.log.Info().Str("path", path).Msg("using settings store")
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// Lookup returns the stored value for key. ok is false when the key has
// never been written.
func (s *Store) Lookup(key string) (value string, ok bool, err error) {
	if s.closed {
		return "", false, ErrClosed
	}
	var row Setting
	err = s.db.Where(&Setting{Key: key}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return row.Value, true, nil
}

// Put writes key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	if s.closed {
		return ErrClosed
	}
	row := Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Get returns key's value, or its default when unset or unreadable.
func (s *Store) Get(key string) string {
	v, ok, err := s.Lookup(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("settings read failed, using default")
	}
	if !ok {
		return Defaults[key]
	}
	return v
}

// Set writes key. Failures are logged and otherwise ignored.
func (s *Store) Set(key, value string) {
	if err := s.Put(key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("settings write failed")
	}
}

// GetBool reads a boolean key; unparsable values use the default.
func (s *Store) GetBool(key string) bool {
	b, err := strconv.ParseBool(s.Get(key))
	if err != nil {
		b, _ = strconv.ParseBool(Defaults[key])
	}
	return b
}

// SetBool writes a boolean key.
func (s *Store) SetBool(key string, v bool) {
	s.Set(key, strconv.FormatBool(v))
}

// GetInt reads an integer key; unparsable values use the default.
func (s *Store) GetInt(key string) int {
	n, err := strconv.Atoi(s.Get(key))
	if err != nil {
		n, _ = strconv.Atoi(Defaults[key])
	}
	return n
}

// SetInt writes an integer key.
func (s *Store) SetInt(key string, v int) {
	s.Set(key, strconv.Itoa(v))
}

// Prefs is the persisted player state read at startup.
type Prefs struct {
	TruckStyle    string
	HydrantStyle  string
	DevMode       bool
	VoiceEnabled  bool
	TotalFires    int
	TotalSessions int
	BestScore     int
}

// Prefs reads every preference, applying defaults.
func (s *Store) Prefs() Prefs {
	return Prefs{
		TruckStyle:    s.Get(KeyTruckStyle),
		HydrantStyle:  s.Get(KeyHydrantStyle),
		DevMode:       s.GetBool(KeyDevMode),
		VoiceEnabled:  s.GetBool(KeyVoiceEnabled),
		TotalFires:    s.GetInt(KeyTotalFires),
		TotalSessions: s.GetInt(KeyTotalSessions),
		BestScore:     s.GetInt(KeyBestScore),
	}
}

// RecordSession stores a finished session under a fresh ID and rolls its
// numbers into the cumulative totals.
func (s *Store) RecordSession(sess Session) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.EndedAt.IsZero() {
		sess.EndedAt = time.Now()
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	s.SetInt(KeyTotalFires, s.GetInt(KeyTotalFires)+sess.FiresExtinguished)
	s.SetInt(KeyTotalSessions, s.GetInt(KeyTotalSessions)+1)
	if sess.Score > s.GetInt(KeyBestScore) {
		s.SetInt(KeyBestScore, sess.Score)
	}
	return sess.ID, nil
}

// RecentSessions returns up to n sessions, newest first.
func (s *Store) RecentSessions(n int) ([]Session, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var out []Session
	if err := s.db.Order("ended_at desc").Limit(n).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}
