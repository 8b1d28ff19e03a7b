// Package conversation persists chat sessions, their messages and the latest
// recommendation round of each session.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ecospirit/greenmap/internal/config"
	"github.com/ecospirit/greenmap/internal/core/model"
)

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}
	return NewStore(db, log)
}

func NewStore(db *gorm.DB, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&Session{}, &Message{}, &Recommendation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate conversation schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSession creates the session if it does not exist yet.
func (s *Store) EnsureSession(ctx context.Context, sessionID string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Session{ID: sessionID}).Error
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", sessionID, err)
	}
	return nil
}

func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	if err := s.EnsureSession(ctx, sessionID); err != nil {
		return err
	}
	msg := Message{SessionID: sessionID, Role: role, Content: content}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return fmt.Errorf("failed to save %s message: %w", role, err)
	}
	return nil
}

// History returns up to limit of the session's most recent messages,
// oldest first.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	var rows []Message
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", sessionID, err)
	}

	out := make([]model.ChatMessage, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = model.ChatMessage{Role: row.Role, Content: row.Content}
	}
	return out, nil
}

// ReplaceRecommendations swaps the session's recommendation set for recs in
// one transaction. Duplicate building ids keep their first entry.
func (s *Store) ReplaceRecommendations(ctx context.Context, sessionID string, recs []model.Recommendation) error {
	rows := make([]Recommendation, 0, len(recs))
	seen := make(map[int]bool, len(recs))
	for _, r := range recs {
		if seen[r.BuildingID] {
			continue
		}
		seen[r.BuildingID] = true
		rows = append(rows, Recommendation{
			SessionID:  sessionID,
			BuildingID: r.BuildingID,
			Reason:     r.Reason,
			Score:      r.Score,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&Recommendation{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save recommendations for %s: %w", sessionID, err)
	}

	s.log.Debug("session recommendations replaced", zap.String("session_id", sessionID), zap.Int("count", len(rows)))
	return nil
}

// Recommendations returns the session's latest set, best score first.
func (s *Store) Recommendations(ctx context.Context, sessionID string) ([]model.Recommendation, error) {
	var rows []Recommendation
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("score DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations for %s: %w", sessionID, err)
	}

	out := make([]model.Recommendation, len(rows))
	for i, row := range rows {
		out[i] = model.Recommendation{BuildingID: row.BuildingID, Reason: row.Reason, Score: row.Score}
	}
	return out, nil
}
