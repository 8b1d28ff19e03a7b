// Package dataset reads and writes the building collection.
//
// The whole collection lives in one GeoJSON object. Every mutation is a
// read-modify-write of that object followed by a full overwrite. Mutations
// made through one Store are serialized by a writer lock, so a single process
// never loses its own updates. Processes sharing the backing object are not
// coordinated: the last full write wins.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ecospirit/greenmap/internal/apperr"
	"github.com/ecospirit/greenmap/internal/core/model"
	"github.com/ecospirit/greenmap/internal/driver"
)

const DefaultKey = "vacant_buildings.geojson"

type Store struct {
	driver driver.ObjectDriver
	key    string
	log    *zap.Logger

	writeMu sync.Mutex
}

func NewStore(d driver.ObjectDriver, key string, log *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{driver: d, key: key, log: log}
}

// ReadAll returns the stored collection. It fails with a not-found error when
// the object does not exist.
func (s *Store) ReadAll(ctx context.Context) (*model.FeatureCollection, error) {
	data, err := s.driver.Get(ctx, s.key)
	if errors.Is(err, driver.ErrObjectNotFound) {
		return nil, apperr.NotFound("GeoJSON file %s not found in object store", s.key)
	}
	if err != nil {
		return nil, err
	}

	var fc model.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	if fc.Features == nil {
		fc.Features = []*model.Feature{}
	}
	return &fc, nil
}

// WriteAll overwrites the stored collection. There is no merge and no
// version check.
func (s *Store) WriteAll(ctx context.Context, fc *model.FeatureCollection) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write(ctx, fc)
}

func (s *Store) write(ctx context.Context, fc *model.FeatureCollection) error {
	if fc.Type == "" {
		fc.Type = model.FeatureCollectionType
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := s.driver.Put(ctx, s.key, data, "application/json"); err != nil {
		return err
	}
	s.log.Debug("dataset written", zap.String("key", s.key), zap.Int("features", len(fc.Features)))
	return nil
}

// Mutate runs fn over the current collection under the writer lock and
// writes the result back. Nothing is written when fn fails.
func (s *Store) Mutate(ctx context.Context, fn func(fc *model.FeatureCollection) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	fc, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}
	if err := fn(fc); err != nil {
		return err
	}
	return s.write(ctx, fc)
}

// UpdateOne patches a single building.
func (s *Store) UpdateOne(ctx context.Context, id int, patch model.BuildingPatch) error {
	return s.Mutate(ctx, func(fc *model.FeatureCollection) error {
		f := fc.Find(id)
		if f == nil {
			return apperr.NotFound("building with id %d not found", id)
		}
		patch.Apply(&f.Properties)
		return nil
	})
}

// ClearAllRecommendations resets the recommendation state of every building.
func (s *Store) ClearAllRecommendations(ctx context.Context) error {
	return s.Mutate(ctx, func(fc *model.FeatureCollection) error {
		for _, f := range fc.Features {
			f.Properties.ClearRecommendation()
		}
		return nil
	})
}

// SetRecommendations clears every building's recommendation state and then
// flags exactly the buildings in recs. Ids that match no building are skipped.
func (s *Store) SetRecommendations(ctx context.Context, recs []model.Recommendation) error {
	return s.Mutate(ctx, func(fc *model.FeatureCollection) error {
		for _, f := range fc.Features {
			f.Properties.ClearRecommendation()
		}

		applied := 0
		for _, rec := range recs {
			f := fc.Find(rec.BuildingID)
			if f == nil {
				s.log.Warn("recommended building not in dataset", zap.Int("building_id", rec.BuildingID))
				continue
			}
			score := rec.Score
			f.Properties.Recommended = true
			f.Properties.RecommendationReason = rec.Reason
			f.Properties.RecommendationScore = &score
			applied++
		}

		s.log.Info("recommendations applied", zap.Int("requested", len(recs)), zap.Int("applied", applied))
		return nil
	})
}

// SaveSnapshot writes v as pretty-printed JSON under key, next to the
// collection. It does not take the writer lock.
func (s *Store) SaveSnapshot(ctx context.Context, key string, v any) error {
	if key == s.key {
		return apperr.Validation("snapshot key %s collides with the dataset", key)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.driver.Put(ctx, key, data, "application/json")
}
