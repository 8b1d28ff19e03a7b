package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecospirit/greenmap/internal/apperr"
	"github.com/ecospirit/greenmap/internal/core/model"
	"github.com/ecospirit/greenmap/internal/driver"
)

func seedStore(t *testing.T, ids ...int) *Store {
	t.Helper()
	s := NewStore(driver.NewMemoryDriver(), "", nil)

	fc := model.NewFeatureCollection()
	for _, id := range ids {
		fc.Features = append(fc.Features, model.NewFeature(
			orb.Point{-71.1 + float64(id)/1000, 42.37},
			model.Building{ID: id, Address: "Addr", District: "Central Square"},
		))
	}
	require.NoError(t, s.WriteAll(context.Background(), fc))
	return s
}

func recommendedIDs(t *testing.T, s *Store) []int {
	t.Helper()
	fc, err := s.ReadAll(context.Background())
	require.NoError(t, err)

	var ids []int
	for _, f := range fc.Features {
		if f.Properties.Recommended {
			ids = append(ids, f.Properties.ID)
		}
	}
	return ids
}

func TestReadAll_NotFound(t *testing.T) {
	s := NewStore(driver.NewMemoryDriver(), "", nil)
	_, err := s.ReadAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestWriteAll_RoundTrip(t *testing.T) {
	d := driver.NewMemoryDriver()
	s := NewStore(d, "buildings.geojson", nil)
	ctx := context.Background()

	score := 81
	fc := model.NewFeatureCollection()
	fc.Features = append(fc.Features, model.NewFeature(orb.Point{-71.12, 42.38}, model.Building{
		ID: 7, Address: "1 Main St", GreenScore: &score,
	}))
	require.NoError(t, s.WriteAll(ctx, fc))

	raw, err := d.Get(ctx, "buildings.geojson")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	feature := doc["features"].([]any)[0].(map[string]any)
	assert.Equal(t, "Feature", feature["type"])
	assert.Equal(t, "Point", feature["geometry"].(map[string]any)["type"])
	assert.Equal(t, "1 Main St", feature["properties"].(map[string]any)["Address"])

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got.Features, 1)
	pt, ok := got.Features[0].Point()
	require.True(t, ok)
	assert.Equal(t, orb.Point{-71.12, 42.38}, pt)
	assert.Equal(t, 81, *got.Features[0].Properties.GreenScore)
}

func TestUpdateOne(t *testing.T) {
	s := seedStore(t, 1, 2, 3)
	ctx := context.Background()

	score := 64
	reason := "near transit"
	require.NoError(t, s.UpdateOne(ctx, 2, model.BuildingPatch{GreenScore: &score, RecommendationReason: &reason}))

	fc, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 64, *fc.Find(2).Properties.GreenScore)
	assert.Equal(t, "near transit", fc.Find(2).Properties.RecommendationReason)
	assert.Nil(t, fc.Find(1).Properties.GreenScore)
	assert.Equal(t, "Addr", fc.Find(2).Properties.Address, "static attributes are untouched")
}

func TestUpdateOne_NotFound(t *testing.T) {
	s := seedStore(t, 1)
	err := s.UpdateOne(context.Background(), 99, model.BuildingPatch{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSetRecommendations_ReplacesWholesale(t *testing.T) {
	s := seedStore(t, 1, 2, 3, 4, 5)
	ctx := context.Background()

	require.NoError(t, s.SetRecommendations(ctx, []model.Recommendation{
		{BuildingID: 1, Reason: "a", Score: 90},
		{BuildingID: 2, Reason: "b", Score: 80},
	}))
	assert.Equal(t, []int{1, 2}, recommendedIDs(t, s))

	require.NoError(t, s.SetRecommendations(ctx, []model.Recommendation{
		{BuildingID: 3, Reason: "c", Score: 70},
		{BuildingID: 42, Reason: "unknown", Score: 10},
	}))
	assert.Equal(t, []int{3}, recommendedIDs(t, s))

	fc, err := s.ReadAll(ctx)
	require.NoError(t, err)
	b1 := fc.Find(1).Properties
	assert.False(t, b1.Recommended)
	assert.Empty(t, b1.RecommendationReason)
	assert.Nil(t, b1.RecommendationScore)

	b3 := fc.Find(3).Properties
	assert.Equal(t, "c", b3.RecommendationReason)
	require.NotNil(t, b3.RecommendationScore)
	assert.Equal(t, 70.0, *b3.RecommendationScore)
}

func TestClearAllRecommendations_Idempotent(t *testing.T) {
	s := seedStore(t, 1, 2, 3)
	ctx := context.Background()
	require.NoError(t, s.SetRecommendations(ctx, []model.Recommendation{{BuildingID: 2, Reason: "x", Score: 50}}))

	require.NoError(t, s.ClearAllRecommendations(ctx))
	once, err := s.ReadAll(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ClearAllRecommendations(ctx))
	twice, err := s.ReadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Empty(t, recommendedIDs(t, s))
}

func TestConcurrentUpdates_NoLostWrites(t *testing.T) {
	ids := make([]int, 20)
	for i := range ids {
		ids[i] = i + 1
	}
	s := seedStore(t, ids...)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			score := id
			assert.NoError(t, s.UpdateOne(ctx, id, model.BuildingPatch{GreenScore: &score}))
		}(id)
	}
	wg.Wait()

	fc, err := s.ReadAll(ctx)
	require.NoError(t, err)
	for _, f := range fc.Features {
		require.NotNil(t, f.Properties.GreenScore, "building %d lost its update", f.Properties.ID)
		assert.Equal(t, f.Properties.ID, *f.Properties.GreenScore)
	}
}

func TestMutate_FailureWritesNothing(t *testing.T) {
	s := seedStore(t, 1)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Mutate(ctx, func(fc *model.FeatureCollection) error {
		fc.Features[0].Properties.Address = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	fc, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Addr", fc.Features[0].Properties.Address)
}

func TestMutate_BlocksOtherWriters(t *testing.T) {
	s := seedStore(t, 1, 2)
	ctx := context.Background()

	entered := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Mutate(ctx, func(fc *model.FeatureCollection) error {
			close(entered)
			time.Sleep(50 * time.Millisecond)
			for _, f := range fc.Features {
				score := 70
				f.Properties.GreenScore = &score
			}
			return nil
		})
	}()
	<-entered

	require.NoError(t, s.SetRecommendations(ctx, []model.Recommendation{{BuildingID: 2, Reason: "transit", Score: 90}}))
	require.NoError(t, <-done)

	assert.Equal(t, []int{2}, recommendedIDs(t, s))
	fc, err := s.ReadAll(ctx)
	require.NoError(t, err)
	for _, f := range fc.Features {
		assert.NotNil(t, f.Properties.GreenScore)
	}
}

func TestSaveSnapshot(t *testing.T) {
	d := driver.NewMemoryDriver()
	s := NewStore(d, "", nil)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, "recommendations.json", map[string]any{"count": 2}))
	raw, err := d.Get(ctx, "recommendations.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 2}`, string(raw))

	err = s.SaveSnapshot(ctx, DefaultKey, map[string]any{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
