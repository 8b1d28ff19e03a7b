package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecospirit/greenmap/internal/apperr"
	"github.com/ecospirit/greenmap/internal/config"
	"github.com/ecospirit/greenmap/internal/conversation"
	"github.com/ecospirit/greenmap/internal/core/model"
	"github.com/ecospirit/greenmap/internal/core/scoring"
	"github.com/ecospirit/greenmap/internal/dataset"
	"github.com/ecospirit/greenmap/internal/driver"
)

type fixture struct {
	advisor   *Advisor
	llm       *MockLLM
	chats     *conversation.Store
	buildings *dataset.Store
}

func newFixture(t *testing.T, scored bool) *fixture {
	t.Helper()
	ctx := context.Background()

	chats, err := conversation.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "chat.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = chats.Close() })

	buildings := dataset.NewStore(driver.NewMemoryDriver(), "", nil)
	fc := model.NewFeatureCollection()
	fc.Features = append(fc.Features,
		model.NewFeature(orb.Point{-71.1189, 42.3736}, model.Building{ID: 1, Address: "1350 Massachusetts Ave", District: "Harvard Square", SquareFootage: "2,400", FormerTenant: "Bookshop"}),
		model.NewFeature(orb.Point{-71.1036, 42.3651}, model.Building{ID: 2, Address: "678 Massachusetts Ave", District: "Central Square", SquareFootage: "5000", FormerTenant: "Bank"}),
		model.NewFeature(orb.Point{-71.085, 42.3625}, model.Building{ID: 3, Address: "300 Main St", District: "Kendall Square", SquareFootage: "1200", FormerTenant: "Cafe"}),
	)
	if scored {
		scoring.ScoreCollection(fc, 2025)
	}
	require.NoError(t, buildings.WriteAll(ctx, fc))

	mock := &MockLLM{}
	return &fixture{
		advisor:   NewAdvisor(chats, buildings, mock, nil),
		llm:       mock,
		chats:     chats,
		buildings: buildings,
	}
}

func TestChat_Validation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.advisor.Chat(ctx, model.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.advisor.Chat(ctx, model.ChatRequest{SessionID: "s1", Message: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Empty(t, f.llm.Calls)
}

func TestChat_NotScored(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	resp, err := f.advisor.Chat(ctx, model.ChatRequest{SessionID: "s1", Message: "find me a cafe spot"})
	require.NoError(t, err)

	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, NotScoredReply, resp.Response)
	assert.Nil(t, resp.Recommendations)
	assert.Empty(t, f.llm.Calls, "no model call without scored buildings")

	history, err := f.chats.History(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.ChatMessage{Role: model.RoleUser, Content: "find me a cafe spot"}, history[0])
	assert.Equal(t, model.ChatMessage{Role: model.RoleAssistant, Content: NotScoredReply}, history[1])
}

func TestChat_RecommendationRound(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.llm.Response = "Got it! Here are 2 great fits:\n```json\n" +
		`{"recommendations":[{"buildingId":3,"score":91,"reason":"Kendall foot traffic"},{"buildingId":1,"score":84,"reason":"Harvard crowds"},{"buildingId":99,"reason":"ghost"}]}` +
		"\n```"

	resp, err := f.advisor.Chat(ctx, model.ChatRequest{SessionID: "s1", Message: "Where should I open a bakery?"})
	require.NoError(t, err)

	assert.Equal(t, "Got it! Here are 2 great fits:", resp.Response)
	assert.Equal(t, []model.EnrichedRecommendation{
		{BuildingID: 3, Score: 91, Reason: "Kendall foot traffic", Address: "300 Main St", District: "Kendall Square"},
		{BuildingID: 1, Score: 84, Reason: "Harvard crowds", Address: "1350 Massachusetts Ave", District: "Harvard Square"},
		{BuildingID: 99, Score: 0, Reason: "ghost"},
	}, resp.Recommendations)

	require.Len(t, f.llm.Calls, 1)
	assert.Equal(t, recommendationOptions, f.llm.Options[0])
	msgs := f.llm.Calls[0]
	require.Len(t, msgs, 3)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "You have access to 3 vacant buildings")
	assert.Contains(t, msgs[1].Content, "Building 3: 300 Main St in Kendall Square - 1200 sqft, Former: Cafe, Green Score: ")
	assert.Equal(t, model.ChatMessage{Role: model.RoleUser, Content: "Where should I open a bakery?"}, msgs[2])

	recs, err := f.chats.Recommendations(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 3, recs[0].BuildingID)

	fc, err := f.buildings.ReadAll(ctx)
	require.NoError(t, err)
	assert.True(t, fc.Find(3).Properties.Recommended)
	assert.True(t, fc.Find(1).Properties.Recommended)
	assert.False(t, fc.Find(2).Properties.Recommended)

	history, err := f.chats.History(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Got it! Here are 2 great fits:", history[1].Content)
}

func TestChat_FollowUpKeepsPreviousRound(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.llm.ResponseQueue = []string{
		"Top pick:\n```json\n{\"recommendations\":[{\"buildingId\":2,\"score\":77,\"reason\":\"transit\"}]}\n```",
		"Central Square has the Red Line right outside.",
	}

	_, err := f.advisor.Chat(ctx, model.ChatRequest{SessionID: "s1", Message: "recommend a spot for a gym"})
	require.NoError(t, err)

	resp, err := f.advisor.Chat(ctx, model.ChatRequest{SessionID: "s1", Message: "Why that one?"})
	require.NoError(t, err)
	assert.Equal(t, "Central Square has the Red Line right outside.", resp.Response)
	assert.Nil(t, resp.Recommendations)

	require.Len(t, f.llm.Calls, 2)
	assert.Equal(t, followUpOptions, f.llm.Options[1])
	msgs := f.llm.Calls[1]
	// system, context, user, assistant, follow-up instruction, user
	require.Len(t, msgs, 6)
	assert.Equal(t, model.RoleUser, msgs[2].Role)
	assert.Equal(t, "recommend a spot for a gym", msgs[2].Content)
	assert.Equal(t, model.RoleAssistant, msgs[3].Role)
	assert.Equal(t, model.ChatMessage{Role: model.RoleSystem, Content: followUpInstruction}, msgs[4])
	assert.Equal(t, "Why that one?", msgs[5].Content)

	recs, err := f.chats.Recommendations(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].BuildingID)
}

func TestChat_EmptyReplyFallsBack(t *testing.T) {
	f := newFixture(t, true)

	resp, err := f.advisor.Chat(context.Background(), model.ChatRequest{SessionID: "s1", Message: "thanks"})
	require.NoError(t, err)
	assert.Equal(t, EmptyReply, resp.Response)
}

func TestChat_ModelErrorKeepsUserMessage(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.llm.Err = errors.New("upstream 503")

	_, err := f.advisor.Chat(ctx, model.ChatRequest{SessionID: "s1", Message: "best place for a florist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 503")
	assert.Equal(t, 500, apperr.HTTPStatus(err))

	history, err := f.chats.History(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.RoleUser, history[0].Role)
}

func TestKeywordClassifier(t *testing.T) {
	k := NewKeywordClassifier()

	for _, msg := range []string{"find me a cafe spot", "Where is best?", "RECOMMEND something", "would it fit?"} {
		assert.True(t, k.WantsRecommendations(msg), msg)
	}
	for _, msg := range []string{"Why that one?", "finding nemo", "replacement", "tell me more", "fitness"} {
		assert.False(t, k.WantsRecommendations(msg), msg)
	}
}

func TestBuildBuildingContext(t *testing.T) {
	score := 78
	walk, transit, solar := 0.95, 0.98, 0.684
	ctx := buildBuildingContext([]model.Building{
		{ID: 4, Address: "1 Brattle St", District: "Harvard Square", SquareFootage: "3,000", FormerTenant: "Deli",
			GreenScore: &score, Walkability: &walk, TransitAccess: &transit, SolarExposure: &solar},
	})
	assert.Equal(t, "Available buildings:\nBuilding 4: 1 Brattle St in Harvard Square - 3,000 sqft, Former: Deli, Green Score: 78, Walkability: 95%, Transit: 98%, Solar: 68%", ctx)
}

func TestChat_HistoryWindowOpensWithUser(t *testing.T) {
	f := newFixture(t, true)
	f.advisor.HistoryLimit = 4
	ctx := context.Background()
	f.llm.ResponseQueue = []string{"First answer.", "Second answer.", "Third answer."}

	for _, msg := range []string{"hello there", "tell me more", "and after that?"} {
		_, err := f.advisor.Chat(ctx, model.ChatRequest{SessionID: "s1", Message: msg})
		require.NoError(t, err)
	}

	require.Len(t, f.llm.Calls, 3)
	var turns []model.ChatMessage
	for _, m := range f.llm.Calls[2] {
		if m.Role != model.RoleSystem {
			turns = append(turns, m)
		}
	}
	assert.Equal(t, []model.ChatMessage{
		{Role: model.RoleUser, Content: "tell me more"},
		{Role: model.RoleAssistant, Content: "Second answer."},
		{Role: model.RoleUser, Content: "and after that?"},
	}, turns)
}
