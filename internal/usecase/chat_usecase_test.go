package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatUsecase(products *fakeProductRepo, vectors *fakeVectorRepo, chat *fakeChatService) *ChatUsecase {
	cfg := testConfig()
	search := NewSearchUsecase(vectors, testTaxonomy(), &fakeEmbedder{}, cfg)
	return NewChatUsecase(search, products, chat, cfg)
}

func TestChatHandleRoutesSearchIntent(t *testing.T) {
	vectors := newFakeVectorRepo()
	vectors.matches = []repository.VectorMatch{
		match("Northwave Hush ANC", 12, 0.92),
		match("Northwave Petal Buds", 7, 0.88),
	}
	chat := &fakeChatService{}
	uc := newChatUsecase(newFakeProductRepo(), vectors, chat)

	reply, err := uc.Handle(context.Background(), "s1", "find me noise cancelling headphones")
	require.NoError(t, err)
	assert.Equal(t, string(IntentSearch), reply.Intent)
	require.Len(t, reply.Results, 2)
	assert.Contains(t, reply.Reply, "Northwave Hush ANC")
	assert.Contains(t, reply.Reply, "$99.00")
	assert.Empty(t, chat.received, "search intent must not call the model")
	// Product search always shops from live stock.
	require.NotNil(t, vectors.lastFilter.MinQuantity)
	assert.Equal(t, 1, *vectors.lastFilter.MinQuantity)
}

func TestChatHandleSearchWithNoHitsOffersSuggestions(t *testing.T) {
	uc := newChatUsecase(newFakeProductRepo(), newFakeVectorRepo(), &fakeChatService{})

	reply, err := uc.Handle(context.Background(), "s1", "looking for a turbo encabulator")
	require.NoError(t, err)
	assert.Contains(t, reply.Reply, "couldn't find anything")
	assert.NotEmpty(t, reply.Suggestions)
}

func TestChatHandleRoutesInventoryIntent(t *testing.T) {
	low := activeProduct("Morning Ritual Burr Grinder", 3)
	gone := activeProduct("Voltaic Aero 14", 0)
	products := newFakeProductRepo(low, gone)
	chat := &fakeChatService{}
	uc := newChatUsecase(products, newFakeVectorRepo(), chat)

	reply, err := uc.Handle(context.Background(), "s1", "what's running low right now?")
	require.NoError(t, err)
	assert.Equal(t, string(IntentInventory), reply.Intent)
	assert.Contains(t, reply.Reply, "1 product(s) low on stock")
	assert.Contains(t, reply.Reply, "1 out of stock")
	assert.Contains(t, reply.Reply, "Morning Ritual Burr Grinder (3 left)")
	assert.Contains(t, reply.Reply, "Out: Voltaic Aero 14")
	assert.Empty(t, chat.received)
}

func TestChatHandleFallsThroughToModel(t *testing.T) {
	chat := &fakeChatService{reply: "We accept returns within 30 days."}
	uc := newChatUsecase(newFakeProductRepo(), newFakeVectorRepo(), chat)

	reply, err := uc.Handle(context.Background(), "s1", "what's your return policy?")
	require.NoError(t, err)
	assert.Equal(t, string(IntentChat), reply.Intent)
	assert.Equal(t, "We accept returns within 30 days.", reply.Reply)

	require.Len(t, chat.received, 1)
	msgs := chat.received[0]
	require.NotEmpty(t, msgs)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[len(msgs)-1].Role)
	assert.Equal(t, "what's your return policy?", msgs[len(msgs)-1].Content)
}

func TestChatTranscriptIsCapped(t *testing.T) {
	chat := &fakeChatService{}
	uc := newChatUsecase(newFakeProductRepo(), newFakeVectorRepo(), chat)

	for i := 0; i < 10; i++ {
		_, err := uc.Handle(context.Background(), "s1", fmt.Sprintf("question number %d please", i))
		require.NoError(t, err)
	}

	// MaxTranscriptTurns is 2 in the test config, so at most 4 messages survive.
	transcript := uc.Transcript("s1")
	require.Len(t, transcript, 4)
	assert.Equal(t, "question number 9 please", transcript[len(transcript)-2].Content)
	assert.Equal(t, "assistant", transcript[len(transcript)-1].Role)
}

func TestChatSessionsAreIsolated(t *testing.T) {
	chat := &fakeChatService{}
	uc := newChatUsecase(newFakeProductRepo(), newFakeVectorRepo(), chat)

	_, err := uc.Handle(context.Background(), "alpha", "hello over there")
	require.NoError(t, err)
	_, err = uc.Handle(context.Background(), "beta", "greetings to you")
	require.NoError(t, err)

	assert.Len(t, uc.Transcript("alpha"), 2)
	assert.Len(t, uc.Transcript("beta"), 2)
	assert.Equal(t, "hello over there", uc.Transcript("alpha")[0].Content)
}

func TestChatHandleRejectsEmptyMessage(t *testing.T) {
	uc := newChatUsecase(newFakeProductRepo(), newFakeVectorRepo(), &fakeChatService{})
	_, err := uc.Handle(context.Background(), "s1", "  ")
	assert.Error(t, err)
}
