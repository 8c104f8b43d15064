package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/rps-arena/internal/apperrors"
	"github.com/palemoky/rps-arena/internal/game/rule"
	"github.com/palemoky/rps-arena/internal/protocol"
)

func TestStartGame_Validation(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, 3, 1)

	// Only the host may start
	assert.ErrorIs(t, r.StartGame("p2"), apperrors.ErrNotHost)

	require.NoError(t, r.StartGame("p1"))

	// Already running
	assert.ErrorIs(t, r.StartGame("p1"), apperrors.ErrGameStarted)
}

func TestStartGame_NeedsTwoPlayers(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, 2, 1)
	r.RemovePlayer("p2")

	assert.ErrorIs(t, r.StartGame("p1"), apperrors.ErrNotEnoughPlayers)
}

func TestStartGame_BroadcastsFirstRound(t *testing.T) {
	t.Parallel()

	r, clients := newTestRoom(t, 2, 1)
	require.NoError(t, r.StartGame("p1"))

	r.mu.Lock()
	assert.Equal(t, StatePlaying, r.State)
	assert.Equal(t, 1, r.CurrentRound)
	r.mu.Unlock()

	msg := clients[1].LastOfType(protocol.MsgNewRound)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.NewRoundPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, 1, payload.Round)

	// Countdown starts at the full choice window
	timerMsg := clients[0].LastOfType(protocol.MsgTimer)
	require.NotNil(t, timerMsg)
	timer, err := protocol.ParsePayload[protocol.TimerPayload](timerMsg)
	require.NoError(t, err)
	assert.Equal(t, r.game.ChoiceWindow, timer.SecondsLeft)
}

func TestSession_FullGame(t *testing.T) {
	t.Parallel()

	// Four players chasing rank 1. Round one splits rock/scissors: the
	// two winners would straddle rank 1, so they replay while the losers
	// settle from the bottom. Round two decides the title and the runner
	// up auto-ranks as the last survivor.
	r, clients := newTestRoom(t, 4, 1)
	require.NoError(t, r.StartGame("p1"))
	r.mu.Lock()
	r.stopTimerLocked() // drive rounds by hand below
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoiceRock,
		"p2": rule.ChoiceRock,
		"p3": rule.ChoiceScissors,
		"p4": rule.ChoiceScissors,
	})

	assert.Equal(t, 4, rankOf(r, "p3"))
	assert.Equal(t, 3, rankOf(r, "p4"))
	assert.Equal(t, StatusActive, statusOf(r, "p1"))
	assert.Equal(t, StatusActive, statusOf(r, "p2"))

	// Replay round among the contenders
	r.mu.Lock()
	r.stopTimerLocked()
	r.State = StatePlaying
	r.CurrentRound++
	for _, id := range r.activeIDsLocked() {
		r.Players[id].Choice = rule.ChoiceNone
	}
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoicePaper,
		"p2": rule.ChoiceRock,
	})

	assert.Equal(t, 1, rankOf(r, "p1"))
	assert.Equal(t, 2, rankOf(r, "p2"))

	r.mu.Lock()
	assert.Equal(t, StateFinished, r.State)
	r.mu.Unlock()

	// Everyone saw the final round result with the target holder
	for _, c := range clients {
		msg := c.LastOfType(protocol.MsgRoundResult)
		require.NotNil(t, msg)
		payload, err := protocol.ParsePayload[protocol.RoundResultPayload](msg)
		require.NoError(t, err)
		assert.True(t, payload.GameOver)
		require.NotNil(t, payload.AchievedTarget)
		assert.Equal(t, "p1", payload.AchievedTarget.ID)
		assert.Equal(t, 1, payload.AchievedTarget.Rank)
	}
}

func TestSession_SilentPlayerFoldsIntoLosers(t *testing.T) {
	t.Parallel()

	// p3 never submits while two distinct choices are on the table:
	// treated as a loss, not a rematch
	r, _ := newTestRoom(t, 3, 1)
	require.NoError(t, r.StartGame("p1"))
	r.mu.Lock()
	r.stopTimerLocked()
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoiceRock,
		"p2": rule.ChoiceScissors,
	})

	assert.Equal(t, 1, rankOf(r, "p1"))
	assert.Equal(t, 2, rankOf(r, "p2"))
	assert.Equal(t, 3, rankOf(r, "p3"))

	r.mu.Lock()
	assert.Equal(t, StateFinished, r.State)
	r.mu.Unlock()
}

func TestSession_DrawReplaysWithoutElimination(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, 3, 1)
	require.NoError(t, r.StartGame("p1"))
	r.mu.Lock()
	r.stopTimerLocked()
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoiceRock,
		"p2": rule.ChoiceRock,
		"p3": rule.ChoiceRock,
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, StatePlaying, r.State)
	assert.Empty(t, r.Ranked)
	assert.Len(t, r.activeIDsLocked(), 3)
}

func TestSession_RankedLeaverKeepsRankSpan(t *testing.T) {
	t.Parallel()

	// Ranks span everyone who started the game. Three players chase the
	// last place: round one retires p1 at rank 1 and defers the loser
	// pair. p1 then leaves — the range must stay [1,3] so the decider can
	// still hand out ranks 2 and 3.
	r, clients := newTestRoom(t, 3, 3)
	require.NoError(t, r.StartGame("p1"))
	r.mu.Lock()
	r.stopTimerLocked()
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoiceRock,
		"p2": rule.ChoiceScissors,
		"p3": rule.ChoiceScissors,
	})

	assert.Equal(t, 1, rankOf(r, "p1"))
	assert.Equal(t, StatusActive, statusOf(r, "p2"))
	assert.Equal(t, StatusActive, statusOf(r, "p3"))

	r.RemovePlayer("p1")

	r.mu.Lock()
	r.stopTimerLocked()
	r.CurrentRound++
	for _, id := range r.activeIDsLocked() {
		r.Players[id].Choice = rule.ChoiceNone
	}
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p2": rule.ChoiceRock,
		"p3": rule.ChoiceScissors,
	})

	assert.Equal(t, 2, rankOf(r, "p2"))
	assert.Equal(t, 3, rankOf(r, "p3"))

	r.mu.Lock()
	assert.Equal(t, StateFinished, r.State)
	r.mu.Unlock()

	msg := clients[1].LastOfType(protocol.MsgRoundResult)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.RoundResultPayload](msg)
	require.NoError(t, err)
	assert.True(t, payload.GameOver)
	require.NotNil(t, payload.AchievedTarget)
	assert.Equal(t, "p3", payload.AchievedTarget.ID)
	assert.Equal(t, 3, payload.AchievedTarget.Rank)
}

func TestSession_DisconnectDuringRound(t *testing.T) {
	t.Parallel()

	// A mid-round leaver is simply gone from the roster; the round then
	// settles among whoever remains
	r, _ := newTestRoom(t, 3, 1)
	require.NoError(t, r.StartGame("p1"))
	r.mu.Lock()
	r.stopTimerLocked()
	r.mu.Unlock()

	r.RemovePlayer("p3")

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoicePaper,
		"p2": rule.ChoiceRock,
	})

	assert.Equal(t, 1, rankOf(r, "p1"))
	assert.Equal(t, 2, rankOf(r, "p2"))
	assert.Equal(t, 0, rankOf(r, "p3"))

	r.mu.Lock()
	assert.Equal(t, StateFinished, r.State)
	r.mu.Unlock()
}

func TestSession_RoundCapForcesSharedFirst(t *testing.T) {
	t.Parallel()

	r, clients := newTestRoom(t, 3, 1)
	require.NoError(t, r.StartGame("p1"))
	r.mu.Lock()
	r.stopTimerLocked()
	r.CurrentRound = r.game.MaxRounds // endless rematch hit the cap
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoiceRock,
		"p2": rule.ChoiceRock,
		"p3": rule.ChoiceRock,
	})

	// All survivors share first place and the game ends
	assert.Equal(t, 1, rankOf(r, "p1"))
	assert.Equal(t, 1, rankOf(r, "p2"))
	assert.Equal(t, 1, rankOf(r, "p3"))

	r.mu.Lock()
	assert.Equal(t, StateFinished, r.State)
	r.mu.Unlock()

	msg := clients[0].LastOfType(protocol.MsgRoundResult)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.RoundResultPayload](msg)
	require.NoError(t, err)
	assert.True(t, payload.GameOver)
	assert.Len(t, payload.FinalWinners, 3)
	assert.Nil(t, payload.AchievedTarget)
}

func TestSession_HostRestartAfterFinish(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, 2, 1)
	require.NoError(t, r.StartGame("p1"))
	r.mu.Lock()
	r.stopTimerLocked()
	r.mu.Unlock()

	resolveWith(r, map[string]rule.Choice{
		"p1": rule.ChoiceRock,
		"p2": rule.ChoiceScissors,
	})

	r.mu.Lock()
	require.Equal(t, StateFinished, r.State)
	r.mu.Unlock()

	// Host starts a fresh game in the same room
	require.NoError(t, r.StartGame("p1"))

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, StatePlaying, r.State)
	assert.Equal(t, 1, r.CurrentRound)
	assert.Empty(t, r.Ranked)
	assert.Len(t, r.activeIDsLocked(), 2)
}
