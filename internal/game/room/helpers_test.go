package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/palemoky/rps-arena/internal/config"
	"github.com/palemoky/rps-arena/internal/game/rule"
	"github.com/palemoky/rps-arena/internal/testutil"
)

// newTestRoom builds a room with n players (p1..pn in join order, p1 is host).
// Pending timers are stopped on cleanup so background callbacks never outlive the test.
func newTestRoom(t *testing.T, n, targetRank int) (*Room, []*testutil.SimpleClient) {
	t.Helper()

	cfg := config.Default()
	r := &Room{
		Code:       "TEST",
		State:      StateWaiting,
		MaxPlayers: n,
		TargetRank: targetRank,
		Players:    make(map[string]*Participant),
		CreatedAt:  time.Now(),
		game:       cfg.Game,
		journal:    func(string, ...any) {},
	}

	clients := make([]*testutil.SimpleClient, 0, n)
	for i := range n {
		c := &testutil.SimpleClient{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Player%d", i+1),
		}
		r.addPlayerLocked(c)
		clients = append(clients, c)
	}
	r.HostID = clients[0].ID
	r.totalPlayers = n // tests that settle rounds directly never pass through StartGame

	t.Cleanup(func() {
		r.mu.Lock()
		r.stopTimerLocked()
		r.mu.Unlock()
	})

	return r, clients
}

// resolveWith records the given choices and settles the round synchronously.
func resolveWith(r *Room, choices map[string]rule.Choice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range choices {
		if p, ok := r.Players[id]; ok {
			p.Choice = c
		}
	}
	r.resolveRoundLocked()
}

// rankOf returns the assigned rank for a player, or 0 if still unranked.
func rankOf(r *Room, playerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rp := range r.Ranked {
		if rp.ID == playerID {
			return rp.Rank
		}
	}
	return 0
}

// statusOf returns the participant status for a player.
func statusOf(r *Room, playerID string) ParticipantStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Players[playerID].Status
}
