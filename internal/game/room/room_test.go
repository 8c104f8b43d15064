package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/rps-arena/internal/game/rule"
	"github.com/palemoky/rps-arena/internal/protocol"
)

func TestRoom_RemovePlayer(t *testing.T) {
	t.Parallel()

	r, clients := newTestRoom(t, 3, 1)

	empty := r.RemovePlayer("p2")
	assert.False(t, empty)
	assert.False(t, r.HasPlayer("p2"))
	assert.Equal(t, "", clients[1].RoomCode)

	// Unknown player is a no-op
	assert.False(t, r.RemovePlayer("ghost"))

	assert.False(t, r.RemovePlayer("p1"))
	empty = r.RemovePlayer("p3")
	assert.True(t, empty)
}

func TestRoom_RemovePlayer_HostHandover(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, 3, 1)

	// Host leaves: ownership passes to the earliest remaining joiner
	r.RemovePlayer("p1")

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, "p2", r.HostID)
}

func TestRoom_HandleChoice_FirstSubmissionWins(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, 2, 1)
	r.State = StatePlaying

	r.HandleChoice("p1", "rock")
	r.HandleChoice("p1", "paper") // too late, already locked in

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, rule.ChoiceRock, r.Players["p1"].Choice)
}

func TestRoom_HandleChoice_Ignored(t *testing.T) {
	t.Parallel()

	r, _ := newTestRoom(t, 2, 1)

	// Not playing yet
	r.HandleChoice("p1", "rock")
	r.mu.Lock()
	assert.Equal(t, rule.ChoiceNone, r.Players["p1"].Choice)
	r.mu.Unlock()

	r.State = StatePlaying

	// Invalid choice string
	r.HandleChoice("p1", "lizard")
	r.mu.Lock()
	assert.Equal(t, rule.ChoiceNone, r.Players["p1"].Choice)
	r.mu.Unlock()

	// Already ranked players are spectators
	r.mu.Lock()
	r.Players["p2"].Status = StatusRanked
	r.mu.Unlock()
	r.HandleChoice("p2", "rock")
	r.mu.Lock()
	assert.Equal(t, rule.ChoiceNone, r.Players["p2"].Choice)
	r.mu.Unlock()

	// Unknown player
	r.HandleChoice("ghost", "rock")
}

func TestRoom_SnapshotHidesChoices(t *testing.T) {
	t.Parallel()

	r, clients := newTestRoom(t, 2, 1)
	r.State = StatePlaying
	r.HandleChoice("p1", "rock")

	r.BroadcastSnapshot()

	msg := clients[1].LastOfType(protocol.MsgUpdateRoom)
	require.NotNil(t, msg)
	snapshot, err := protocol.ParsePayload[protocol.RoomSnapshot](msg)
	require.NoError(t, err)

	// Mid-round snapshots only expose whether a player has chosen,
	// never what they chose
	require.Len(t, snapshot.Players, 2)
	assert.Equal(t, "p1", snapshot.Players[0].ID)
	assert.True(t, snapshot.Players[0].HasChosen)
	assert.False(t, snapshot.Players[1].HasChosen)
	assert.NotContains(t, string(msg.Payload), "rock")
}

func TestRoom_SnapshotPlayerOrder(t *testing.T) {
	t.Parallel()

	r, clients := newTestRoom(t, 4, 1)
	r.SendSnapshot(clients[0])

	msg := clients[0].LastOfType(protocol.MsgUpdateRoom)
	snapshot, err := protocol.ParsePayload[protocol.RoomSnapshot](msg)
	require.NoError(t, err)

	// Players always appear in join order
	ids := make([]string, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids)
	assert.Equal(t, "p1", snapshot.HostID)
}
