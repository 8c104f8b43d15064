package handler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/rps-arena/internal/config"
	"github.com/palemoky/rps-arena/internal/game/room"
	"github.com/palemoky/rps-arena/internal/protocol"
	"github.com/palemoky/rps-arena/internal/server/storage"
	"github.com/palemoky/rps-arena/internal/testutil"
)

func newTestHandler() *Handler {
	return NewHandler(room.NewManager(config.Default(), nil, nil, nil), nil)
}

func TestHandler_CreateAndJoinFlow(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	host := &testutil.SimpleClient{ID: "h1", Name: "随机昵称"}
	guest := &testutil.SimpleClient{ID: "g1", Name: "路人"}

	h.Handle(host, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Nickname:   "房主",
		MaxPlayers: 4,
		TargetRank: 1,
	}))

	created := host.LastOfType(protocol.MsgRoomCreated)
	require.NotNil(t, created)
	payload, err := protocol.ParsePayload[protocol.RoomCreatedPayload](created)
	require.NoError(t, err)
	assert.Equal(t, "房主", host.Name)

	h.Handle(guest, protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: payload.RoomCode,
		Nickname: "挑战者",
	}))

	require.NotNil(t, guest.LastOfType(protocol.MsgJoinedRoom))

	// Both ended up with a two-player snapshot
	msg := host.LastOfType(protocol.MsgUpdateRoom)
	require.NotNil(t, msg)
	snapshot, err := protocol.ParsePayload[protocol.RoomSnapshot](msg)
	require.NoError(t, err)
	assert.Len(t, snapshot.Players, 2)
}

func TestHandler_JoinUnknownRoom(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	guest := &testutil.SimpleClient{ID: "g1"}

	h.Handle(guest, protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: "ZZZZ",
	}))

	msg := guest.LastOfType(protocol.MsgError)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, payload.Code)
}

func TestHandler_StartGameByGuest(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	host := &testutil.SimpleClient{ID: "h1", Name: "Host"}
	guest := &testutil.SimpleClient{ID: "g1", Name: "Guest"}

	h.Handle(host, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{MaxPlayers: 2}))
	code := host.RoomCode
	h.Handle(guest, protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: code}))

	h.Handle(guest, protocol.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{RoomCode: code}))

	msg := guest.LastOfType(protocol.MsgError)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotHost, payload.Code)
}

func TestHandler_StartGameByOutsider(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	host := &testutil.SimpleClient{ID: "h1", Name: "Host"}
	outsider := &testutil.SimpleClient{ID: "o1", Name: "Outsider"}

	h.Handle(host, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{MaxPlayers: 2}))

	// Knowing the code is not enough: only members may start
	h.Handle(outsider, protocol.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{RoomCode: host.RoomCode}))

	msg := outsider.LastOfType(protocol.MsgError)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotInRoom, payload.Code)
}

func TestHandler_GetLeaderboard(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	boards := storage.NewLeaderboardManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	ctx := context.Background()
	require.NoError(t, boards.RecordWin(ctx, "Alice"))
	require.NoError(t, boards.RecordWin(ctx, "Alice"))
	require.NoError(t, boards.RecordWin(ctx, "Bob"))

	h := NewHandler(room.NewManager(config.Default(), nil, nil, nil), boards)
	client := &testutil.SimpleClient{ID: "c1", Name: "C"}

	h.Handle(client, protocol.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{}))

	msg := client.LastOfType(protocol.MsgLeaderboard)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](msg)
	require.NoError(t, err)
	require.Len(t, payload.Entries, 2)
	assert.Equal(t, "Alice", payload.Entries[0].PlayerName)
	assert.Equal(t, 2, payload.Entries[0].Wins)
	assert.Equal(t, "Bob", payload.Entries[1].PlayerName)
}

func TestHandler_GetLeaderboardWithoutRedis(t *testing.T) {
	t.Parallel()

	// No leaderboard backend configured: an empty board, not an error
	h := newTestHandler()
	client := &testutil.SimpleClient{ID: "c1", Name: "C"}

	h.Handle(client, protocol.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: 5}))

	msg := client.LastOfType(protocol.MsgLeaderboard)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](msg)
	require.NoError(t, err)
	assert.Empty(t, payload.Entries)
	assert.Nil(t, client.LastOfType(protocol.MsgError))
}

func TestHandler_GetRoomIsMemberOnly(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	host := &testutil.SimpleClient{ID: "h1", Name: "Host"}
	outsider := &testutil.SimpleClient{ID: "o1", Name: "Outsider"}

	h.Handle(host, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{MaxPlayers: 2}))
	code := host.RoomCode

	// Members get a fresh snapshot on request
	before := host.CountOfType(protocol.MsgUpdateRoom)
	h.Handle(host, protocol.MustNewMessage(protocol.MsgGetRoom, protocol.GetRoomPayload{RoomCode: code}))
	assert.Equal(t, before+1, host.CountOfType(protocol.MsgUpdateRoom))

	// Outsiders are silently ignored
	h.Handle(outsider, protocol.MustNewMessage(protocol.MsgGetRoom, protocol.GetRoomPayload{RoomCode: code}))
	assert.Equal(t, 0, outsider.CountOfType(protocol.MsgUpdateRoom))
}

func TestHandler_UnknownMessageType(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	client := &testutil.SimpleClient{ID: "c1", Name: "C"}

	h.Handle(client, &protocol.Message{Type: "teleport"})

	msg := client.LastOfType(protocol.MsgError)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, payload.Code)
}

func TestHandler_CreateWhileInRoomLeavesFirst(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	client := &testutil.SimpleClient{ID: "c1", Name: "C"}

	h.Handle(client, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{MaxPlayers: 2}))
	first := client.RoomCode
	h.Handle(client, protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{MaxPlayers: 2}))
	second := client.RoomCode

	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, h.manager.RoomCount())
}
