package book

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packEntry(key uint64, from, to board.Square, promo uint16, weight uint16) []byte {
	move := uint16(to.File()) | uint16(to.Rank())<<3 | uint16(from.File())<<6 | uint16(from.Rank())<<9 | promo<<12

	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], key)
	binary.BigEndian.PutUint16(buf[8:10], move)
	binary.BigEndian.PutUint16(buf[10:12], weight)
	return buf
}

func TestLoadAndFindRoundTrip(t *testing.T) {
	ctx := context.Background()

	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	key := polyglotHash(pos, turn)

	var buf bytes.Buffer
	buf.Write(packEntry(key, board.E2, board.E4, 0, 50))
	buf.Write(packEntry(key, board.D2, board.D4, 0, 10))

	bk, err := Load(&buf, WithPolicy(BestOnly))
	require.NoError(t, err)

	moves, err := bk.Find(ctx, fen.Initial)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, board.E2, moves[0].From)
	assert.Equal(t, board.E4, moves[0].To)
}

func TestFindUnknownPositionReturnsEmpty(t *testing.T) {
	ctx := context.Background()

	bk, err := Load(bytes.NewReader(nil))
	require.NoError(t, err)

	moves, err := bk.Find(ctx, fen.Initial)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestLoadRejectsTruncatedRecord(t *testing.T) {
	_, err := Load(bytes.NewReader(make([]byte, 15)))
	assert.Error(t, err)
}

func TestFindInvalidFEN(t *testing.T) {
	ctx := context.Background()

	bk, err := Load(bytes.NewReader(nil))
	require.NoError(t, err)

	_, err = bk.Find(ctx, "not a fen")
	assert.Error(t, err)
}

func TestWeightedPickAlwaysResolvesToABookMove(t *testing.T) {
	ctx := context.Background()

	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	key := polyglotHash(pos, turn)

	var buf bytes.Buffer
	buf.Write(packEntry(key, board.E2, board.E4, 0, 1))
	buf.Write(packEntry(key, board.D2, board.D4, 0, 99))

	bk, err := Load(&buf, WithSeed(1))
	require.NoError(t, err)

	moves, err := bk.Find(ctx, fen.Initial)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Contains(t, []board.Square{board.E2, board.D2}, moves[0].From)
}
