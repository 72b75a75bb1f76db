package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipKind(t *testing.T) {
	lengths := map[ShipKind]int{PatrolBoat: 2, Submarine: 3, Destroyer: 3, Battleship: 4, Carrier: 5}
	for kind, want := range lengths {
		length, err := LookupShipLength(kind)
		require.NoError(t, err)
		assert.Equal(t, want, length, kind.String())
		assert.Equal(t, want, kind.Length())

		parsed, err := ParseShipKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := LookupShipLength(ShipKind(0))
	assert.ErrorIs(t, err, ErrInvalidShipKind)
	_, err = ParseShipKind("rowboat")
	assert.ErrorIs(t, err, ErrInvalidShipKind)
	assert.False(t, ShipKind(6).Valid())
	assert.Equal(t, "ship(6)", ShipKind(6).String())
}

func TestSquare(t *testing.T) {
	assert.True(t, ShipOf(Carrier).IsLiveShip())
	assert.True(t, DeadShipOf(Carrier).IsShip())
	assert.False(t, DeadShipOf(Carrier).IsLiveShip())
	assert.False(t, Square{Kind: WaterNoPlace}.IsShip())

	assert.Equal(t, "battleship", ShipOf(Battleship).String())
	assert.Equal(t, "dead_battleship", DeadShipOf(Battleship).String())
	assert.Equal(t, "water_no_place", Square{Kind: WaterNoPlace}.String())

	data, err := json.Marshal(DeadShipOf(Destroyer))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":2,"ship":"destroyer","hit":true}`, string(data))

	data, err = json.Marshal(Square{Kind: Water})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":0}`, string(data))
}

func TestShotMarkText(t *testing.T) {
	for _, mark := range []ShotMark{NoShot, Marked, WaterShot, ShipShot} {
		text, err := mark.MarshalText()
		require.NoError(t, err)

		var decoded ShotMark
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, mark, decoded)
	}

	var m ShotMark
	assert.Error(t, m.UnmarshalText([]byte("miss")))
}

func TestPlayerID(t *testing.T) {
	assert.Equal(t, Player2, Player1.Opponent())
	assert.Equal(t, Player1, Player2.Opponent())
	assert.True(t, Player1.Valid())
	assert.False(t, PlayerID(0).Valid())
	assert.Equal(t, "player2", Player2.String())
	assert.Equal(t, "player(7)", PlayerID(7).String())
}

func TestWinner(t *testing.T) {
	p, ok := WinnerPlayer2.Player()
	assert.True(t, ok)
	assert.Equal(t, Player2, p)

	_, ok = WinnerNone.Player()
	assert.False(t, ok)

	data, err := json.Marshal(map[string]Winner{"winner": WinnerPlayer1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"winner":"player1"}`, string(data))
}

func TestNewRand(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}

	seed1, err := NewSeed()
	require.NoError(t, err)
	seed2, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, seed1, seed2)
}
