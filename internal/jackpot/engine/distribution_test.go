package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_ExactShares(t *testing.T) {
	cfg := SplitConfig{JackpotBP: 500, HouseBP: 200, ReserveBP: 100, MinBet: 1, MaxBet: 1_000_000_000}

	cases := []struct {
		name    string
		amount  uint64
		jackpot uint64
		house   uint64
		reserve uint64
	}{
		{"aposta redonda", 10_000, 500, 200, 100},
		{"floor nas três parcelas", 9_999, 499, 199, 99},
		{"aposta mínima", 1, 0, 0, 0},
		{"valor alto", 123_456_789, 6_172_839, 2_469_135, 1_234_567},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shares, err := Split(tc.amount, cfg)
			require.NoError(t, err)
			require.Equal(t, tc.jackpot, shares.Jackpot)
			require.Equal(t, tc.house, shares.House)
			require.Equal(t, tc.reserve, shares.Reserve)
		})
	}
}

// floor division nunca aloca mais do que a aposta quando a soma dos
// percentuais é <= 10000bp
func TestSplit_NeverOverAllocates(t *testing.T) {
	cfg := SplitConfig{JackpotBP: 7000, HouseBP: 2000, ReserveBP: 1000, MinBet: 1, MaxBet: math.MaxUint64 / BPDenominator}

	for _, amount := range []uint64{1, 3, 7, 99, 10_001, 999_999_937} {
		shares, err := Split(amount, cfg)
		require.NoError(t, err)
		require.LessOrEqual(t, shares.Jackpot+shares.House+shares.Reserve, amount,
			"amount=%d", amount)
	}
}

func TestSplit_BetBounds(t *testing.T) {
	cfg := SplitConfig{JackpotBP: 500, HouseBP: 200, ReserveBP: 100, MinBet: 100, MaxBet: 1000}

	_, err := Split(99, cfg)
	require.ErrorIs(t, err, ErrBetTooSmall)

	_, err = Split(1001, cfg)
	require.ErrorIs(t, err, ErrBetTooLarge)

	_, err = Split(100, cfg)
	require.NoError(t, err)

	_, err = Split(1000, cfg)
	require.NoError(t, err)
}

func TestSplit_Overflow(t *testing.T) {
	cfg := SplitConfig{JackpotBP: 10000, HouseBP: 0, ReserveBP: 0, MinBet: 1, MaxBet: math.MaxUint64}

	_, err := Split(math.MaxUint64, cfg)
	require.ErrorIs(t, err, ErrMathOverflow)
}

func TestValidateSplit(t *testing.T) {
	valid := SplitConfig{JackpotBP: 500, HouseBP: 200, ReserveBP: 100, MinBet: 100, MaxBet: 1000}
	require.NoError(t, ValidateSplit(valid))

	// soma acima de 10000bp
	over := valid
	over.JackpotBP = 9000
	over.HouseBP = 1001
	require.ErrorIs(t, ValidateSplit(over), ErrInvalidConfig)

	// min_bet zero
	noMin := valid
	noMin.MinBet = 0
	require.ErrorIs(t, ValidateSplit(noMin), ErrInvalidConfig)

	// max < min
	inverted := valid
	inverted.MaxBet = 99
	require.ErrorIs(t, ValidateSplit(inverted), ErrInvalidConfig)
}
