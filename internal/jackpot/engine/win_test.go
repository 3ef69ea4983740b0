package engine

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// resultWithValue monta um resultado de 32 bytes cujo u64 little-endian
// inicial é v (e portanto v mod 10000 é o valor normalizado quando v < 10000)
func resultWithValue(v uint64) [32]byte {
	var r [32]byte
	binary.LittleEndian.PutUint64(r[:8], v)
	return r
}

func TestDetermine_TiersAtThreshold(t *testing.T) {
	const winProb = 1000 // 10%
	const pool = 1_000_000

	cases := []struct {
		name   string
		value  uint64
		won    bool
		tierBP uint64
		payout uint64
	}{
		{"vitória rara (m<100)", 50, true, 10000, 1_000_000},
		{"vitória média (m<500)", 400, true, 5000, 500_000},
		{"vitória comum (m<1000)", 900, true, 2500, 250_000},
		{"borda do tier raro", 100, true, 5000, 500_000},
		{"borda do tier médio", 500, true, 2500, 250_000},
		{"derrota na borda do threshold", 1000, false, 0, 0},
		{"derrota", 1500, false, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Determine(resultWithValue(tc.value), winProb, pool)
			require.NoError(t, err)
			require.Equal(t, tc.won, out.Won)
			require.Equal(t, tc.value, out.Value)
			require.Equal(t, tc.tierBP, out.TierBP)
			require.Equal(t, tc.payout, out.Payout)
		})
	}
}

// mesma entrada, mesma saída: função pura
func TestDetermine_Deterministic(t *testing.T) {
	result := resultWithValue(423_456_789) // 423456789 mod 10000 = 6789

	first, err := Determine(result, 10000, 999_999)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Determine(result, 10000, 999_999)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDetermine_UsesFirstEightBytesLittleEndian(t *testing.T) {
	var r [32]byte
	r[0] = 0x39
	r[1] = 0x30 // 0x3039 = 12345 → m = 2345
	// bytes altos preenchidos não entram no cálculo
	for i := 8; i < 32; i++ {
		r[i] = 0xFF
	}

	out, err := Determine(r, 10000, 10_000)
	require.NoError(t, err)
	require.Equal(t, uint64(2345), out.Value)
	require.True(t, out.Won)
}

func TestDetermine_InvalidThreshold(t *testing.T) {
	_, err := Determine(resultWithValue(1), 0, 1000)
	require.ErrorIs(t, err, ErrInvalidWinThreshold)

	_, err = Determine(resultWithValue(1), 10001, 1000)
	require.ErrorIs(t, err, ErrInvalidWinThreshold)
}

func TestDetermine_EmptyPoolPaysZero(t *testing.T) {
	out, err := Determine(resultWithValue(5), 1000, 0)
	require.NoError(t, err)
	require.True(t, out.Won)
	require.Equal(t, uint64(0), out.Payout)
}

func TestResetPayout(t *testing.T) {
	// desabilitado quando threshold = 0
	payout, fire := ResetPayout(1_000_000, 0)
	require.False(t, fire)
	require.Equal(t, uint64(0), payout)

	// abaixo do threshold
	_, fire = ResetPayout(999_999, 1_000_000)
	require.False(t, fire)

	// exatamente no threshold: paga floor(threshold/2)
	payout, fire = ResetPayout(1_000_000, 1_000_000)
	require.True(t, fire)
	require.Equal(t, uint64(500_000), payout)

	// threshold ímpar usa floor
	payout, fire = ResetPayout(200, 101)
	require.True(t, fire)
	require.Equal(t, uint64(50), payout)
}
