package engine

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckedMath(t *testing.T) {
	v, err := CheckedMul(math.MaxUint64, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)

	_, err = CheckedMul(math.MaxUint64, 2)
	require.ErrorIs(t, err, ErrMathOverflow)

	_, err = CheckedAdd(math.MaxUint64, 1)
	require.ErrorIs(t, err, ErrMathOverflow)

	_, err = CheckedSub(0, 1)
	require.ErrorIs(t, err, ErrMathOverflow)

	_, err = CheckedDiv(1, 0)
	require.ErrorIs(t, err, ErrMathOverflow)
}

func TestRequestSeed(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	seed := RequestSeed(at)

	require.Equal(t, uint64(1_700_000_000), binary.LittleEndian.Uint64(seed[:8]))
	for i := 8; i < 32; i++ {
		require.Zero(t, seed[i], "byte %d deve ser zero-padding", i)
	}
}
