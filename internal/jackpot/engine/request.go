package engine

import (
	"encoding/binary"
	"time"
)

// RequestSeed deriva o id de 32 bytes de um pedido de aleatoriedade:
// 8 bytes little-endian do unix time do pedido, zero-padded até 32.
// Faz parte do contrato com o oráculo externo.
func RequestSeed(t time.Time) [32]byte {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:8], uint64(t.Unix()))
	return seed
}
