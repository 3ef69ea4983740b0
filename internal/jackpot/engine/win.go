package engine

import (
	"encoding/binary"
	"time"
)

// FulfillTimeout é a janela fixa para honrar um resultado de
// aleatoriedade depois que o pedido foi criado.
const FulfillTimeout = 3600 * time.Second

// Outcome é a decisão determinística de vitória para uma fulfillment.
type Outcome struct {
	Won    bool
	Value  uint64 // valor normalizado do resultado (mod 10000)
	TierBP uint64 // multiplicador do tier em bp (10000/5000/2500); 0 em derrota
	Payout uint64 // parcela do pool a pagar; 0 em derrota
}

// Determine decide vitória/derrota e o payout por tier a partir de um
// resultado de 32 bytes. Função pura: mesmas entradas, mesma saída.
//
// Os primeiros 8 bytes são interpretados como u64 little-endian; o valor
// mod 10000 é comparado com win_probability_bp. Em vitória o tier é
// avaliado contra frações do mesmo threshold:
//
//	m < threshold/10 → 100% do pool
//	m < threshold/2  → 50% do pool
//	senão            → 25% do pool
func Determine(result [32]byte, winProbabilityBP uint16, poolBalance uint64) (Outcome, error) {
	if winProbabilityBP == 0 || winProbabilityBP > BPDenominator {
		return Outcome{}, ErrInvalidWinThreshold
	}

	v := binary.LittleEndian.Uint64(result[:8])
	m := v % BPDenominator

	threshold := uint64(winProbabilityBP)
	if m >= threshold {
		return Outcome{Won: false, Value: m}, nil
	}

	var tierBP uint64
	switch {
	case m < threshold/10:
		tierBP = 10000 // vitória rara: pool inteiro
	case m < threshold/2:
		tierBP = 5000 // vitória média: metade do pool
	default:
		tierBP = 2500 // vitória comum: um quarto do pool
	}

	prod, err := CheckedMul(poolBalance, tierBP)
	if err != nil {
		return Outcome{}, err
	}
	payout := prod / BPDenominator

	// não deveria ocorrer com tierBP <= 10000, mas é a invariante do pool
	if payout > poolBalance {
		return Outcome{}, ErrInsufficientFunds
	}

	return Outcome{Won: true, Value: m, TierBP: tierBP, Payout: payout}, nil
}

// ResetPayout avalia o auto-reset do pool: dispara quando o threshold é
// positivo e o saldo o alcança, pagando floor(threshold/2). Independe do
// resultado de vitória/derrota da fulfillment.
func ResetPayout(poolBalance, resetThreshold uint64) (uint64, bool) {
	if resetThreshold == 0 || poolBalance < resetThreshold {
		return 0, false
	}
	return resetThreshold / 2, true
}
