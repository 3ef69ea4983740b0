package engine

// BPDenominator é o denominador de basis points (10000 = 100%).
const BPDenominator = 10000

// SplitConfig são os parâmetros de distribuição lidos da Config global.
type SplitConfig struct {
	JackpotBP uint16
	HouseBP   uint16
	ReserveBP uint16
	MinBet    uint64
	MaxBet    uint64
}

// Shares é o resultado da divisão de uma aposta em três destinos.
type Shares struct {
	Jackpot uint64
	House   uint64
	Reserve uint64
}

// Split divide uma aposta entre jackpot, casa e reserva usando floor em
// basis points. Valida os limites de aposta antes de calcular.
// floor(amount*bp/10000) nunca aloca mais do que amount quando a soma
// dos percentuais é <= 10000bp.
func Split(amount uint64, cfg SplitConfig) (Shares, error) {
	if amount < cfg.MinBet {
		return Shares{}, ErrBetTooSmall
	}
	if amount > cfg.MaxBet {
		return Shares{}, ErrBetTooLarge
	}

	jackpot, err := bpShare(amount, cfg.JackpotBP)
	if err != nil {
		return Shares{}, err
	}
	house, err := bpShare(amount, cfg.HouseBP)
	if err != nil {
		return Shares{}, err
	}
	reserve, err := bpShare(amount, cfg.ReserveBP)
	if err != nil {
		return Shares{}, err
	}

	return Shares{Jackpot: jackpot, House: house, Reserve: reserve}, nil
}

// bpShare calcula floor(amount * bp / 10000) com aritmética checada.
func bpShare(amount uint64, bp uint16) (uint64, error) {
	prod, err := CheckedMul(amount, uint64(bp))
	if err != nil {
		return 0, err
	}
	return prod / BPDenominator, nil
}

// ValidateSplit valida o conjunto de percentuais e limites de aposta.
// Usada por Initialize e UpdateConfig após o merge dos campos.
func ValidateSplit(cfg SplitConfig) error {
	total, err := CheckedAdd(uint64(cfg.JackpotBP), uint64(cfg.HouseBP))
	if err != nil {
		return err
	}
	total, err = CheckedAdd(total, uint64(cfg.ReserveBP))
	if err != nil {
		return err
	}
	if total > BPDenominator {
		return ErrInvalidConfig
	}
	if cfg.MinBet == 0 || cfg.MaxBet < cfg.MinBet {
		return ErrInvalidConfig
	}
	return nil
}
