package engine

// YearSeconds é o ano de 365 dias usado pela fórmula de accrual.
const YearSeconds = 31536000

// Accrue calcula o rendimento acumulado da reserva para um claim.
// Fórmula inteira, com a ordem divide-depois-multiplica fixada para
// manter o resultado determinístico:
//
//	apyDecimal = floor(reserveBP * apyBP / 10000)
//	reward     = floor(staked * apyDecimal * elapsed / 10000 / 31536000)
//
// O cálculo é contra a reserva inteira para todo claimant: contabilidade
// coletiva, sem proporcionalidade por contribuinte.
func Accrue(staked uint64, reserveBP, apyBP uint16, elapsed int64) (uint64, error) {
	if staked == 0 {
		return 0, ErrReserveNotInitialized
	}
	if elapsed <= 0 {
		return 0, ErrClaimPeriodNotStarted
	}

	apyDecimal, err := CheckedMul(uint64(reserveBP), uint64(apyBP))
	if err != nil {
		return 0, err
	}
	apyDecimal /= BPDenominator

	reward, err := CheckedMul(staked, apyDecimal)
	if err != nil {
		return 0, err
	}
	reward, err = CheckedMul(reward, uint64(elapsed))
	if err != nil {
		return 0, err
	}
	reward /= BPDenominator
	reward /= YearSeconds

	if reward == 0 {
		return 0, ErrNoRewardsAvailable
	}
	return reward, nil
}
