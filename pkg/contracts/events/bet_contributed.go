package events

// BetContributed é emitido após uma contribuição bem sucedida.
type BetContributed struct {
	BetID               string `json:"bet_id"`
	Player              string `json:"player"`
	Amount              uint64 `json:"amount"`
	JackpotContribution uint64 `json:"jackpot_contribution"`
	PoolBalance         uint64 `json:"pool_balance"`
	RequestID           string `json:"request_id,omitempty"` // vazio se nenhum pedido foi aberto
	TsUnixMs            int64  `json:"ts_unix_ms"`
}
