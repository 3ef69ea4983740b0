package events

// RandomnessRequested é publicado pelo jackpot-service quando uma aposta
// abre um pedido de aleatoriedade ao oráculo externo.
type RandomnessRequested struct {
	RequestID string `json:"request_id"` // id do registro de tracking
	BetID     string `json:"bet_id"`
	Player    string `json:"player"`
	Seed      string `json:"seed"` // 32 bytes em hex (8 bytes LE do timestamp, zero-padded)
	TsUnixMs  int64  `json:"ts_unix_ms"`
}

// RandomnessFulfilled é publicado pelo oráculo (ou simulador) com o
// resultado de 32 bytes para um pedido previamente emitido.
type RandomnessFulfilled struct {
	RequestID string `json:"request_id"`
	BetID     string `json:"bet_id"`
	Result    string `json:"result"` // 32 bytes em hex
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
