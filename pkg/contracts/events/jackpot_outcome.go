package events

// JackpotWon é emitido quando uma fulfillment resulta em vitória.
type JackpotWon struct {
	BetID       string `json:"bet_id"`
	Player      string `json:"player"`
	Amount      uint64 `json:"amount"`
	PoolBalance uint64 `json:"pool_balance"`
	VrfValue    uint64 `json:"vrf_value"` // valor normalizado (mod 10000)
	TsUnixMs    int64  `json:"ts_unix_ms"`
}

// JackpotLoss é emitido quando uma fulfillment resulta em derrota.
type JackpotLoss struct {
	BetID    string `json:"bet_id"`
	Player   string `json:"player"`
	VrfValue uint64 `json:"vrf_value"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}

// BetRefunded é emitido quando uma aposta com pedido expirado é estornada.
type BetRefunded struct {
	BetID    string `json:"bet_id"`
	Player   string `json:"player"`
	Amount   uint64 `json:"amount"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}
