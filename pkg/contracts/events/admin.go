package events

// HouseWithdrawal é emitido quando a autoridade saca taxas da casa.
type HouseWithdrawal struct {
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}

// ConfigUpdated é emitido após uma atualização de configuração.
type ConfigUpdated struct {
	Authority string `json:"authority"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
