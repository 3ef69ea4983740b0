package events

// RewardsClaimed é emitido quando um usuário resgata rendimento da reserva.
type RewardsClaimed struct {
	User         string `json:"user"`
	Amount       uint64 `json:"amount"`
	TotalClaimed uint64 `json:"total_claimed"`
	TsUnixMs     int64  `json:"ts_unix_ms"`
}
