package dto

type InitializeRequest struct {
	JackpotShareBp   uint16  `json:"jackpot_share_bp"`
	HouseFeeBp       uint16  `json:"house_fee_bp"`
	ReserveShareBp   uint16  `json:"reserve_share_bp"`
	MinBet           uint64  `json:"min_bet"`
	MaxBet           uint64  `json:"max_bet"`
	WinProbabilityBp uint16  `json:"win_probability_bp"`
	OracleProvider   uint8   `json:"oracle_provider"` // 0 | 1
	OracleNetworkID  *string `json:"oracle_network_id,omitempty"`
	OracleQueueID    *string `json:"oracle_queue_id,omitempty"`
	ResetThreshold   uint64  `json:"reset_threshold"` // 0 desabilita
	MilestoneBets    uint64  `json:"milestone_bets"`  // 0 desabilita
	ApyBp            uint16  `json:"apy_bp"`
}

type PlaceBetRequest struct {
	Amount uint64 `json:"amount"`
}

type FulfillRequest struct {
	RequestID string `json:"request_id"`
	BetID     string `json:"bet_id"`
	Result    string `json:"result"` // 32 bytes hex
}

type DepositRequest struct {
	Amount uint64 `json:"amount"`
}

type WithdrawRequest struct {
	Amount uint64 `json:"amount"`
}

// UpdateConfigRequest: campos nil não são alterados
type UpdateConfigRequest struct {
	JackpotShareBp   *uint16 `json:"jackpot_share_bp,omitempty"`
	HouseFeeBp       *uint16 `json:"house_fee_bp,omitempty"`
	ReserveShareBp   *uint16 `json:"reserve_share_bp,omitempty"`
	MinBet           *uint64 `json:"min_bet,omitempty"`
	MaxBet           *uint64 `json:"max_bet,omitempty"`
	WinProbabilityBp *uint16 `json:"win_probability_bp,omitempty"`
	ResetThreshold   *uint64 `json:"reset_threshold,omitempty"`
	MilestoneBets    *uint64 `json:"milestone_bets,omitempty"`
	ApyBp            *uint16 `json:"apy_bp,omitempty"`
}
