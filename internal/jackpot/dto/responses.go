package dto

import "time"

type BetResponse struct {
	BetID     string  `json:"betId"`
	Player    string  `json:"player"`
	Amount    uint64  `json:"amount"`
	Status    string  `json:"status"`
	WinAmount uint64  `json:"win_amount,omitempty"`
	RequestID *string `json:"request_id,omitempty"`
}

type PlaceBetResponse struct {
	BetID               string  `json:"betId"`
	Status              string  `json:"status"` // PENDING
	JackpotContribution uint64  `json:"jackpot_contribution"`
	HouseFee            uint64  `json:"house_fee"`
	ReserveContribution uint64  `json:"reserve_contribution"`
	RequestID           *string `json:"request_id,omitempty"`
}

type FulfillResponse struct {
	BetID       string `json:"betId"`
	Status      string `json:"status"` // WON | LOST
	VrfValue    uint64 `json:"vrf_value"`
	TierBp      uint64 `json:"tier_bp,omitempty"`
	Payout      uint64 `json:"payout,omitempty"`
	ResetPayout uint64 `json:"reset_payout,omitempty"`
	PoolBalance uint64 `json:"pool_balance"`
}

type PoolResponse struct {
	Balance      uint64     `json:"balance"`
	BetsSinceWin uint64     `json:"bets_since_win"`
	LastWinner   *string    `json:"last_winner,omitempty"`
	LastWinTime  *time.Time `json:"last_win_time,omitempty"`
	TotalBets    uint64     `json:"total_bets"`
	TotalWins    uint64     `json:"total_wins"`
}

type ClaimResponse struct {
	User         string `json:"user"`
	Amount       uint64 `json:"amount"`
	TotalClaimed uint64 `json:"total_claimed"`
}

type DepositResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
