package repo

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Tx expõe os registros nomeados e o primitivo de transferência dentro
// de uma transação. Cada operação pública do engine roda inteira sobre
// um Tx: ou todas as mutações e transferências commitam, ou nenhuma.
type Tx interface {
	GetConfig(ctx context.Context) (Config, error)
	SaveConfig(ctx context.Context, c Config) error

	GetPool(ctx context.Context) (Pool, error)
	SavePool(ctx context.Context, p Pool) error

	GetReserve(ctx context.Context) (Reserve, error)
	SaveReserve(ctx context.Context, r Reserve) error

	CreateBet(ctx context.Context, b Bet) (Bet, error)
	GetBet(ctx context.Context, betID string) (Bet, error)
	UpdateBet(ctx context.Context, b Bet) error

	CreateRequest(ctx context.Context, r RandomnessRequest) (RandomnessRequest, error)
	GetRequest(ctx context.Context, requestID string) (RandomnessRequest, error)
	UpdateRequest(ctx context.Context, r RandomnessRequest) error

	GetClaim(ctx context.Context, claimant string) (Claim, error)
	SaveClaim(ctx context.Context, c Claim) error

	// Primitivo de transferência entre cofres nomeados. Cada movimento
	// registra uma linha no ledger. Debit falha com
	// engine.ErrInsufficientFunds quando o saldo não cobre.
	VaultBalance(ctx context.Context, vault string) (uint64, error)
	Credit(ctx context.Context, vault string, amount uint64, reason string) error
	Debit(ctx context.Context, vault string, amount uint64, reason string) error
	Transfer(ctx context.Context, from, to string, amount uint64, reason string) error
}

// Store abre transações sobre o armazenamento do host.
type Store interface {
	// ExecTx executa fn dentro de uma transação; rollback em qualquer erro.
	ExecTx(ctx context.Context, fn func(tx Tx) error) error
}
