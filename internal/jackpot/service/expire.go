package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

// ExpireBet devolve a aposta de um pedido de aleatoriedade que nunca foi
// atendido. Só libera depois do timeout passivo; o reembolso sai do cofre
// da casa porque o pool já absorveu a contribuição.
func (s *Service) ExpireBet(ctx context.Context, betID string) (repo.Bet, error) {
	var bet repo.Bet

	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		var err error
		bet, err = tx.GetBet(ctx, betID)
		if err == repo.ErrNotFound {
			return engine.ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if bet.Status != repo.BetStatusPending || bet.RequestID == nil {
			return engine.ErrRequestNotFound
		}

		req, err := tx.GetRequest(ctx, *bet.RequestID)
		if err != nil {
			return err
		}
		switch req.Status {
		case repo.RequestStatusFulfilled:
			return engine.ErrRequestAlreadyFulfilled
		case repo.RequestStatusTimedOut:
			return engine.ErrRequestTimeout
		}
		if s.now().Sub(req.RequestedAt) < engine.FulfillTimeout {
			return engine.ErrRequestNotExpired
		}

		req.Status = repo.RequestStatusTimedOut
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}

		if err := tx.Transfer(ctx, repo.VaultHouse, repo.PlayerVault(bet.Player), bet.Amount, "bet:refund"); err != nil {
			return err
		}

		bet.Status = repo.BetStatusRefunded
		return tx.UpdateBet(ctx, bet)
	})
	if err != nil {
		return repo.Bet{}, err
	}

	_ = s.pub.PublishBetRefunded(ctx, events.BetRefunded{
		BetID:  bet.ID,
		Player: bet.Player,
		Amount: bet.Amount,
	})
	s.log.Info("bet refunded after randomness timeout",
		zap.String("bet_id", bet.ID),
		zap.String("player", bet.Player),
		zap.Uint64("amount", bet.Amount),
	)
	return bet, nil
}
