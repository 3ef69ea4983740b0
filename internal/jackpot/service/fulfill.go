package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

// FulfillResult é o retorno de uma fulfillment processada.
type FulfillResult struct {
	Bet         repo.Bet
	Outcome     engine.Outcome
	ResetPaid   uint64 // pago pelo auto-reset do pool, se disparou
	PoolBalance uint64
}

// FulfillJackpot consome o resultado de 32 bytes do oráculo para um
// pedido pendente, decide vitória/derrota e aplica payout e auto-reset.
// O pedido tem que estar pendente, referenciar a aposta dada e estar
// dentro da janela de 3600s; fora disso a operação aborta sem mutação.
func (s *Service) FulfillJackpot(ctx context.Context, requestID, betID string, result [32]byte) (FulfillResult, error) {
	var (
		res  FulfillResult
		pool repo.Pool
		cfg  repo.Config
	)
	now := s.now()

	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err == repo.ErrNotFound {
			return engine.ErrRequestNotFound
		}
		if err != nil {
			return err
		}

		switch req.Status {
		case repo.RequestStatusFulfilled:
			return engine.ErrRequestAlreadyFulfilled
		case repo.RequestStatusTimedOut:
			return engine.ErrRequestTimeout
		}

		if req.BetID != betID {
			return engine.ErrInvalidOracleAuthority
		}

		// timeout passivo: o resultado deixa de ser honrado depois da
		// janela; o registro continua pendente até o estorno explícito
		if now.Sub(req.RequestedAt) >= engine.FulfillTimeout {
			return engine.ErrRequestTimeout
		}

		bet, err := tx.GetBet(ctx, betID)
		if err == repo.ErrNotFound {
			return engine.ErrRequestNotFound
		}
		if err != nil {
			return err
		}

		cfg, err = tx.GetConfig(ctx)
		if err != nil {
			return err
		}
		pool, err = tx.GetPool(ctx)
		if err != nil {
			return err
		}

		req.Status = repo.RequestStatusFulfilled
		req.Result = append([]byte(nil), result[:]...)
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}

		out, err := engine.Determine(result, cfg.WinProbabilityBP, pool.Balance)
		if err != nil {
			return err
		}
		res.Outcome = out

		if out.Won {
			if out.Payout > 0 {
				if err := tx.Transfer(ctx, repo.VaultPool, repo.PlayerVault(bet.Player), out.Payout, "jackpot:win"); err != nil {
					return err
				}
			}
			if pool.Balance, err = engine.CheckedSub(pool.Balance, out.Payout); err != nil {
				return err
			}
			winner := bet.Player
			winTime := now
			pool.LastWinner = &winner
			pool.LastWinTime = &winTime
			pool.BetsSinceWin = 0

			bet.Status = repo.BetStatusWon
			bet.WinAmount = out.Payout

			if cfg.TotalWins, err = engine.CheckedAdd(cfg.TotalWins, 1); err != nil {
				return err
			}
		} else {
			bet.Status = repo.BetStatusLost
		}

		// auto-reset: independe do resultado da fulfillment
		if resetPayout, fire := engine.ResetPayout(pool.Balance, pool.ResetThreshold); fire {
			if resetPayout > 0 {
				if err := tx.Transfer(ctx, repo.VaultPool, repo.PlayerVault(bet.Player), resetPayout, "jackpot:reset"); err != nil {
					return err
				}
				if pool.Balance, err = engine.CheckedSub(pool.Balance, resetPayout); err != nil {
					return err
				}
			}
			pool.BetsSinceWin = 0
			res.ResetPaid = resetPayout
		}

		if err := tx.UpdateBet(ctx, bet); err != nil {
			return err
		}
		res.Bet = bet

		if err := tx.SavePool(ctx, pool); err != nil {
			return err
		}
		return tx.SaveConfig(ctx, cfg)
	})
	if err != nil {
		return FulfillResult{}, err
	}
	res.PoolBalance = pool.Balance

	s.refreshPoolCache(ctx, pool, cfg)

	if res.Outcome.Won {
		jackpotWins.Inc()
		jackpotPayoutUnits.Add(float64(res.Outcome.Payout))
		_ = s.pub.PublishJackpotWon(ctx, events.JackpotWon{
			BetID:       res.Bet.ID,
			Player:      res.Bet.Player,
			Amount:      res.Outcome.Payout,
			PoolBalance: pool.Balance,
			VrfValue:    res.Outcome.Value,
		})
		s.log.Info("jackpot won",
			zap.String("bet_id", res.Bet.ID),
			zap.String("player", res.Bet.Player),
			zap.Uint64("amount", res.Outcome.Payout),
			zap.Uint64("vrf_value", res.Outcome.Value),
		)
	} else {
		_ = s.pub.PublishJackpotLoss(ctx, events.JackpotLoss{
			BetID:    res.Bet.ID,
			Player:   res.Bet.Player,
			VrfValue: res.Outcome.Value,
		})
		s.log.Info("no win",
			zap.String("bet_id", res.Bet.ID),
			zap.Uint64("vrf_value", res.Outcome.Value),
		)
	}
	if res.ResetPaid > 0 {
		jackpotPayoutUnits.Add(float64(res.ResetPaid))
		s.log.Info("pool reset threshold reached",
			zap.Uint64("reset_payout", res.ResetPaid),
			zap.Uint64("pool_balance", pool.Balance),
		)
	}

	return res, nil
}
