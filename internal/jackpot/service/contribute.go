package service

import (
	"context"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

// ContributeResult é o retorno de uma contribuição bem sucedida.
type ContributeResult struct {
	Bet     repo.Bet
	Request *repo.RandomnessRequest // nil quando nenhum pedido foi aberto
	Shares  engine.Shares
}

// ContributeBet divide a aposta entre pool/casa/reserva, registra a
// aposta e abre um pedido de aleatoriedade conforme a política de
// milestone. Tudo dentro de uma transação: falha em qualquer etapa
// desfaz as transferências.
func (s *Service) ContributeBet(ctx context.Context, player string, amount uint64) (ContributeResult, error) {
	var (
		res  ContributeResult
		pool repo.Pool
		cfg  repo.Config
	)
	now := s.now()

	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		var err error
		cfg, err = tx.GetConfig(ctx)
		if err != nil {
			return err
		}
		pool, err = tx.GetPool(ctx)
		if err != nil {
			return err
		}
		reserve, err := tx.GetReserve(ctx)
		if err != nil {
			return err
		}

		shares, err := engine.Split(amount, engine.SplitConfig{
			JackpotBP: cfg.JackpotBP,
			HouseBP:   cfg.HouseBP,
			ReserveBP: cfg.ReserveBP,
			MinBet:    cfg.MinBet,
			MaxBet:    cfg.MaxBet,
		})
		if err != nil {
			return err
		}
		res.Shares = shares

		// move exatamente jackpot+house+reserve do pagador; o resto fica
		playerVault := repo.PlayerVault(player)
		if shares.Jackpot > 0 {
			if err := tx.Transfer(ctx, playerVault, repo.VaultPool, shares.Jackpot, "bet:jackpot"); err != nil {
				return err
			}
		}
		if shares.House > 0 {
			if err := tx.Transfer(ctx, playerVault, repo.VaultHouse, shares.House, "bet:house"); err != nil {
				return err
			}
		}
		if shares.Reserve > 0 {
			if err := tx.Transfer(ctx, playerVault, repo.VaultReserve, shares.Reserve, "bet:reserve"); err != nil {
				return err
			}
		}

		if pool.Balance, err = engine.CheckedAdd(pool.Balance, shares.Jackpot); err != nil {
			return err
		}
		if pool.BetsSinceWin, err = engine.CheckedAdd(pool.BetsSinceWin, 1); err != nil {
			return err
		}
		if cfg.TotalBets, err = engine.CheckedAdd(cfg.TotalBets, 1); err != nil {
			return err
		}
		if reserve.StakedAmount, err = engine.CheckedAdd(reserve.StakedAmount, shares.Reserve); err != nil {
			return err
		}

		bet, err := tx.CreateBet(ctx, repo.Bet{
			Player:   player,
			Amount:   amount,
			PlacedAt: now,
			Status:   repo.BetStatusPending,
		})
		if err != nil {
			return err
		}

		// milestone configurado: pedido só quando o contador alcança o
		// gatilho; sem milestone: pedido em toda contribuição
		shouldRequest := true
		if pool.MilestoneBets > 0 {
			shouldRequest = pool.BetsSinceWin >= pool.MilestoneBets
		}

		if shouldRequest {
			seed := engine.RequestSeed(now)
			req, err := tx.CreateRequest(ctx, repo.RandomnessRequest{
				BetID:       bet.ID,
				Player:      player,
				RequestedAt: now,
				Seed:        seed[:],
				Status:      repo.RequestStatusPending,
			})
			if err != nil {
				return err
			}
			bet.RequestID = &req.ID
			if err := tx.UpdateBet(ctx, bet); err != nil {
				return err
			}
			res.Request = &req
		}
		res.Bet = bet

		if err := tx.SavePool(ctx, pool); err != nil {
			return err
		}
		if err := tx.SaveConfig(ctx, cfg); err != nil {
			return err
		}
		return tx.SaveReserve(ctx, reserve)
	})
	if err != nil {
		return ContributeResult{}, err
	}

	betsContributed.Inc()
	s.refreshPoolCache(ctx, pool, cfg)

	_ = s.pub.PublishBetContributed(ctx, events.BetContributed{
		BetID:               res.Bet.ID,
		Player:              player,
		Amount:              amount,
		JackpotContribution: res.Shares.Jackpot,
		PoolBalance:         pool.Balance,
		RequestID:           requestIDOrEmpty(res.Request),
	})
	if res.Request != nil {
		_ = s.pub.PublishRandomnessRequested(ctx, events.RandomnessRequested{
			RequestID: res.Request.ID,
			BetID:     res.Bet.ID,
			Player:    player,
			Seed:      hex.EncodeToString(res.Request.Seed),
		})
	}

	s.log.Info("bet contributed",
		zap.String("bet_id", res.Bet.ID),
		zap.String("player", player),
		zap.Uint64("amount", amount),
		zap.Uint64("jackpot_share", res.Shares.Jackpot),
		zap.Uint64("pool_balance", pool.Balance),
		zap.Bool("randomness_requested", res.Request != nil),
	)
	return res, nil
}

func requestIDOrEmpty(r *repo.RandomnessRequest) string {
	if r == nil {
		return ""
	}
	return r.ID
}
