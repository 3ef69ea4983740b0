package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

// WithdrawHouse saca taxas acumuladas da casa para o cofre da
// autoridade. Só a autoridade configurada pode sacar.
func (s *Service) WithdrawHouse(ctx context.Context, caller string, amount uint64) error {
	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		cfg, err := tx.GetConfig(ctx)
		if err != nil {
			return err
		}
		if caller != cfg.Authority {
			return engine.ErrUnauthorized
		}

		balance, err := tx.VaultBalance(ctx, repo.VaultHouse)
		if err != nil {
			return err
		}
		if balance < amount {
			return engine.ErrInsufficientFunds
		}
		return tx.Transfer(ctx, repo.VaultHouse, repo.PlayerVault(caller), amount, "house:withdraw")
	})
	if err != nil {
		return err
	}

	_ = s.pub.PublishHouseWithdrawal(ctx, events.HouseWithdrawal{Authority: caller, Amount: amount})
	s.log.Info("house withdrawal", zap.String("authority", caller), zap.Uint64("amount", amount))
	return nil
}

// ConfigUpdate carrega os campos a atualizar; nil mantém o valor atual.
type ConfigUpdate struct {
	JackpotBP        *uint16
	HouseBP          *uint16
	ReserveBP        *uint16
	MinBet           *uint64
	MaxBet           *uint64
	WinProbabilityBP *uint16
	ResetThreshold   *uint64
	MilestoneBets    *uint64
	APYBP            *uint16
}

// UpdateConfig aplica um update parcial e revalida o conjunto depois do
// merge. Qualquer violação deixa todos os campos como estavam.
func (s *Service) UpdateConfig(ctx context.Context, caller string, upd ConfigUpdate) error {
	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		cfg, err := tx.GetConfig(ctx)
		if err != nil {
			return err
		}
		if caller != cfg.Authority {
			return engine.ErrUnauthorized
		}

		if upd.JackpotBP != nil {
			cfg.JackpotBP = *upd.JackpotBP
		}
		if upd.HouseBP != nil {
			cfg.HouseBP = *upd.HouseBP
		}
		if upd.ReserveBP != nil {
			cfg.ReserveBP = *upd.ReserveBP
		}
		if upd.MinBet != nil {
			cfg.MinBet = *upd.MinBet
		}
		if upd.MaxBet != nil {
			cfg.MaxBet = *upd.MaxBet
		}
		if upd.WinProbabilityBP != nil {
			if *upd.WinProbabilityBP == 0 || *upd.WinProbabilityBP > engine.BPDenominator {
				return engine.ErrInvalidConfig
			}
			cfg.WinProbabilityBP = *upd.WinProbabilityBP
		}

		// revalida o conjunto depois do merge
		if err := engine.ValidateSplit(engine.SplitConfig{
			JackpotBP: cfg.JackpotBP,
			HouseBP:   cfg.HouseBP,
			ReserveBP: cfg.ReserveBP,
			MinBet:    cfg.MinBet,
			MaxBet:    cfg.MaxBet,
		}); err != nil {
			return err
		}
		if err := tx.SaveConfig(ctx, cfg); err != nil {
			return err
		}

		if upd.ResetThreshold != nil || upd.MilestoneBets != nil {
			pool, err := tx.GetPool(ctx)
			if err != nil {
				return err
			}
			if upd.ResetThreshold != nil {
				pool.ResetThreshold = *upd.ResetThreshold
			}
			if upd.MilestoneBets != nil {
				pool.MilestoneBets = *upd.MilestoneBets
			}
			if err := tx.SavePool(ctx, pool); err != nil {
				return err
			}
		}

		if upd.APYBP != nil {
			reserve, err := tx.GetReserve(ctx)
			if err != nil {
				return err
			}
			reserve.APYBP = *upd.APYBP
			if err := tx.SaveReserve(ctx, reserve); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.pub.PublishConfigUpdated(ctx, events.ConfigUpdated{Authority: caller})
	s.log.Info("config updated", zap.String("authority", caller))
	return nil
}
