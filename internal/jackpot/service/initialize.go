package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
)

// distribution_period padrão da reserva (1 dia)
const defaultDistributionPeriod = 86400

// InitializeParams são os parâmetros de criação do sistema.
type InitializeParams struct {
	JackpotBP        uint16
	HouseBP          uint16
	ReserveBP        uint16
	MinBet           uint64
	MaxBet           uint64
	WinProbabilityBP uint16
	OracleProvider   uint8
	OracleNetworkID  *string
	OracleQueueID    *string
	ResetThreshold   uint64
	MilestoneBets    uint64
	APYBP            uint16
}

// Initialize cria config, pool e reserva zerados. O caller vira a
// autoridade da casa. Só pode ser executada uma vez.
func (s *Service) Initialize(ctx context.Context, caller string, p InitializeParams) error {
	if err := engine.ValidateSplit(engine.SplitConfig{
		JackpotBP: p.JackpotBP,
		HouseBP:   p.HouseBP,
		ReserveBP: p.ReserveBP,
		MinBet:    p.MinBet,
		MaxBet:    p.MaxBet,
	}); err != nil {
		return err
	}
	if p.WinProbabilityBP == 0 || p.WinProbabilityBP > engine.BPDenominator {
		return engine.ErrInvalidConfig
	}
	if p.OracleProvider > 1 {
		return engine.ErrInvalidConfig
	}

	now := s.now()
	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		if _, err := tx.GetConfig(ctx); err == nil {
			return engine.ErrInvalidConfig // já inicializado
		} else if err != repo.ErrNotFound {
			return err
		}

		if err := tx.SaveConfig(ctx, repo.Config{
			Authority:        caller,
			JackpotBP:        p.JackpotBP,
			HouseBP:          p.HouseBP,
			ReserveBP:        p.ReserveBP,
			MinBet:           p.MinBet,
			MaxBet:           p.MaxBet,
			WinProbabilityBP: p.WinProbabilityBP,
			OracleProvider:   p.OracleProvider,
			OracleNetworkID:  p.OracleNetworkID,
			OracleQueueID:    p.OracleQueueID,
		}); err != nil {
			return err
		}

		if err := tx.SavePool(ctx, repo.Pool{
			ResetThreshold: p.ResetThreshold,
			MilestoneBets:  p.MilestoneBets,
		}); err != nil {
			return err
		}

		return tx.SaveReserve(ctx, repo.Reserve{
			LastDistribution:   now,
			DistributionPeriod: defaultDistributionPeriod,
			APYBP:              p.APYBP,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info("jackpot initialized",
		zap.String("authority", caller),
		zap.Uint16("jackpot_bp", p.JackpotBP),
		zap.Uint16("house_bp", p.HouseBP),
		zap.Uint16("reserve_bp", p.ReserveBP),
	)
	return nil
}
