package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

// ClaimResult é o retorno de um resgate de rendimento.
type ClaimResult struct {
	Reward uint64
	Claim  repo.Claim
}

// ClaimRewards calcula o rendimento acumulado desde o último claim e
// transfere da reserva para o claimant. No primeiro claim de um usuário
// o ledger é criado com last_claim = agora e a chamada retorna
// ClaimPeriodNotStarted; a criação persiste para que um claim
// posterior tenha uma janela para acumular.
func (s *Service) ClaimRewards(ctx context.Context, claimant string) (ClaimResult, error) {
	var (
		res     ClaimResult
		created bool
	)
	now := s.now()

	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		cfg, err := tx.GetConfig(ctx)
		if err != nil {
			return err
		}
		reserve, err := tx.GetReserve(ctx)
		if err != nil {
			return err
		}
		if reserve.StakedAmount == 0 {
			return engine.ErrReserveNotInitialized
		}

		claim, err := tx.GetClaim(ctx, claimant)
		if err == repo.ErrNotFound {
			created = true
			return tx.SaveClaim(ctx, repo.Claim{Claimant: claimant, LastClaim: now})
		}
		if err != nil {
			return err
		}

		elapsed := now.Unix() - claim.LastClaim.Unix()
		reward, err := engine.Accrue(reserve.StakedAmount, cfg.ReserveBP, reserve.APYBP, elapsed)
		if err != nil {
			return err
		}

		// a reserva externa tem que cobrir o reward
		reserveBalance, err := tx.VaultBalance(ctx, repo.VaultReserve)
		if err != nil {
			return err
		}
		if reserveBalance < reward {
			return engine.ErrInsufficientFunds
		}

		if err := tx.Transfer(ctx, repo.VaultReserve, repo.PlayerVault(claimant), reward, "rewards:claim"); err != nil {
			return err
		}

		if claim.TotalEarned, err = engine.CheckedAdd(claim.TotalEarned, reward); err != nil {
			return err
		}
		if claim.TotalClaimed, err = engine.CheckedAdd(claim.TotalClaimed, reward); err != nil {
			return err
		}
		claim.LastClaim = now
		if err := tx.SaveClaim(ctx, claim); err != nil {
			return err
		}

		if reserve.TotalDistributed, err = engine.CheckedAdd(reserve.TotalDistributed, reward); err != nil {
			return err
		}
		reserve.LastDistribution = now
		if err := tx.SaveReserve(ctx, reserve); err != nil {
			return err
		}

		res = ClaimResult{Reward: reward, Claim: claim}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	if created {
		// primeiro claim: ledger criado, nada a resgatar ainda
		return ClaimResult{}, engine.ErrClaimPeriodNotStarted
	}

	rewardsClaimedUnits.Add(float64(res.Reward))
	_ = s.pub.PublishRewardsClaimed(ctx, events.RewardsClaimed{
		User:         claimant,
		Amount:       res.Reward,
		TotalClaimed: res.Claim.TotalClaimed,
	})

	s.log.Info("rewards claimed",
		zap.String("user", claimant),
		zap.Uint64("amount", res.Reward),
		zap.Uint64("total_claimed", res.Claim.TotalClaimed),
	)
	return res, nil
}
