package service

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

type fakePublisher struct {
	requested   []events.RandomnessRequested
	contributed []events.BetContributed
	wins        []events.JackpotWon
	losses      []events.JackpotLoss
	refunds     []events.BetRefunded
	claims      []events.RewardsClaimed
	withdrawals []events.HouseWithdrawal
	configs     []events.ConfigUpdated
}

func (p *fakePublisher) PublishRandomnessRequested(_ context.Context, e events.RandomnessRequested) error {
	p.requested = append(p.requested, e)
	return nil
}

func (p *fakePublisher) PublishBetContributed(_ context.Context, e events.BetContributed) error {
	p.contributed = append(p.contributed, e)
	return nil
}

func (p *fakePublisher) PublishJackpotWon(_ context.Context, e events.JackpotWon) error {
	p.wins = append(p.wins, e)
	return nil
}

func (p *fakePublisher) PublishJackpotLoss(_ context.Context, e events.JackpotLoss) error {
	p.losses = append(p.losses, e)
	return nil
}

func (p *fakePublisher) PublishBetRefunded(_ context.Context, e events.BetRefunded) error {
	p.refunds = append(p.refunds, e)
	return nil
}

func (p *fakePublisher) PublishRewardsClaimed(_ context.Context, e events.RewardsClaimed) error {
	p.claims = append(p.claims, e)
	return nil
}

func (p *fakePublisher) PublishHouseWithdrawal(_ context.Context, e events.HouseWithdrawal) error {
	p.withdrawals = append(p.withdrawals, e)
	return nil
}

func (p *fakePublisher) PublishConfigUpdated(_ context.Context, e events.ConfigUpdated) error {
	p.configs = append(p.configs, e)
	return nil
}

type fixture struct {
	svc   *Service
	store *repo.MemoryStore
	pub   *fakePublisher
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: repo.NewMemoryStore(),
		pub:   &fakePublisher{},
		now:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = New(zap.NewNop(), f.store, f.pub)
	f.svc.WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func defaultParams() InitializeParams {
	return InitializeParams{
		JackpotBP:        8000,
		HouseBP:          1500,
		ReserveBP:        500,
		MinBet:           100,
		MaxBet:           100_000_000_000,
		WinProbabilityBP: 1000,
		APYBP:            1000,
	}
}

func (f *fixture) initialize(t *testing.T, p InitializeParams) {
	t.Helper()
	require.NoError(t, f.svc.Initialize(context.Background(), "admin", p))
}

func (f *fixture) fund(t *testing.T, player string, amount uint64) {
	t.Helper()
	_, err := f.svc.Deposit(context.Background(), player, amount)
	require.NoError(t, err)
}

// resultWithValue monta um resultado de 32 bytes cujo u64 LE inicial é v.
func resultWithValue(v uint64) [32]byte {
	var r [32]byte
	binary.LittleEndian.PutUint64(r[:8], v)
	return r
}

func (f *fixture) requestStatus(t *testing.T, requestID string) repo.RequestStatus {
	t.Helper()
	var status repo.RequestStatus
	err := f.store.ExecTx(context.Background(), func(tx repo.Tx) error {
		req, err := tx.GetRequest(context.Background(), requestID)
		if err != nil {
			return err
		}
		status = req.Status
		return nil
	})
	require.NoError(t, err)
	return status
}

func TestInitialize_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())

	err := f.svc.Initialize(context.Background(), "someone-else", defaultParams())
	require.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestInitialize_RejectsInvalidSplit(t *testing.T) {
	f := newFixture(t)

	p := defaultParams()
	p.JackpotBP = 9000 // 9000+1500+500 > 10000
	require.ErrorIs(t, f.svc.Initialize(context.Background(), "admin", p), engine.ErrInvalidConfig)

	p = defaultParams()
	p.WinProbabilityBP = 0
	require.ErrorIs(t, f.svc.Initialize(context.Background(), "admin", p), engine.ErrInvalidConfig)

	p = defaultParams()
	p.OracleProvider = 2
	require.ErrorIs(t, f.svc.Initialize(context.Background(), "admin", p), engine.ErrInvalidConfig)
}

func TestContribute_SplitsStakeAndOpensRequest(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	res, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	require.Equal(t, uint64(8000), res.Shares.Jackpot)
	require.Equal(t, uint64(1500), res.Shares.House)
	require.Equal(t, uint64(500), res.Shares.Reserve)
	require.Equal(t, repo.BetStatusPending, res.Bet.Status)
	require.NotNil(t, res.Request)
	require.Equal(t, res.Bet.ID, res.Request.BetID)

	balance := func(v string) uint64 {
		b, err := f.svc.VaultBalance(context.Background(), v)
		require.NoError(t, err)
		return b
	}
	require.Equal(t, uint64(0), balance(repo.PlayerVault("alice")))
	require.Equal(t, uint64(8000), balance(repo.VaultPool))
	require.Equal(t, uint64(1500), balance(repo.VaultHouse))
	require.Equal(t, uint64(500), balance(repo.VaultReserve))

	snap, err := f.svc.PoolStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(8000), snap.Balance)
	require.Equal(t, uint64(1), snap.BetsSinceWin)
	require.Equal(t, uint64(1), snap.TotalBets)

	require.Len(t, f.pub.contributed, 1)
	require.Len(t, f.pub.requested, 1)
	require.Equal(t, res.Request.ID, f.pub.requested[0].RequestID)
}

func TestContribute_EnforcesBetBounds(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 200_000_000_000)

	_, err := f.svc.ContributeBet(context.Background(), "alice", 50)
	require.ErrorIs(t, err, engine.ErrBetTooSmall)

	_, err = f.svc.ContributeBet(context.Background(), "alice", 100_000_000_001)
	require.ErrorIs(t, err, engine.ErrBetTooLarge)

	snap, err := f.svc.PoolStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(0), snap.Balance)
	require.Equal(t, uint64(0), snap.TotalBets)
}

func TestContribute_FailsWithoutFunds(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())

	_, err := f.svc.ContributeBet(context.Background(), "broke", 10_000)
	require.ErrorIs(t, err, engine.ErrInsufficientFunds)

	// nada commitado: nenhuma aposta, nenhum movimento de cofre
	snap, err := f.svc.PoolStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(0), snap.TotalBets)
	require.Empty(t, f.store.Ledger())
}

func TestContribute_MilestoneGatesRandomness(t *testing.T) {
	f := newFixture(t)
	p := defaultParams()
	p.MilestoneBets = 3
	f.initialize(t, p)
	f.fund(t, "alice", 100_000)

	for i := 0; i < 2; i++ {
		res, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
		require.NoError(t, err)
		require.Nil(t, res.Request)
		require.Nil(t, res.Bet.RequestID)
	}

	res, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)
	require.NotNil(t, res.Request)
	require.Len(t, f.pub.requested, 1)
}

func TestFulfill_TopTierPaysFullPool(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	// winProb 1000: m=50 < 100 → tier 10000bp
	res, err := f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(50))
	require.NoError(t, err)

	require.True(t, res.Outcome.Won)
	require.Equal(t, uint64(10000), res.Outcome.TierBP)
	require.Equal(t, uint64(8000), res.Outcome.Payout)
	require.Equal(t, repo.BetStatusWon, res.Bet.Status)
	require.Equal(t, uint64(8000), res.Bet.WinAmount)
	require.Equal(t, uint64(0), res.PoolBalance)

	b, err := f.svc.VaultBalance(context.Background(), repo.PlayerVault("alice"))
	require.NoError(t, err)
	require.Equal(t, uint64(8000), b)

	snap, err := f.svc.PoolStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(0), snap.BetsSinceWin)
	require.Equal(t, uint64(1), snap.TotalWins)
	require.NotNil(t, snap.LastWinner)
	require.Equal(t, "alice", *snap.LastWinner)

	require.Len(t, f.pub.wins, 1)
	require.Equal(t, uint64(50), f.pub.wins[0].VrfValue)
}

func TestFulfill_MidAndLowTiers(t *testing.T) {
	cases := []struct {
		name   string
		value  uint64
		tierBP uint64
		payout uint64
	}{
		{"metade do pool", 400, 5000, 4000},
		{"um quarto do pool", 900, 2500, 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.initialize(t, defaultParams())
			f.fund(t, "alice", 10_000)

			c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
			require.NoError(t, err)

			res, err := f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(tc.value))
			require.NoError(t, err)
			require.True(t, res.Outcome.Won)
			require.Equal(t, tc.tierBP, res.Outcome.TierBP)
			require.Equal(t, tc.payout, res.Outcome.Payout)
			require.Equal(t, uint64(8000)-tc.payout, res.PoolBalance)
		})
	}
}

func TestFulfill_LossKeepsPool(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	res, err := f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(5000))
	require.NoError(t, err)
	require.False(t, res.Outcome.Won)
	require.Equal(t, repo.BetStatusLost, res.Bet.Status)
	require.Equal(t, uint64(8000), res.PoolBalance)

	snap, err := f.svc.PoolStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), snap.BetsSinceWin) // derrota não zera o contador
	require.Len(t, f.pub.losses, 1)
}

func TestFulfill_SecondAttemptRejected(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	_, err = f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(50))
	require.NoError(t, err)

	before, err := f.svc.VaultBalance(context.Background(), repo.PlayerVault("alice"))
	require.NoError(t, err)

	_, err = f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(50))
	require.ErrorIs(t, err, engine.ErrRequestAlreadyFulfilled)

	after, err := f.svc.VaultBalance(context.Background(), repo.PlayerVault("alice"))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestFulfill_BetMismatch(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 20_000)

	c1, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)
	c2, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	_, err = f.svc.FulfillJackpot(context.Background(), c1.Request.ID, c2.Bet.ID, resultWithValue(50))
	require.ErrorIs(t, err, engine.ErrInvalidOracleAuthority)
}

func TestFulfill_TimeoutRejectsLateResult(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	f.advance(engine.FulfillTimeout)

	_, err = f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(50))
	require.ErrorIs(t, err, engine.ErrRequestTimeout)

	// rollback: o pedido continua pendente até o estorno explícito
	require.Equal(t, repo.RequestStatusPending, f.requestStatus(t, c.Request.ID))
}

func TestFulfill_UnknownRequest(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())

	_, err := f.svc.FulfillJackpot(context.Background(), "nope", "nope", resultWithValue(50))
	require.ErrorIs(t, err, engine.ErrRequestNotFound)
}

func TestFulfill_ResetFiresOnLoss(t *testing.T) {
	f := newFixture(t)
	p := defaultParams()
	p.ResetThreshold = 5000
	f.initialize(t, p)
	f.fund(t, "alice", 10_000)

	c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	// derrota, mas o pool (8000) já alcançou o threshold (5000)
	res, err := f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(5000))
	require.NoError(t, err)
	require.False(t, res.Outcome.Won)
	require.Equal(t, uint64(2500), res.ResetPaid)
	require.Equal(t, uint64(5500), res.PoolBalance)

	b, err := f.svc.VaultBalance(context.Background(), repo.PlayerVault("alice"))
	require.NoError(t, err)
	require.Equal(t, uint64(2500), b)

	snap, err := f.svc.PoolStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(0), snap.BetsSinceWin)
}

func TestExpire_RefundsAfterTimeout(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	// cobre o estorno integral que sai do cofre da casa
	err = f.store.ExecTx(context.Background(), func(tx repo.Tx) error {
		return tx.Credit(context.Background(), repo.VaultHouse, 20_000, "house:seed")
	})
	require.NoError(t, err)

	_, err = f.svc.ExpireBet(context.Background(), c.Bet.ID)
	require.ErrorIs(t, err, engine.ErrRequestNotExpired)

	f.advance(engine.FulfillTimeout)

	bet, err := f.svc.ExpireBet(context.Background(), c.Bet.ID)
	require.NoError(t, err)
	require.Equal(t, repo.BetStatusRefunded, bet.Status)

	b, err := f.svc.VaultBalance(context.Background(), repo.PlayerVault("alice"))
	require.NoError(t, err)
	require.Equal(t, uint64(10_000), b)

	require.Equal(t, repo.RequestStatusTimedOut, f.requestStatus(t, c.Request.ID))
	require.Len(t, f.pub.refunds, 1)

	// um segundo estorno não move fundos de novo
	_, err = f.svc.ExpireBet(context.Background(), c.Bet.ID)
	require.ErrorIs(t, err, engine.ErrRequestNotFound)
}

func TestExpire_RejectsFulfilledRequest(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	c, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	_, err = f.svc.FulfillJackpot(context.Background(), c.Request.ID, c.Bet.ID, resultWithValue(5000))
	require.NoError(t, err)

	f.advance(engine.FulfillTimeout)

	// aposta já decidida perde o link com um pedido pendente
	_, err = f.svc.ExpireBet(context.Background(), c.Bet.ID)
	require.ErrorIs(t, err, engine.ErrRequestNotFound)
}

func TestClaim_FirstCallOpensLedger(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 20_000_000_000)

	_, err := f.svc.ContributeBet(context.Background(), "alice", 20_000_000_000)
	require.NoError(t, err)

	// primeiro claim cria o ledger e não paga nada
	_, err = f.svc.ClaimRewards(context.Background(), "bob")
	require.ErrorIs(t, err, engine.ErrClaimPeriodNotStarted)

	// um ano depois: staked=1e9, apyDecimal=floor(500*1000/10000)=50
	// reward = floor(1e9 * 50 * 31536000 / 10000 / 31536000) = 5_000_000
	f.advance(365 * 24 * time.Hour)

	res, err := f.svc.ClaimRewards(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(5_000_000), res.Reward)
	require.Equal(t, uint64(5_000_000), res.Claim.TotalClaimed)

	b, err := f.svc.VaultBalance(context.Background(), repo.PlayerVault("bob"))
	require.NoError(t, err)
	require.Equal(t, uint64(5_000_000), b)

	require.Len(t, f.pub.claims, 1)
	require.Equal(t, "bob", f.pub.claims[0].User)
}

func TestClaim_RequiresStakedReserve(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())

	_, err := f.svc.ClaimRewards(context.Background(), "bob")
	require.ErrorIs(t, err, engine.ErrReserveNotInitialized)
}

func TestClaim_ZeroAccrualTooSoon(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	_, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	_, err = f.svc.ClaimRewards(context.Background(), "bob")
	require.ErrorIs(t, err, engine.ErrClaimPeriodNotStarted)

	// staked minúsculo: um segundo de accrual arredonda para zero
	f.advance(time.Second)
	_, err = f.svc.ClaimRewards(context.Background(), "bob")
	require.ErrorIs(t, err, engine.ErrNoRewardsAvailable)
}

func TestWithdrawHouse(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())
	f.fund(t, "alice", 10_000)

	_, err := f.svc.ContributeBet(context.Background(), "alice", 10_000)
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.WithdrawHouse(context.Background(), "mallory", 100), engine.ErrUnauthorized)
	require.ErrorIs(t, f.svc.WithdrawHouse(context.Background(), "admin", 2000), engine.ErrInsufficientFunds)

	require.NoError(t, f.svc.WithdrawHouse(context.Background(), "admin", 1000))

	b, err := f.svc.VaultBalance(context.Background(), repo.PlayerVault("admin"))
	require.NoError(t, err)
	require.Equal(t, uint64(1000), b)

	houseLeft, err := f.svc.VaultBalance(context.Background(), repo.VaultHouse)
	require.NoError(t, err)
	require.Equal(t, uint64(500), houseLeft)
	require.Len(t, f.pub.withdrawals, 1)
}

func TestUpdateConfig(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())

	newProb := uint16(500)
	milestone := uint64(5)
	apy := uint16(2000)
	require.NoError(t, f.svc.UpdateConfig(context.Background(), "admin", ConfigUpdate{
		WinProbabilityBP: &newProb,
		MilestoneBets:    &milestone,
		APYBP:            &apy,
	}))

	err := f.store.ExecTx(context.Background(), func(tx repo.Tx) error {
		cfg, err := tx.GetConfig(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint16(500), cfg.WinProbabilityBP)

		pool, err := tx.GetPool(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint64(5), pool.MilestoneBets)

		reserve, err := tx.GetReserve(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint16(2000), reserve.APYBP)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, f.pub.configs, 1)
}

func TestUpdateConfig_RejectsInvalidMerge(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())

	bad := uint16(9000) // 9000+1500+500 > 10000 depois do merge
	err := f.svc.UpdateConfig(context.Background(), "admin", ConfigUpdate{JackpotBP: &bad})
	require.ErrorIs(t, err, engine.ErrInvalidConfig)

	err = f.store.ExecTx(context.Background(), func(tx repo.Tx) error {
		cfg, err := tx.GetConfig(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint16(8000), cfg.JackpotBP) // intacto
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateConfig_Unauthorized(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, defaultParams())

	min := uint64(1)
	err := f.svc.UpdateConfig(context.Background(), "mallory", ConfigUpdate{MinBet: &min})
	require.ErrorIs(t, err, engine.ErrUnauthorized)
}
