package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/pkg/contracts/events"
)

// Publisher publica os eventos do engine no bus. Os publishes são
// best-effort, disparados depois do commit da transação.
type Publisher interface {
	PublishRandomnessRequested(ctx context.Context, e events.RandomnessRequested) error
	PublishBetContributed(ctx context.Context, e events.BetContributed) error
	PublishJackpotWon(ctx context.Context, e events.JackpotWon) error
	PublishJackpotLoss(ctx context.Context, e events.JackpotLoss) error
	PublishBetRefunded(ctx context.Context, e events.BetRefunded) error
	PublishRewardsClaimed(ctx context.Context, e events.RewardsClaimed) error
	PublishHouseWithdrawal(ctx context.Context, e events.HouseWithdrawal) error
	PublishConfigUpdated(ctx context.Context, e events.ConfigUpdated) error
}

// PoolSnapshot é a visão read-side do pool mantida no cache.
type PoolSnapshot struct {
	Balance      uint64     `json:"balance"`
	BetsSinceWin uint64     `json:"bets_since_win"`
	LastWinner   *string    `json:"last_winner,omitempty"`
	LastWinTime  *time.Time `json:"last_win_time,omitempty"`
	TotalBets    uint64     `json:"total_bets"`
	TotalWins    uint64     `json:"total_wins"`
}

// PoolCache atualiza o snapshot do pool depois de cada operação commitada.
type PoolCache interface {
	SetSnapshot(ctx context.Context, snap PoolSnapshot) error
}

// Service implementa as operações públicas do engine de jackpot.
// Cada operação roda como unidade atômica sobre o Store: qualquer
// violação de precondição ou overflow aborta sem efeito parcial.
type Service struct {
	log   *zap.Logger
	store repo.Store
	pub   Publisher
	cache PoolCache
	now   func() time.Time
}

// New instancia o serviço do jackpot.
func New(log *zap.Logger, store repo.Store, pub Publisher) *Service {
	return &Service{
		log:   log,
		store: store,
		pub:   pub,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithPoolCache liga o cache read-side do pool.
func (s *Service) WithPoolCache(c PoolCache) { s.cache = c }

// WithClock troca a fonte de relógio (testes de timeout e accrual).
func (s *Service) WithClock(now func() time.Time) { s.now = now }

// refreshPoolCache atualiza o snapshot depois de um commit; falha de
// cache não derruba a operação.
func (s *Service) refreshPoolCache(ctx context.Context, pool repo.Pool, cfg repo.Config) {
	if s.cache == nil {
		return
	}
	snap := PoolSnapshot{
		Balance:      pool.Balance,
		BetsSinceWin: pool.BetsSinceWin,
		LastWinner:   pool.LastWinner,
		LastWinTime:  pool.LastWinTime,
		TotalBets:    cfg.TotalBets,
		TotalWins:    cfg.TotalWins,
	}
	if err := s.cache.SetSnapshot(ctx, snap); err != nil {
		s.log.Warn("pool cache set failed", zap.Error(err))
	}
	poolBalanceGauge.Set(float64(pool.Balance))
}

// GetBet retorna uma aposta pelo id.
func (s *Service) GetBet(ctx context.Context, betID string) (repo.Bet, error) {
	var bet repo.Bet
	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		var err error
		bet, err = tx.GetBet(ctx, betID)
		return err
	})
	return bet, err
}

// PoolStats retorna o estado corrente do pool mais os contadores globais.
func (s *Service) PoolStats(ctx context.Context) (PoolSnapshot, error) {
	var snap PoolSnapshot
	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		pool, err := tx.GetPool(ctx)
		if err != nil {
			return err
		}
		cfg, err := tx.GetConfig(ctx)
		if err != nil {
			return err
		}
		snap = PoolSnapshot{
			Balance:      pool.Balance,
			BetsSinceWin: pool.BetsSinceWin,
			LastWinner:   pool.LastWinner,
			LastWinTime:  pool.LastWinTime,
			TotalBets:    cfg.TotalBets,
			TotalWins:    cfg.TotalWins,
		}
		return nil
	})
	return snap, err
}

// Deposit credita o cofre de um jogador (funding fora do engine).
func (s *Service) Deposit(ctx context.Context, player string, amount uint64) (uint64, error) {
	var balance uint64
	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		if err := tx.Credit(ctx, repo.PlayerVault(player), amount, "deposit"); err != nil {
			return err
		}
		var err error
		balance, err = tx.VaultBalance(ctx, repo.PlayerVault(player))
		return err
	})
	return balance, err
}

// VaultBalance retorna o saldo de um cofre nomeado.
func (s *Service) VaultBalance(ctx context.Context, vault string) (uint64, error) {
	var balance uint64
	err := s.store.ExecTx(ctx, func(tx repo.Tx) error {
		var err error
		balance, err = tx.VaultBalance(ctx, vault)
		return err
	})
	return balance, err
}
