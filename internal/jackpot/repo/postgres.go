package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
)

// Postgres implementa Store sobre um banco Postgres.
// Os singletons (config/pool/reserve) são linhas únicas com id=1,
// travadas com FOR UPDATE durante a transação.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório do jackpot.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// ExecTx roda fn dentro de uma transação; rollback em qualquer erro.
func (p *Postgres) ExecTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type pgTx struct{ tx *sql.Tx }

// ---- Config (singleton) ----

func (t *pgTx) GetConfig(ctx context.Context) (Config, error) {
	var c Config
	var jackpotBP, houseBP, reserveBP, winProbBP, provider int
	var minBet, maxBet, totalBets, totalWins int64
	err := t.tx.QueryRowContext(ctx, `
		SELECT authority, jackpot_bp, house_bp, reserve_bp, min_bet, max_bet,
		       win_probability_bp, oracle_provider, oracle_network_id, oracle_queue_id,
		       total_bets, total_wins, updated_at
		FROM jackpot_config WHERE id=1 FOR UPDATE`).
		Scan(&c.Authority, &jackpotBP, &houseBP, &reserveBP, &minBet, &maxBet,
			&winProbBP, &provider, &c.OracleNetworkID, &c.OracleQueueID,
			&totalBets, &totalWins, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return Config{}, ErrNotFound
	}
	if err != nil {
		return Config{}, err
	}
	c.JackpotBP = uint16(jackpotBP)
	c.HouseBP = uint16(houseBP)
	c.ReserveBP = uint16(reserveBP)
	c.MinBet = uint64(minBet)
	c.MaxBet = uint64(maxBet)
	c.WinProbabilityBP = uint16(winProbBP)
	c.OracleProvider = uint8(provider)
	c.TotalBets = uint64(totalBets)
	c.TotalWins = uint64(totalWins)
	return c, nil
}

func (t *pgTx) SaveConfig(ctx context.Context, c Config) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO jackpot_config
		  (id, authority, jackpot_bp, house_bp, reserve_bp, min_bet, max_bet,
		   win_probability_bp, oracle_provider, oracle_network_id, oracle_queue_id,
		   total_bets, total_wins, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW())
		ON CONFLICT (id) DO UPDATE SET
		  authority          = EXCLUDED.authority,
		  jackpot_bp         = EXCLUDED.jackpot_bp,
		  house_bp           = EXCLUDED.house_bp,
		  reserve_bp         = EXCLUDED.reserve_bp,
		  min_bet            = EXCLUDED.min_bet,
		  max_bet            = EXCLUDED.max_bet,
		  win_probability_bp = EXCLUDED.win_probability_bp,
		  oracle_provider    = EXCLUDED.oracle_provider,
		  oracle_network_id  = EXCLUDED.oracle_network_id,
		  oracle_queue_id    = EXCLUDED.oracle_queue_id,
		  total_bets         = EXCLUDED.total_bets,
		  total_wins         = EXCLUDED.total_wins,
		  updated_at         = NOW()`,
		c.Authority, int(c.JackpotBP), int(c.HouseBP), int(c.ReserveBP),
		int64(c.MinBet), int64(c.MaxBet), int(c.WinProbabilityBP), int(c.OracleProvider),
		c.OracleNetworkID, c.OracleQueueID, int64(c.TotalBets), int64(c.TotalWins),
	)
	return err
}

// ---- Pool (singleton) ----

func (t *pgTx) GetPool(ctx context.Context) (Pool, error) {
	var p Pool
	var balance, resetThreshold, betsSinceWin, milestoneBets int64
	err := t.tx.QueryRowContext(ctx, `
		SELECT balance, last_winner, last_win_time, reset_threshold, bets_since_win, milestone_bets
		FROM jackpot_pool WHERE id=1 FOR UPDATE`).
		Scan(&balance, &p.LastWinner, &p.LastWinTime, &resetThreshold, &betsSinceWin, &milestoneBets)
	if err == sql.ErrNoRows {
		return Pool{}, ErrNotFound
	}
	if err != nil {
		return Pool{}, err
	}
	p.Balance = uint64(balance)
	p.ResetThreshold = uint64(resetThreshold)
	p.BetsSinceWin = uint64(betsSinceWin)
	p.MilestoneBets = uint64(milestoneBets)
	return p, nil
}

func (t *pgTx) SavePool(ctx context.Context, p Pool) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO jackpot_pool
		  (id, balance, last_winner, last_win_time, reset_threshold, bets_since_win, milestone_bets, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,NOW())
		ON CONFLICT (id) DO UPDATE SET
		  balance         = EXCLUDED.balance,
		  last_winner     = EXCLUDED.last_winner,
		  last_win_time   = EXCLUDED.last_win_time,
		  reset_threshold = EXCLUDED.reset_threshold,
		  bets_since_win  = EXCLUDED.bets_since_win,
		  milestone_bets  = EXCLUDED.milestone_bets,
		  updated_at      = NOW()`,
		int64(p.Balance), p.LastWinner, p.LastWinTime,
		int64(p.ResetThreshold), int64(p.BetsSinceWin), int64(p.MilestoneBets),
	)
	return err
}

// ---- Reserve (singleton) ----

func (t *pgTx) GetReserve(ctx context.Context) (Reserve, error) {
	var r Reserve
	var staked, distributed, period int64
	var apyBP int
	err := t.tx.QueryRowContext(ctx, `
		SELECT staked_amount, total_distributed, last_distribution, distribution_period, apy_bp
		FROM jackpot_reserve WHERE id=1 FOR UPDATE`).
		Scan(&staked, &distributed, &r.LastDistribution, &period, &apyBP)
	if err == sql.ErrNoRows {
		return Reserve{}, ErrNotFound
	}
	if err != nil {
		return Reserve{}, err
	}
	r.StakedAmount = uint64(staked)
	r.TotalDistributed = uint64(distributed)
	r.DistributionPeriod = period
	r.APYBP = uint16(apyBP)
	return r, nil
}

func (t *pgTx) SaveReserve(ctx context.Context, r Reserve) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO jackpot_reserve
		  (id, staked_amount, total_distributed, last_distribution, distribution_period, apy_bp, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,NOW())
		ON CONFLICT (id) DO UPDATE SET
		  staked_amount       = EXCLUDED.staked_amount,
		  total_distributed   = EXCLUDED.total_distributed,
		  last_distribution   = EXCLUDED.last_distribution,
		  distribution_period = EXCLUDED.distribution_period,
		  apy_bp              = EXCLUDED.apy_bp,
		  updated_at          = NOW()`,
		int64(r.StakedAmount), int64(r.TotalDistributed), r.LastDistribution,
		r.DistributionPeriod, int(r.APYBP),
	)
	return err
}

// ---- Bets ----

func (t *pgTx) CreateBet(ctx context.Context, b Bet) (Bet, error) {
	b.ID = uuid.NewString()
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO bets (id, player, amount, placed_at, request_id, status, win_amount)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		b.ID, b.Player, int64(b.Amount), b.PlacedAt, b.RequestID, string(b.Status), int64(b.WinAmount),
	)
	if err != nil {
		return Bet{}, err
	}
	return b, nil
}

func (t *pgTx) GetBet(ctx context.Context, betID string) (Bet, error) {
	var b Bet
	var amount, winAmount int64
	var status string
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, player, amount, placed_at, request_id, status, win_amount
		FROM bets WHERE id=$1 FOR UPDATE`, betID).
		Scan(&b.ID, &b.Player, &amount, &b.PlacedAt, &b.RequestID, &status, &winAmount)
	if err == sql.ErrNoRows {
		return Bet{}, ErrNotFound
	}
	if err != nil {
		return Bet{}, err
	}
	b.Amount = uint64(amount)
	b.Status = BetStatus(status)
	b.WinAmount = uint64(winAmount)
	return b, nil
}

func (t *pgTx) UpdateBet(ctx context.Context, b Bet) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE bets SET status=$1, win_amount=$2, request_id=$3 WHERE id=$4`,
		string(b.Status), int64(b.WinAmount), b.RequestID, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Randomness requests ----

func (t *pgTx) CreateRequest(ctx context.Context, r RandomnessRequest) (RandomnessRequest, error) {
	r.ID = uuid.NewString()
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO randomness_requests (id, bet_id, player, requested_at, seed, status, result)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.BetID, r.Player, r.RequestedAt, r.Seed, string(r.Status), r.Result,
	)
	if err != nil {
		return RandomnessRequest{}, err
	}
	return r, nil
}

func (t *pgTx) GetRequest(ctx context.Context, requestID string) (RandomnessRequest, error) {
	var r RandomnessRequest
	var status string
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, bet_id, player, requested_at, seed, status, result
		FROM randomness_requests WHERE id=$1 FOR UPDATE`, requestID).
		Scan(&r.ID, &r.BetID, &r.Player, &r.RequestedAt, &r.Seed, &status, &r.Result)
	if err == sql.ErrNoRows {
		return RandomnessRequest{}, ErrNotFound
	}
	if err != nil {
		return RandomnessRequest{}, err
	}
	r.Status = RequestStatus(status)
	return r, nil
}

func (t *pgTx) UpdateRequest(ctx context.Context, r RandomnessRequest) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE randomness_requests SET status=$1, result=$2 WHERE id=$3`,
		string(r.Status), r.Result, r.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Claims ----

func (t *pgTx) GetClaim(ctx context.Context, claimant string) (Claim, error) {
	var c Claim
	var earned, claimed int64
	err := t.tx.QueryRowContext(ctx, `
		SELECT claimant, total_earned, total_claimed, last_claim
		FROM reward_claims WHERE claimant=$1 FOR UPDATE`, claimant).
		Scan(&c.Claimant, &earned, &claimed, &c.LastClaim)
	if err == sql.ErrNoRows {
		return Claim{}, ErrNotFound
	}
	if err != nil {
		return Claim{}, err
	}
	c.TotalEarned = uint64(earned)
	c.TotalClaimed = uint64(claimed)
	return c, nil
}

func (t *pgTx) SaveClaim(ctx context.Context, c Claim) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO reward_claims (claimant, total_earned, total_claimed, last_claim)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (claimant) DO UPDATE SET
		  total_earned  = EXCLUDED.total_earned,
		  total_claimed = EXCLUDED.total_claimed,
		  last_claim    = EXCLUDED.last_claim`,
		c.Claimant, int64(c.TotalEarned), int64(c.TotalClaimed), c.LastClaim,
	)
	return err
}

// ---- Cofres (primitivo de transferência) ----

func (t *pgTx) VaultBalance(ctx context.Context, vault string) (uint64, error) {
	var balance int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT balance FROM vaults WHERE name=$1 FOR UPDATE`, vault).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(balance), nil
}

func (t *pgTx) Credit(ctx context.Context, vault string, amount uint64, reason string) error {
	if _, err := t.tx.ExecContext(ctx, `
		INSERT INTO vaults (name, balance) VALUES ($1,$2)
		ON CONFLICT (name) DO UPDATE SET balance = vaults.balance + EXCLUDED.balance`,
		vault, int64(amount)); err != nil {
		return err
	}
	return t.ledger(ctx, vault, "CREDIT", amount, reason)
}

func (t *pgTx) Debit(ctx context.Context, vault string, amount uint64, reason string) error {
	balance, err := t.VaultBalance(ctx, vault)
	if err != nil {
		return err
	}
	if balance < amount {
		return engine.ErrInsufficientFunds
	}
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE vaults SET balance = balance - $1 WHERE name=$2`,
		int64(amount), vault); err != nil {
		return err
	}
	return t.ledger(ctx, vault, "DEBIT", amount, reason)
}

// Transfer move amount entre dois cofres, atômico com o resto da
// transação. Cada perna registra uma linha no ledger.
func (t *pgTx) Transfer(ctx context.Context, from, to string, amount uint64, reason string) error {
	if err := t.Debit(ctx, from, amount, reason); err != nil {
		return err
	}
	return t.Credit(ctx, to, amount, reason)
}

func (t *pgTx) ledger(ctx context.Context, vault, op string, amount uint64, reason string) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO vault_ledger (vault, operation_type, amount, description, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		vault, op, int64(amount), reason, time.Now().UTC())
	return err
}
