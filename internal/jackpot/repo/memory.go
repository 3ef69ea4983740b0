package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
)

// MemoryStore implementa Store em memória para testes. ExecTx tira um
// snapshot do estado antes de rodar fn e restaura em caso de erro,
// preservando a semântica tudo-ou-nada do Postgres.
type MemoryStore struct {
	mu sync.Mutex
	st memState
}

type memState struct {
	hasConfig  bool
	config     Config
	hasPool    bool
	pool       Pool
	hasReserve bool
	reserve    Reserve
	bets       map[string]Bet
	requests   map[string]RandomnessRequest
	claims     map[string]Claim
	vaults     map[string]uint64
	ledger     []LedgerEntry
}

// LedgerEntry espelha uma linha do vault_ledger para inspeção em testes.
type LedgerEntry struct {
	Vault     string
	Operation string // CREDIT | DEBIT
	Amount    uint64
	Reason    string
}

// NewMemoryStore cria um store em memória vazio.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: newMemState()}
}

func newMemState() memState {
	return memState{
		bets:     make(map[string]Bet),
		requests: make(map[string]RandomnessRequest),
		claims:   make(map[string]Claim),
		vaults:   make(map[string]uint64),
	}
}

func (s *MemoryStore) ExecTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&memTx{st: &s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Ledger devolve uma cópia do ledger acumulado (só para asserts).
func (s *MemoryStore) Ledger() []LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LedgerEntry, len(s.st.ledger))
	copy(out, s.st.ledger)
	return out
}

func (st memState) clone() memState {
	c := st
	c.bets = make(map[string]Bet, len(st.bets))
	for k, v := range st.bets {
		c.bets[k] = v
	}
	c.requests = make(map[string]RandomnessRequest, len(st.requests))
	for k, v := range st.requests {
		c.requests[k] = v
	}
	c.claims = make(map[string]Claim, len(st.claims))
	for k, v := range st.claims {
		c.claims[k] = v
	}
	c.vaults = make(map[string]uint64, len(st.vaults))
	for k, v := range st.vaults {
		c.vaults[k] = v
	}
	c.ledger = make([]LedgerEntry, len(st.ledger))
	copy(c.ledger, st.ledger)
	return c
}

type memTx struct{ st *memState }

func (t *memTx) GetConfig(ctx context.Context) (Config, error) {
	if !t.st.hasConfig {
		return Config{}, ErrNotFound
	}
	return t.st.config, nil
}

func (t *memTx) SaveConfig(ctx context.Context, c Config) error {
	t.st.config = c
	t.st.hasConfig = true
	return nil
}

func (t *memTx) GetPool(ctx context.Context) (Pool, error) {
	if !t.st.hasPool {
		return Pool{}, ErrNotFound
	}
	return t.st.pool, nil
}

func (t *memTx) SavePool(ctx context.Context, p Pool) error {
	t.st.pool = p
	t.st.hasPool = true
	return nil
}

func (t *memTx) GetReserve(ctx context.Context) (Reserve, error) {
	if !t.st.hasReserve {
		return Reserve{}, ErrNotFound
	}
	return t.st.reserve, nil
}

func (t *memTx) SaveReserve(ctx context.Context, r Reserve) error {
	t.st.reserve = r
	t.st.hasReserve = true
	return nil
}

func (t *memTx) CreateBet(ctx context.Context, b Bet) (Bet, error) {
	b.ID = uuid.NewString()
	t.st.bets[b.ID] = b
	return b, nil
}

func (t *memTx) GetBet(ctx context.Context, betID string) (Bet, error) {
	b, ok := t.st.bets[betID]
	if !ok {
		return Bet{}, ErrNotFound
	}
	return b, nil
}

func (t *memTx) UpdateBet(ctx context.Context, b Bet) error {
	if _, ok := t.st.bets[b.ID]; !ok {
		return ErrNotFound
	}
	t.st.bets[b.ID] = b
	return nil
}

func (t *memTx) CreateRequest(ctx context.Context, r RandomnessRequest) (RandomnessRequest, error) {
	r.ID = uuid.NewString()
	t.st.requests[r.ID] = r
	return r, nil
}

func (t *memTx) GetRequest(ctx context.Context, requestID string) (RandomnessRequest, error) {
	r, ok := t.st.requests[requestID]
	if !ok {
		return RandomnessRequest{}, ErrNotFound
	}
	return r, nil
}

func (t *memTx) UpdateRequest(ctx context.Context, r RandomnessRequest) error {
	if _, ok := t.st.requests[r.ID]; !ok {
		return ErrNotFound
	}
	t.st.requests[r.ID] = r
	return nil
}

func (t *memTx) GetClaim(ctx context.Context, claimant string) (Claim, error) {
	c, ok := t.st.claims[claimant]
	if !ok {
		return Claim{}, ErrNotFound
	}
	return c, nil
}

func (t *memTx) SaveClaim(ctx context.Context, c Claim) error {
	t.st.claims[c.Claimant] = c
	return nil
}

func (t *memTx) VaultBalance(ctx context.Context, vault string) (uint64, error) {
	return t.st.vaults[vault], nil
}

func (t *memTx) Credit(ctx context.Context, vault string, amount uint64, reason string) error {
	t.st.vaults[vault] += amount
	t.st.ledger = append(t.st.ledger, LedgerEntry{Vault: vault, Operation: "CREDIT", Amount: amount, Reason: reason})
	return nil
}

func (t *memTx) Debit(ctx context.Context, vault string, amount uint64, reason string) error {
	if t.st.vaults[vault] < amount {
		return engine.ErrInsufficientFunds
	}
	t.st.vaults[vault] -= amount
	t.st.ledger = append(t.st.ledger, LedgerEntry{Vault: vault, Operation: "DEBIT", Amount: amount, Reason: reason})
	return nil
}

func (t *memTx) Transfer(ctx context.Context, from, to string, amount uint64, reason string) error {
	if err := t.Debit(ctx, from, amount, reason); err != nil {
		return err
	}
	return t.Credit(ctx, to, amount, reason)
}
