package repo

import "time"

// Status de uma aposta. Imutável depois de criada, exceto status e
// win_amount, mutados exatamente uma vez pela fulfillment (ou pelo
// estorno explícito).
type BetStatus string

const (
	BetStatusPending  BetStatus = "PENDING"
	BetStatusWon      BetStatus = "WON"
	BetStatusLost     BetStatus = "LOST"
	BetStatusRefunded BetStatus = "REFUNDED"
)

// Status de um pedido de aleatoriedade. pending → fulfilled exatamente
// uma vez; timed_out só via estorno explícito (não há sweep ativo).
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusFulfilled RequestStatus = "FULFILLED"
	RequestStatusTimedOut  RequestStatus = "TIMED_OUT"
)

// Config é o registro global de configuração (singleton, linha única).
type Config struct {
	Authority        string
	JackpotBP        uint16
	HouseBP          uint16
	ReserveBP        uint16
	MinBet           uint64
	MaxBet           uint64
	WinProbabilityBP uint16
	OracleProvider   uint8   // 0 ou 1, seletor opaco do provedor
	OracleNetworkID  *string // identificador de rede do provedor 0, se houver
	OracleQueueID    *string // identificador de fila do provedor 1, se houver
	TotalBets        uint64
	TotalWins        uint64
	UpdatedAt        time.Time
}

// Pool é o registro do jackpot progressivo (singleton).
type Pool struct {
	Balance        uint64
	LastWinner     *string
	LastWinTime    *time.Time
	ResetThreshold uint64 // 0 desabilita o auto-reset
	BetsSinceWin   uint64
	MilestoneBets  uint64 // 0 desabilita o gatilho por milestone
}

// Reserve é o registro da reserva de rendimento (singleton).
type Reserve struct {
	StakedAmount       uint64
	TotalDistributed   uint64
	LastDistribution   time.Time
	DistributionPeriod int64 // segundos
	APYBP              uint16
}

// Claim é o ledger de resgates de um claimant, criado no primeiro claim.
type Claim struct {
	Claimant     string
	TotalEarned  uint64
	TotalClaimed uint64
	LastClaim    time.Time
}

// Bet é o registro de uma aposta individual.
type Bet struct {
	ID        string
	Player    string
	Amount    uint64
	PlacedAt  time.Time
	RequestID *string // link opcional para o pedido de aleatoriedade
	Status    BetStatus
	WinAmount uint64
}

// RandomnessRequest rastreia um pedido pendente/cumprido do oráculo.
// Guarda back-reference para a aposta; não é dono do ciclo de vida dela.
type RandomnessRequest struct {
	ID          string
	BetID       string
	Player      string
	RequestedAt time.Time
	Seed        []byte // 32 bytes derivados do timestamp do pedido
	Status      RequestStatus
	Result      []byte // nil até fulfilled; 32 bytes depois
}

// Nomes dos cofres internos movimentados pelo primitivo de transferência.
const (
	VaultPool    = "pool"
	VaultHouse   = "house"
	VaultReserve = "reserve"
)

// PlayerVault retorna o nome do cofre de um jogador.
func PlayerVault(player string) string { return "player:" + player }
