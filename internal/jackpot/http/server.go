package http

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/jackpot-platform-poc/internal/jackpot/dto"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/engine"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/repo"
	"github.com/radieske/jackpot-platform-poc/internal/jackpot/service"
)

// accountHeader identifica o chamador. Identidade confiada, sem
// assinatura: o gateway na frente é quem autentica.
const accountHeader = "X-Account-Id"

// SnapshotReader lê o snapshot do pool do cache read-side.
type SnapshotReader interface {
	GetSnapshot(ctx context.Context) (service.PoolSnapshot, error)
}

// Server expõe a API REST do engine de jackpot.
type Server struct {
	log  *zap.Logger
	svc  *service.Service
	snap SnapshotReader // opcional; fallback no Postgres
}

// NewServer instancia o servidor HTTP do jackpot.
func NewServer(log *zap.Logger, svc *service.Service, snap SnapshotReader) *Server {
	return &Server{log: log, svc: svc, snap: snap}
}

// Router retorna o mux HTTP com as rotas da API.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/initialize", s.initialize) // POST
	mux.HandleFunc("/admin/config", s.updateConfig)   // PATCH
	mux.HandleFunc("/admin/withdraw", s.withdraw)     // POST
	mux.HandleFunc("/bets", s.placeBet)               // POST
	mux.HandleFunc("/bets/", s.betSubtree)            // GET /bets/{id} | POST /bets/{id}/expire
	mux.HandleFunc("/fulfill", s.fulfill)             // POST
	mux.HandleFunc("/rewards/claim", s.claim)         // POST
	mux.HandleFunc("/pool", s.pool)                   // GET
	mux.HandleFunc("/wallet/deposit", s.deposit)      // POST
	return mux
}

func (s *Server) initialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	caller := r.Header.Get(accountHeader)
	if caller == "" {
		http.Error(w, accountHeader+" required", http.StatusBadRequest)
		return
	}
	var req dto.InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	err := s.svc.Initialize(r.Context(), caller, service.InitializeParams{
		JackpotBP:        req.JackpotShareBp,
		HouseBP:          req.HouseFeeBp,
		ReserveBP:        req.ReserveShareBp,
		MinBet:           req.MinBet,
		MaxBet:           req.MaxBet,
		WinProbabilityBP: req.WinProbabilityBp,
		OracleProvider:   req.OracleProvider,
		OracleNetworkID:  req.OracleNetworkID,
		OracleQueueID:    req.OracleQueueID,
		ResetThreshold:   req.ResetThreshold,
		MilestoneBets:    req.MilestoneBets,
		APYBP:            req.ApyBp,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.StatusResponse{Status: "INITIALIZED"})
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	player := r.Header.Get(accountHeader)
	if player == "" {
		http.Error(w, accountHeader+" required", http.StatusBadRequest)
		return
	}
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Amount == 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	res, err := s.svc.ContributeBet(r.Context(), player, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.PlaceBetResponse{
		BetID:               res.Bet.ID,
		Status:              string(res.Bet.Status),
		JackpotContribution: res.Shares.Jackpot,
		HouseFee:            res.Shares.House,
		ReserveContribution: res.Shares.Reserve,
		RequestID:           res.Bet.RequestID,
	})
}

// betSubtree despacha GET /bets/{id} e POST /bets/{id}/expire
func (s *Server) betSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/bets/")
	if rest == "" {
		http.Error(w, "betId required", http.StatusBadRequest)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/expire"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		bet, err := s.svc.ExpireBet(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, betResponse(bet))
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bet, err := s.svc.GetBet(r.Context(), rest)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, betResponse(bet))
}

func (s *Server) fulfill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.FulfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.RequestID == "" || req.BetID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	raw, err := hex.DecodeString(req.Result)
	if err != nil || len(raw) != 32 {
		http.Error(w, "result must be 32 bytes hex", http.StatusBadRequest)
		return
	}
	var result [32]byte
	copy(result[:], raw)

	res, err := s.svc.FulfillJackpot(r.Context(), req.RequestID, req.BetID, result)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.FulfillResponse{
		BetID:       res.Bet.ID,
		Status:      string(res.Bet.Status),
		VrfValue:    res.Outcome.Value,
		TierBp:      res.Outcome.TierBP,
		Payout:      res.Outcome.Payout,
		ResetPayout: res.ResetPaid,
		PoolBalance: res.PoolBalance,
	})
}

func (s *Server) claim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claimant := r.Header.Get(accountHeader)
	if claimant == "" {
		http.Error(w, accountHeader+" required", http.StatusBadRequest)
		return
	}
	res, err := s.svc.ClaimRewards(r.Context(), claimant)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.ClaimResponse{
		User:         claimant,
		Amount:       res.Reward,
		TotalClaimed: res.Claim.TotalClaimed,
	})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	caller := r.Header.Get(accountHeader)
	if caller == "" {
		http.Error(w, accountHeader+" required", http.StatusBadRequest)
		return
	}
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Amount == 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := s.svc.WithdrawHouse(r.Context(), caller, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.StatusResponse{Status: "WITHDRAWN"})
}

func (s *Server) updateConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	caller := r.Header.Get(accountHeader)
	if caller == "" {
		http.Error(w, accountHeader+" required", http.StatusBadRequest)
		return
	}
	var req dto.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	err := s.svc.UpdateConfig(r.Context(), caller, service.ConfigUpdate{
		JackpotBP:        req.JackpotShareBp,
		HouseBP:          req.HouseFeeBp,
		ReserveBP:        req.ReserveShareBp,
		MinBet:           req.MinBet,
		MaxBet:           req.MaxBet,
		WinProbabilityBP: req.WinProbabilityBp,
		ResetThreshold:   req.ResetThreshold,
		MilestoneBets:    req.MilestoneBets,
		APYBP:            req.ApyBp,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.StatusResponse{Status: "UPDATED"})
}

// pool serve o snapshot do cache; cache frio ou indisponível cai para
// o Postgres
func (s *Server) pool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.snap != nil {
		if snap, err := s.snap.GetSnapshot(r.Context()); err == nil {
			writeJSON(w, poolResponse(snap))
			return
		}
	}
	snap, err := s.svc.PoolStats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, poolResponse(snap))
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	account := r.Header.Get(accountHeader)
	if account == "" {
		http.Error(w, accountHeader+" required", http.StatusBadRequest)
		return
	}
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Amount == 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	balance, err := s.svc.Deposit(r.Context(), account, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.DepositResponse{Account: account, Balance: balance})
}

func betResponse(b repo.Bet) dto.BetResponse {
	return dto.BetResponse{
		BetID:     b.ID,
		Player:    b.Player,
		Amount:    b.Amount,
		Status:    string(b.Status),
		WinAmount: b.WinAmount,
		RequestID: b.RequestID,
	}
}

func poolResponse(snap service.PoolSnapshot) dto.PoolResponse {
	return dto.PoolResponse{
		Balance:      snap.Balance,
		BetsSinceWin: snap.BetsSinceWin,
		LastWinner:   snap.LastWinner,
		LastWinTime:  snap.LastWinTime,
		TotalBets:    snap.TotalBets,
		TotalWins:    snap.TotalWins,
	}
}

// writeError traduz os erros nomeados do engine em status HTTP
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound), errors.Is(err, engine.ErrRequestNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrBetTooSmall),
		errors.Is(err, engine.ErrBetTooLarge),
		errors.Is(err, engine.ErrInvalidConfig),
		errors.Is(err, engine.ErrInvalidWinThreshold):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, engine.ErrUnauthorized), errors.Is(err, engine.ErrInvalidOracleAuthority):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrEmptyPool),
		errors.Is(err, engine.ErrRequestAlreadyFulfilled),
		errors.Is(err, engine.ErrRequestTimeout),
		errors.Is(err, engine.ErrRequestNotExpired),
		errors.Is(err, engine.ErrRequestNotFulfilled),
		errors.Is(err, engine.ErrReserveNotInitialized),
		errors.Is(err, engine.ErrClaimPeriodNotStarted),
		errors.Is(err, engine.ErrNoRewardsAvailable),
		errors.Is(err, engine.ErrResetThresholdNotMet):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("internal error", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
