package service

import "github.com/prometheus/client_golang/prometheus"

// Métricas Prometheus do engine, expostas pelo servidor de /metrics
var (
	betsContributed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jackpot_bets_contributed_total",
		Help: "Total de apostas contribuídas",
	})
	jackpotWins = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jackpot_wins_total",
		Help: "Total de vitórias pagas",
	})
	jackpotPayoutUnits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jackpot_payout_units_total",
		Help: "Unidades pagas em vitórias e resets",
	})
	rewardsClaimedUnits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jackpot_rewards_claimed_units_total",
		Help: "Unidades de rendimento resgatadas da reserva",
	})
	poolBalanceGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jackpot_pool_balance",
		Help: "Saldo corrente do pool de jackpot",
	})
)

func init() {
	prometheus.MustRegister(
		betsContributed,
		jackpotWins,
		jackpotPayoutUnits,
		rewardsClaimedUnits,
		poolBalanceGauge,
	)
}
