package topics

const (
	// Randomness (oracle round-trip)
	RandomnessRequested = "jackpot_randomness_requested"
	RandomnessFulfilled = "jackpot_randomness_fulfilled"

	// Engine events (contribuições, vitórias, claims, admin)
	JackpotEvents = "jackpot_events"

	// DLQs
	RandomnessFulfilledDLQ = "jackpot_randomness_fulfilled_dlq"
)
