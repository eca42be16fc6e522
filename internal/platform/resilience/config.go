package resilience

import "time"

// CircuitBreakerConfig guards the database. Zero or negative limits fall
// back to the DB_CIRCUIT_* defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	def := DefaultCircuitBreakerConfig()
	cfg.FailureThreshold = atLeastOne(cfg.FailureThreshold, def.FailureThreshold)
	cfg.HalfOpenMaxReq = atLeastOne(cfg.HalfOpenMaxReq, def.HalfOpenMaxReq)
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return cfg
}

func atLeastOne(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}
