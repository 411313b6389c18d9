package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SignInAttempts counts sign-in requests by outcome: "success",
// "invalid_signature", "challenge_expired", "challenge_used",
// "bad_request", or "error".
var SignInAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "walletgate_signin_attempts_total",
		Help: "Sign-in attempts by outcome.",
	},
	[]string{"outcome"},
)

// ChallengesIssued counts minted sign-in challenges.
var ChallengesIssued = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "walletgate_challenges_issued_total",
		Help: "Sign-in challenges minted.",
	},
)
