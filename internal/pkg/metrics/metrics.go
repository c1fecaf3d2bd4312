// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Outcome label values shared by the auth counters.
const (
	OutcomeAuthenticated = "authenticated"
	OutcomeRejected      = "rejected"
	OutcomeMissing       = "missing_credentials"
	OutcomeError         = "error"
)

// ── Authentication ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login verdicts.
// Labels:
//   - role: "admin", "user", or "" when no principal matched
//   - outcome: authenticated, rejected, missing_credentials, error
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by resolved role and outcome.",
	},
	[]string{"role", "outcome"},
)

// AuthLegacyMatchesTotal counts logins accepted through the plaintext branch.
// It tracks how many legacy records are still in use.
var AuthLegacyMatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_legacy_matches_total",
		Help:      "Total number of logins accepted by literal comparison against a plaintext credential.",
	},
	[]string{"role"},
)

// AuthOutdatedHashesTotal counts logins accepted against a hash that the
// configured algorithm did not produce, such as bcrypt after a switch to
// argon2id or an imported crypt(3) hash.
var AuthOutdatedHashesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_outdated_hashes_total",
		Help:      "Total number of logins verified against a hash from a non-current algorithm.",
	},
	[]string{"role"},
)

// ── Registration ─────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration results.
// Label:
//   - result: "created" or the rejection reason (e.g. "invalid_email_format")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of customer registrations, by result.",
	},
	[]string{"result"},
)
