package rehearse

import "errors"

// Sentinel kinds for rehearsal failures.
var (
	// ErrHealthCheck means the service did not answer /healthz.
	ErrHealthCheck = errors.New("service health check failed")

	// ErrSeed means roster seeding was rejected.
	ErrSeed = errors.New("roster seeding failed")

	// ErrScript means a scripted command failed mid-run.
	ErrScript = errors.New("command script failed")

	// ErrVerification means displays or standings diverged from the
	// locally computed expectation.
	ErrVerification = errors.New("verification failed")
)
