package verification

import "errors"

var (
	// ErrInvalidRevokeReason is returned when Revoke is asked to force a
	// non-terminal status. Only used, expired, and revoked are valid reasons.
	ErrInvalidRevokeReason = errors.New("revoke reason must be a terminal status")
)
