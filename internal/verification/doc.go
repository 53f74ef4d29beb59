// Package verification owns the full lifecycle of registration verification
// codes: generation with cryptographically random tokens, validation against
// expiry and use count, atomic consumption, administrative revocation, and
// the periodic cleanup sweep. Every lifecycle transition appends exactly one
// entry to an append-only audit log.
//
// Business outcomes (not found, expired, exhausted) are ordinary values, not
// errors; only persistence failures are returned as errors. Each
// read-decide-write-log sequence runs inside a single database transaction so
// the code row and its log entry cannot diverge, and consumption uses a
// guarded increment so two concurrent redemptions cannot both pass the use
// limit check.
package verification
