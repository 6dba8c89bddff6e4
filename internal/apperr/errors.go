// Package apperr defines the sentinel error values shared across the SDK's
// internal packages so they can be wrapped consistently and recognised with
// errors.Is/errors.As from the public façade.
package apperr

import "errors"

var (
	// ErrTransport covers network, TLS or HTTP status failures talking to
	// the configuration service.
	ErrTransport = errors.New("appconfiguration: transport error")

	// ErrProtocol covers a catalog document that failed to decode, or that
	// named an unrecognised ValueKind.
	ErrProtocol = errors.New("appconfiguration: protocol error")

	// ErrMissingEnvironment means the configured environment_id is not
	// present in the catalog document.
	ErrMissingEnvironment = errors.New("appconfiguration: environment not found in catalog")

	// ErrIntegrity means a feature or property references a segment_id
	// that does not resolve in the catalog's segment map.
	ErrIntegrity = errors.New("appconfiguration: catalog references an unknown segment")

	// ErrUnknownResource means a lookup by id found no matching feature or
	// property in the catalog.
	ErrUnknownResource = errors.New("appconfiguration: unknown feature or property id")

	// ErrMismatchType means a Value could not be converted to the
	// requested primitive, or a catalog value did not match its declared
	// ValueKind.
	ErrMismatchType = errors.New("appconfiguration: value type mismatch")

	// ErrEvaluation means a segment operator was unrecognised, or an
	// operand had the wrong type for its operator.
	ErrEvaluation = errors.New("appconfiguration: evaluation error")

	// ErrSnapshotUnavailable means the snapshot store holds no catalog
	// yet (nothing has been installed).
	ErrSnapshotUnavailable = errors.New("appconfiguration: snapshot unavailable")

	// ErrInvalidRollout means a rollout_percentage fell outside [0, 100].
	ErrInvalidRollout = errors.New("appconfiguration: rollout percentage out of range")
)
