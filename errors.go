package appconfiguration

import "github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"

// Sentinel errors a caller can match with errors.Is.
var (
	// ErrTransport reports a network, TLS, or HTTP status failure talking
	// to the configuration service.
	ErrTransport = apperr.ErrTransport
	// ErrProtocol reports a catalog document that failed to decode, or
	// that referenced an unrecognised ValueKind.
	ErrProtocol = apperr.ErrProtocol
	// ErrMissingEnvironment reports that the configured environment id is
	// not present in the pulled document (or more than one block matches).
	ErrMissingEnvironment = apperr.ErrMissingEnvironment
	// ErrIntegrity reports that a feature or property references a
	// segment id absent from the catalog's segment map.
	ErrIntegrity = apperr.ErrIntegrity
	// ErrUnknownResource reports a lookup by id for a feature or property
	// not present in the current catalog.
	ErrUnknownResource = apperr.ErrUnknownResource
	// ErrMismatchType reports that a Value could not be coerced to the
	// requested primitive type.
	ErrMismatchType = apperr.ErrMismatchType
	// ErrEvaluation reports an unknown segment operator, or an operand
	// that could not be typed for the operator it was used with.
	ErrEvaluation = apperr.ErrEvaluation
	// ErrSnapshotUnavailable reports that no catalog has been installed
	// yet (the client has not completed its initial fetch).
	ErrSnapshotUnavailable = apperr.ErrSnapshotUnavailable
	// ErrInvalidRollout reports a rollout_percentage outside [0, 100] in
	// the pulled catalog document.
	ErrInvalidRollout = apperr.ErrInvalidRollout
)
