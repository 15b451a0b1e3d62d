package classifier

import "errors"

// Artifact errors. Every failure returned by Load wraps ErrArtifactUnavailable.
var (
	ErrArtifactUnavailable = errors.New("classifier artifact unavailable")
	ErrMalformedArtifact   = errors.New("malformed artifact")
	ErrUnsupportedArtifact = errors.New("unsupported artifact type")
	ErrFeatureOrder        = errors.New("artifact feature order does not match the form")
	ErrClassMismatch       = errors.New("artifact classes do not match the label table")
)
