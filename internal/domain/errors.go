package domain

import "errors"

var (
	// ErrContractViolation marks payloads or arguments that break the RPC
	// protocol contract. These abort loudly instead of becoming a failed
	// Response; a caller seeing one has found a bug, not bad user input.
	ErrContractViolation = errors.New("contract violation")

	// ErrFieldUnknown means the field name has no registered type.
	ErrFieldUnknown = errors.New("unknown field")

	// ErrFieldAbsent means the field was never fetched for this torrent.
	ErrFieldAbsent = errors.New("field not fetched")
)
