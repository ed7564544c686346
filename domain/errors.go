package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	ErrUnsupportedSchema = errors.New("Unsupported schema")
	ErrInvalidJsonFormat = errors.New("invalid JSON format")

	// local validation, rejected before any ledger call
	ErrInvalidAmount    = errors.New("amount must be a positive value")
	ErrInvalidDuration  = errors.New("duration must be a positive number of seconds")
	ErrMissingSelection = errors.New("required selection is missing")
	ErrSameItemTrade    = errors.New("cannot trade an item against itself")
	ErrInvalidAddress   = errors.New("Invalid address")

	// ErrMetadataFetch marks a per-item metadata failure, isolated during synchronization
	ErrMetadataFetch = errors.New("failed to fetch item metadata")
	// ErrLedgerRequest marks a failed ledger read or write, never retried automatically
	ErrLedgerRequest = errors.New("ledger request failed")
)
