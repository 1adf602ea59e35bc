// Package errors provides coded engine errors.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Effect errors
	CodeUnknownEffect     Code = "UNKNOWN_EFFECT"
	CodeInteractiveEffect Code = "INTERACTIVE_EFFECT"

	// Run errors
	CodeNoActiveRun      Code = "NO_ACTIVE_RUN"
	CodeNoRulesCard      Code = "NO_RULES_CARD"
	CodeRunOver          Code = "RUN_OVER"
	CodeCardNotFound     Code = "CARD_NOT_FOUND"
	CodePlayLimitReached Code = "PLAY_LIMIT_REACHED"
	CodeCannotActivate   Code = "CANNOT_ACTIVATE"

	// Choice errors
	CodeAwaitingChoice  Code = "AWAITING_CHOICE"
	CodeNoPendingChoice Code = "NO_PENDING_CHOICE"
	CodeInvalidChoice   Code = "INVALID_CHOICE"

	// Catalog and collection errors
	CodeUnknownCard  Code = "UNKNOWN_CARD"
	CodeDeckNotFound Code = "DECK_NOT_FOUND"
	CodeDeckInvalid  Code = "DECK_INVALID"
	CodeDeckLocked   Code = "DECK_LOCKED"
)

// Fatal reports whether errors with this code indicate caller misuse rather
// than a condition the player can recover from by choosing differently.
func (c Code) Fatal() bool {
	switch c {
	case CodeUnknownEffect, CodeInteractiveEffect, CodeNoActiveRun, CodeNoRulesCard,
		CodeCardNotFound, CodePlayLimitReached, CodeUnknownCard:
		return true
	default:
		return false
	}
}
