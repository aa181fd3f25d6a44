// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roster errors
	CodePlayerNameEmpty     Code = "PLAYER_NAME_EMPTY"
	CodePlayerNameTooLong   Code = "PLAYER_NAME_TOO_LONG"
	CodePlayerNameDuplicate Code = "PLAYER_NAME_DUPLICATE"
	CodeTooFewPlayers       Code = "TOO_FEW_PLAYERS"
	CodeTooManyPlayers      Code = "TOO_MANY_PLAYERS"

	// Setup errors
	CodeCategoriesEmpty   Code = "CATEGORIES_EMPTY"
	CodeInvalidRoundCount Code = "INVALID_ROUND_COUNT"
	CodeNotEnoughProfiles Code = "NOT_ENOUGH_PROFILES"

	// Game state errors
	CodeGameNotPending       Code = "GAME_NOT_PENDING"
	CodeGameCompleted        Code = "GAME_COMPLETED"
	CodeNoCurrentProfile     Code = "NO_CURRENT_PROFILE"
	CodeClueBudgetExhausted  Code = "CLUE_BUDGET_EXHAUSTED"
	CodeRoundAlreadyResolved Code = "ROUND_ALREADY_RESOLVED"
	CodePlayerNotFound       Code = "PLAYER_NOT_FOUND"
	CodeCategoryExhausted    Code = "CATEGORY_EXHAUSTED"

	// Storage errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeStorageFailure Code = "STORAGE_FAILURE"

	// Catalog errors
	CodeManifestFetchFailed Code = "MANIFEST_FETCH_FAILED"
	CodeProfilesFetchFailed Code = "PROFILES_FETCH_FAILED"
	CodeCatalogInvalid      Code = "CATALOG_INVALID"
)

// Kind groups codes into the coarse categories callers branch on.
type Kind int

const (
	// KindUnknown represents an unclassified error.
	KindUnknown Kind = iota
	// KindValidation indicates bad input; the operation left state unchanged.
	KindValidation
	// KindGame indicates an illegal state transition.
	KindGame
	// KindNotFound indicates a missing record, distinct from storage failure.
	KindNotFound
	// KindPersistence indicates a storage I/O failure.
	KindPersistence
	// KindNetwork indicates a catalog or profile fetch failure.
	KindNetwork
)

// Kind maps a code to its error kind.
func (c Code) Kind() Kind {
	switch c {
	case CodePlayerNameEmpty,
		CodePlayerNameTooLong,
		CodePlayerNameDuplicate,
		CodeTooFewPlayers,
		CodeTooManyPlayers,
		CodeCategoriesEmpty,
		CodeInvalidRoundCount,
		CodeNotEnoughProfiles:
		return KindValidation

	case CodeGameNotPending,
		CodeGameCompleted,
		CodeNoCurrentProfile,
		CodeClueBudgetExhausted,
		CodeRoundAlreadyResolved,
		CodePlayerNotFound,
		CodeCategoryExhausted:
		return KindGame

	case CodeNotFound:
		return KindNotFound

	case CodeStorageFailure:
		return KindPersistence

	case CodeManifestFetchFailed,
		CodeProfilesFetchFailed,
		CodeCatalogInvalid:
		return KindNetwork

	default:
		return KindUnknown
	}
}

// HTTPStatus maps a code to the HTTP status used by the REST surface.
func (c Code) HTTPStatus() int {
	switch c.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindGame:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
