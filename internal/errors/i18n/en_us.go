package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown              = "UNKNOWN"
	CodePlayerNameEmpty      = "PLAYER_NAME_EMPTY"
	CodePlayerNameTooLong    = "PLAYER_NAME_TOO_LONG"
	CodePlayerNameDuplicate  = "PLAYER_NAME_DUPLICATE"
	CodeTooFewPlayers        = "TOO_FEW_PLAYERS"
	CodeTooManyPlayers       = "TOO_MANY_PLAYERS"
	CodeCategoriesEmpty      = "CATEGORIES_EMPTY"
	CodeInvalidRoundCount    = "INVALID_ROUND_COUNT"
	CodeNotEnoughProfiles    = "NOT_ENOUGH_PROFILES"
	CodeGameNotPending       = "GAME_NOT_PENDING"
	CodeGameCompleted        = "GAME_COMPLETED"
	CodeNoCurrentProfile     = "NO_CURRENT_PROFILE"
	CodeClueBudgetExhausted  = "CLUE_BUDGET_EXHAUSTED"
	CodeRoundAlreadyResolved = "ROUND_ALREADY_RESOLVED"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeCategoryExhausted    = "CATEGORY_EXHAUSTED"
	CodeNotFound             = "NOT_FOUND"
	CodeStorageFailure       = "STORAGE_FAILURE"
	CodeManifestFetchFailed  = "MANIFEST_FETCH_FAILED"
	CodeProfilesFetchFailed  = "PROFILES_FETCH_FAILED"
	CodeCatalogInvalid       = "CATALOG_INVALID"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeUnknown: "An unexpected error occurred",

		// Roster errors
		CodePlayerNameEmpty:     "Player names cannot be empty",
		CodePlayerNameTooLong:   "Player name {{.Name}} exceeds {{.Max}} characters",
		CodePlayerNameDuplicate: "Player name {{.Name}} is already taken",
		CodeTooFewPlayers:       "At least {{.Min}} players are required",
		CodeTooManyPlayers:      "At most {{.Max}} players are allowed",

		// Setup errors
		CodeCategoriesEmpty:   "Select at least one category",
		CodeInvalidRoundCount: "Round count must be between 1 and {{.Max}}",
		CodeNotEnoughProfiles: "Requested {{.Requested}} rounds but only {{.Available}} profiles are available",

		// Game state errors
		CodeGameNotPending:       "The game has already started",
		CodeGameCompleted:        "The game is already finished",
		CodeNoCurrentProfile:     "No profile is currently in play",
		CodeClueBudgetExhausted:  "All clues for this profile have been revealed",
		CodeRoundAlreadyResolved: "This round has already been resolved",
		CodePlayerNotFound:       "Player {{.PlayerID}} is not part of this game",
		CodeCategoryExhausted:    "No unused profiles remain in category {{.Category}}",

		// Storage errors
		CodeNotFound:       "The requested game was not found",
		CodeStorageFailure: "Saving the game failed, please try again",

		// Catalog errors
		CodeManifestFetchFailed: "Loading the game catalog failed",
		CodeProfilesFetchFailed: "Loading profiles for {{.Category}} failed",
		CodeCatalogInvalid:      "The game catalog is invalid",
	},
}
