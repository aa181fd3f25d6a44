package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeUnknown: "Ocorreu um erro inesperado",

		// Roster errors
		CodePlayerNameEmpty:     "Os nomes dos jogadores não podem ficar vazios",
		CodePlayerNameTooLong:   "O nome {{.Name}} excede {{.Max}} caracteres",
		CodePlayerNameDuplicate: "O nome {{.Name}} já está em uso",
		CodeTooFewPlayers:       "São necessários pelo menos {{.Min}} jogadores",
		CodeTooManyPlayers:      "São permitidos no máximo {{.Max}} jogadores",

		// Setup errors
		CodeCategoriesEmpty:   "Selecione pelo menos uma categoria",
		CodeInvalidRoundCount: "O número de rodadas deve estar entre 1 e {{.Max}}",
		CodeNotEnoughProfiles: "Foram pedidas {{.Requested}} rodadas mas apenas {{.Available}} perfis estão disponíveis",

		// Game state errors
		CodeGameNotPending:       "O jogo já começou",
		CodeGameCompleted:        "O jogo já terminou",
		CodeNoCurrentProfile:     "Nenhum perfil está em jogo no momento",
		CodeClueBudgetExhausted:  "Todas as dicas deste perfil já foram reveladas",
		CodeRoundAlreadyResolved: "Esta rodada já foi resolvida",
		CodePlayerNotFound:       "O jogador {{.PlayerID}} não faz parte deste jogo",
		CodeCategoryExhausted:    "Não restam perfis na categoria {{.Category}}",

		// Storage errors
		CodeNotFound:       "O jogo solicitado não foi encontrado",
		CodeStorageFailure: "Falha ao salvar o jogo, tente novamente",

		// Catalog errors
		CodeManifestFetchFailed: "Falha ao carregar o catálogo do jogo",
		CodeProfilesFetchFailed: "Falha ao carregar perfis de {{.Category}}",
		CodeCatalogInvalid:      "O catálogo do jogo é inválido",
	},
}
