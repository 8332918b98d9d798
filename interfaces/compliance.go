package interfaces

import (
	"prode-app-go/database"
	"prode-app-go/services"
)

// Interface compliance checks - these will fail to compile if implementations drift
var (
	_ CompetitionService = (*services.CompetitionService)(nil)
	_ StandingsService   = (*services.StandingsService)(nil)
	_ GameService        = (*services.GameService)(nil)
	_ BetService         = (*services.BetService)(nil)
	_ AuthService        = (*services.AuthService)(nil)

	// both backends provide every repository
	_ services.UserRepository        = (*services.MemoryStore)(nil)
	_ services.CompetitionRepository = (*services.MemoryStore)(nil)
	_ services.GameRepository        = (*services.MemoryStore)(nil)
	_ services.BetRepository         = (*services.MemoryStore)(nil)
	_ services.PersistenceStore      = (*services.MemoryStore)(nil)

	_ services.UserRepository        = (*database.MongoUserRepository)(nil)
	_ services.CompetitionRepository = (*database.MongoCompetitionRepository)(nil)
	_ services.GameRepository        = (*database.MongoGameRepository)(nil)
	_ services.BetRepository         = (*database.MongoBetRepository)(nil)
)
