package internal

import (
	"net/http"

	"dlb/internal/controllers"
	"dlb/internal/providers"
	"dlb/internal/structures"
)

func InitRoutes(leaderboardController *controllers.LeaderboardController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/leaderboard", http.HandlerFunc(leaderboardController.GetLeaderboard))
	return routers
}
