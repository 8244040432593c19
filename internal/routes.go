package internal

import (
	"net/http"

	"codeboard/internal/controllers"
	"codeboard/internal/providers"
)

func InitRoutes(heatmapController *controllers.HeatmapController, statsController *controllers.StatsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/heatmap/leetcode", http.HandlerFunc(heatmapController.LeetCode))
	routers.Post("/heatmap/github", http.HandlerFunc(heatmapController.GitHub))
	routers.Get("/stats", http.HandlerFunc(statsController.GetStats))
	return routers
}
