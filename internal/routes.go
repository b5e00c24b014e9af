package internal

import (
	"ecotrack/internal/controllers"
	"ecotrack/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, eventController *controllers.EventController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/events/tab-created", http.HandlerFunc(eventController.TabCreated))
	routers.Post("/events/tab-closed", http.HandlerFunc(eventController.TabClosed))
	routers.Post("/events/idle", http.HandlerFunc(eventController.IdleChanged))
	routers.Post("/events/tab-count", http.HandlerFunc(eventController.TabCount))

	routers.Get("/estimate", http.HandlerFunc(apiController.GetEstimate))
	routers.Get("/weekly", http.HandlerFunc(apiController.GetWeekly))
	routers.Get("/tips", http.HandlerFunc(apiController.GetTips))
	routers.Get("/badge", http.HandlerFunc(apiController.GetBadge))
	routers.Post("/action", http.HandlerFunc(apiController.TakeAction))
	routers.Post("/tips/dismiss", http.HandlerFunc(apiController.DismissTip))
	return routers
}
