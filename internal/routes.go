package internal

import (
	"net/http"
	"reelsd/internal/controllers"
	"reelsd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, eventsController *controllers.EventsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Post("/reel", http.HandlerFunc(apiController.RecordReel))
	routers.Post("/tracking/start", http.HandlerFunc(apiController.StartTracking))
	routers.Post("/tracking/stop", http.HandlerFunc(apiController.StopTracking))
	routers.Post("/tracking/interval", http.HandlerFunc(apiController.SetInterval))
	routers.Post("/visibility", http.HandlerFunc(apiController.SetVisibility))
	routers.Post("/settings", http.HandlerFunc(apiController.UpdateSettings))
	routers.Post("/focus", http.HandlerFunc(apiController.SetFocus))
	routers.Get("/focus/status", http.HandlerFunc(apiController.FocusStatus))
	routers.Post("/lock/setup", http.HandlerFunc(apiController.SetupLock))
	routers.Post("/lock/toggle", http.HandlerFunc(apiController.ToggleLock))
	routers.Post("/reset/today", http.HandlerFunc(apiController.ResetToday))
	routers.Post("/reset", http.HandlerFunc(apiController.ResetAll))
	routers.Get("/report", http.HandlerFunc(apiController.GetReport))
	routers.Get("/events", http.HandlerFunc(eventsController.Stream))
	return routers
}
