package main

import (
	"log"

	"foodcal/config"
	"foodcal/controllers"
	"foodcal/routes"
	"foodcal/services"
)

func main() {
	cfg := config.Load()

	var vision services.VisionClient
	if cfg.MockVision {
		log.Println("VISION_MOCK enabled, serving fixture recognitions")
		vision = services.NewMockVisionClient()
	} else {
		vision = services.NewDashScopeClient(cfg.BaseURL, cfg.APIKey, cfg.VisionModel)
	}

	svc := services.NewRecognitionService(vision)
	rec := controllers.NewRecognitionController(svc, cfg.Debug)

	r := routes.SetupRouter(rec)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server failed on port %s: %v", cfg.Port, err)
	}
}
