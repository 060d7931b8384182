package routes

import (
	"foodcal/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(rec *controllers.RecognitionController) *gin.Engine {
	r := gin.Default()

	// The browser client runs on another port during development.
	r.Use(cors.Default())

	r.GET("/", rec.Root)

	api := r.Group("/api")
	{
		api.GET("/health", rec.Health)
		api.POST("/recognize-food", rec.RecognizeFood)
	}

	return r
}
