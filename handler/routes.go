package handler

import (
	C "churn/config"

	"github.com/gin-gonic/gin"
)

// InitAppRoutes registers the prediction and analysis routes.
func InitAppRoutes(r *gin.Engine, services *C.Services) {
	r.GET("/status", StatusHandler(services))

	r.GET("/predict/schema", PredictSchemaHandler)
	r.POST("/predict", PredictHandler(services))

	r.GET("/analysis", DefaultDatasetAnalysisHandler(services))
	r.POST("/analysis", UploadedDatasetAnalysisHandler(services))
}
