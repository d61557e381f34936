package handler

import (
	"net/http"

	C "churn/config"

	"github.com/gin-gonic/gin"
)

func StatusHandler(services *C.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"env":          services.Config.Env,
			"model_format": services.Config.ModelFormat,
		})
	}
}
