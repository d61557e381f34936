package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	U "churn/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// scope constants.
const SCOPE_REQ_ID = "requestId"

const HeaderRequestID = "X-Request-Id"

// CustomCors allows the given origins, every origin when the list is empty or holds "*".
func CustomCors(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AddAllowHeaders(HeaderRequestID)
	corsConfig.AddExposeHeaders(HeaderRequestID)
	return cors.New(corsConfig)
}

// RequestIdGenerator uses the incoming request id when valid, else assigns one.
func RequestIdGenerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.Request.Header.Get(HeaderRequestID)
		if !U.IsValidUUID(reqID) {
			reqID = U.GetUUID()
		}
		U.SetScope(c, SCOPE_REQ_ID, reqID)
		c.Header(HeaderRequestID, reqID)
		c.Next()
	}
}

// Logger logs every request once it is served.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		logCtx := log.WithFields(log.Fields{
			"reqId":     U.GetScopeByKeyAsString(c, SCOPE_REQ_ID),
			"method":    c.Request.Method,
			"path":      path,
			"query":     c.Request.URL.RawQuery,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			logCtx.WithField("errors", c.Errors.String()).Error("Request failed.")
			return
		}
		logCtx.Info("Request served.")
	}
}

// Recovery turns panics into a 500 and logs them.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"reqId": U.GetScopeByKeyAsString(c, SCOPE_REQ_ID),
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("Recovered from panic.")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
			}
		}()
		c.Next()
	}
}

// MaxBodySize limits the size of request bodies.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
