package middleware

import (
	"strconv"
	"time"

	"github.com/Meesho/BharatMLStack/price-range/pkg/metric"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const HeaderRequestID = "X-Request-Id"

// HTTPLogger logs the request
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, requestID)

		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		metricTags := metric.BuildTag(
			metric.NewTag(metric.TagPath, route),
			metric.NewTag(metric.TagMethod, method),
			metric.NewTag(metric.TagHttpStatusCode, strconv.Itoa(statusCode)),
		)
		metric.Incr(metric.ApiRequestCount, metricTags)
		metric.Timing(metric.ApiRequestLatency, latency, metricTags)
		log.Info().Str("requestId", requestID).Msgf("[access] [%s] %s %s %d %v", clientIP, method, route, statusCode, latency)
	}
}
