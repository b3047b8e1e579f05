package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger writes one structured line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"request_id": requestID(c),
		})
		if uid := c.GetString(CtxUserID); uid != "" {
			entry = entry.WithField("user_id", uid)
		}

		if c.Writer.Status() >= http.StatusBadRequest {
			entry.Error("Request failed")
		} else {
			entry.Info("Request processed")
		}
	}
}

// ErrorLogger logs detailed error information and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(c, start, "panic", err).
					WithField("stack", string(debug.Stack())).
					Error("request panicked")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Server error",
					"error":   err.Error(),
				})
				return
			}

			for _, e := range c.Errors {
				entry := logRequestError(c, start, fmt.Sprintf("%v", e.Type), e.Err)
				if e.Meta != nil {
					entry = entry.WithField("meta", e.Meta)
				}
				entry.Error("request error")
			}
		}()

		c.Next()
	}
}

func logRequestError(c *gin.Context, start time.Time, errType string, err error) *logrus.Entry {
	return logrus.WithError(err).WithFields(logrus.Fields{
		"type":       errType,
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetString(CtxUserID),
		"role":       c.GetString(CtxRole),
		"request_id": requestID(c),
		"latency":    time.Since(start).String(),
	})
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
