package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const CtxLoggerKey = "logger" // logrus.FieldLogger

// RequestLogger は1リクエストにつき1行のアクセスログを出す。
// handlerが使うロガー（request_id付き）もcontextに入れる。
// RequestIDより後に積むこと。
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	access := echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := logrus.Fields{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
			}
			if id, ok := CustomerID(c); ok {
				fields["customer_id"] = id
			}

			entry := log.WithFields(fields)
			switch {
			case v.Error != nil:
				entry.WithError(v.Error).Error("request")
			case v.Status >= 500:
				entry.Error("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		logged := access(next)
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			c.Set(CtxLoggerKey, log.WithField("request_id", rid))
			return logged(c)
		}
	}
}

// Logger はリクエスト用のロガー。無ければlogrusの標準ロガー
func Logger(c echo.Context) logrus.FieldLogger {
	if l, ok := c.Get(CtxLoggerKey).(logrus.FieldLogger); ok {
		return l
	}
	return logrus.StandardLogger()
}
