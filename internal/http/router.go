package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/openrotor/basestation/internal/http/handlers"
	httpMW "github.com/openrotor/basestation/internal/http/middleware"
	"github.com/openrotor/basestation/internal/observability"
	"github.com/openrotor/basestation/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	RaceHandler     *httpH.RaceHandler
	HeatHandler     *httpH.HeatHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("basestation"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Races (read projection + heat creation)
		if cfg.RaceHandler != nil {
			api.GET("/races/:id", cfg.RaceHandler.GetRace)
			api.GET("/races/:id/heats", cfg.RaceHandler.ListHeats)
			api.GET("/races/:id/heat-counts", cfg.RaceHandler.HeatCounts)
		}

		// Heats (lifecycle + event log)
		if cfg.HeatHandler != nil {
			api.POST("/races/:id/heats", cfg.HeatHandler.CreateHeat)
			api.GET("/heats/:id", cfg.HeatHandler.GetHeat)
			api.POST("/heats/:id/start", cfg.HeatHandler.StartHeat)
			api.POST("/heats/:id/end", cfg.HeatHandler.EndHeat)
			api.POST("/heats/:id/restart", cfg.HeatHandler.RestartHeat)
			api.GET("/heats/:id/events", cfg.HeatHandler.ListEvents)
			api.POST("/heats/:id/events", cfg.HeatHandler.AppendEvent)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			api.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			api.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}
	}

	return r
}
