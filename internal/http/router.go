package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/workstation-backend/internal/http/handlers"
	httpMW "github.com/yungbote/workstation-backend/internal/http/middleware"
	"github.com/yungbote/workstation-backend/internal/observability"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	ContractHandler *httpH.ContractHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if h := cfg.ContractHandler; h != nil {
		api.POST("/contracts", h.CreateContract)
		api.GET("/contracts/active", h.ListActive)
		api.GET("/contracts/:id", h.GetContract)
		api.GET("/users/:id/contracts", h.ListByParticipant)

		api.POST("/contracts/:id/clauses", h.AddClause)
		api.POST("/contracts/:id/signatures", h.Sign)
		api.POST("/contracts/:id/activate", h.Activate)

		api.POST("/contracts/:id/compensations", h.AddCompensation)
		api.GET("/contracts/:id/compensations", h.ListCompensations)
		api.POST("/contracts/:id/compensations/:cid/resolve", h.ResolveCompensation)

		api.POST("/contracts/:id/receipt", h.IssueReceipt)
		api.GET("/contracts/:id/receipt", h.GetReceipt)
		api.PUT("/contracts/:id/receipt", h.UpdateReceipt)

		api.POST("/contracts/:id/finish", h.Finish)
		api.POST("/contracts/:id/cancel", h.Cancel)
	}

	return r
}
