package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bookwise/bookwise/internal/availability"
	availabilitydomain "github.com/bookwise/bookwise/internal/availability/domain"
	"github.com/bookwise/bookwise/internal/config"
	"github.com/bookwise/bookwise/internal/observability"
	obsmiddleware "github.com/bookwise/bookwise/internal/observability/logger"
	obsmetrics "github.com/bookwise/bookwise/internal/observability/metrics"
	obstracing "github.com/bookwise/bookwise/internal/observability/tracing"
	"github.com/bookwise/bookwise/internal/offering"
	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	"github.com/bookwise/bookwise/internal/pricing"
	pricingdomain "github.com/bookwise/bookwise/internal/pricing/domain"
	"github.com/bookwise/bookwise/internal/pricingrule"
	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/bookwise/bookwise/internal/ratelimit"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	offering.Module,
	pricingrule.Module,
	pricing.Module,
	availability.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	offeringSvc     offeringdomain.Service
	pricingRuleSvc  ruledomain.Service
	pricingSvc      pricingdomain.Service
	availabilitySvc availabilitydomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	OfferingSvc     offeringdomain.Service
	PricingRuleSvc  ruledomain.Service
	PricingSvc      pricingdomain.Service
	AvailabilitySvc availabilitydomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		offeringSvc:     p.OfferingSvc,
		pricingRuleSvc:  p.PricingRuleSvc,
		pricingSvc:      p.PricingSvc,
		availabilitySvc: p.AvailabilitySvc,
	}

	svc.registerRoutes()
	return svc
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1", TenantRequired())

	// -------- Offerings --------
	v1.POST("/offerings", s.CreateOffering)
	v1.GET("/offerings", s.ListOfferings)
	v1.GET("/offerings/:id", s.GetOfferingByID)
	v1.PATCH("/offerings/:id", s.UpdateOffering)
	v1.DELETE("/offerings/:id", s.ArchiveOffering)
	v1.POST("/offerings/:id/variants", s.CreateOfferingVariant)
	v1.GET("/offerings/:id/variants", s.ListOfferingVariants)

	// -------- Pricing rules --------
	v1.POST("/pricing-rules", s.CreatePricingRule)
	v1.GET("/pricing-rules", s.ListPricingRules)
	v1.GET("/pricing-rules/:id", s.GetPricingRuleByID)
	v1.PATCH("/pricing-rules/:id", s.UpdatePricingRule)
	v1.DELETE("/pricing-rules/:id", s.DeactivatePricingRule)

	// -------- Pricing --------
	v1.POST("/pricing/calculate", s.CalculatePrice)

	// -------- Availability --------
	v1.POST("/availability/generate", s.GenerateAvailability)
	v1.POST("/availability/check", s.CheckAvailability)
	v1.GET("/availability/slots", s.ListAvailabilitySlots)
	v1.POST("/availability/slots/book", s.BookAvailabilitySlot)
}
