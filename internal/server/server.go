package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/granary/internal/alias"
	aliasdomain "github.com/smallbiznis/granary/internal/alias/domain"
	"github.com/smallbiznis/granary/internal/config"
	"github.com/smallbiznis/granary/internal/dimension"
	"github.com/smallbiznis/granary/internal/ingest"
	ingestdomain "github.com/smallbiznis/granary/internal/ingest/domain"
	"github.com/smallbiznis/granary/internal/loader"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	alias.Module,
	dimension.Module,
	loader.Module,
	ingest.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
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
	engine    *gin.Engine
	cfg       config.Config
	db        *gorm.DB
	log       *zap.Logger
	aliasSvc  aliasdomain.Service
	ingestSvc ingestdomain.Service
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	DB        *gorm.DB
	Log       *zap.Logger
	AliasSvc  aliasdomain.Service
	IngestSvc ingestdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		db:        p.DB,
		log:       p.Log.Named("server"),
		aliasSvc:  p.AliasSvc,
		ingestSvc: p.IngestSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	s.engine.POST("/upload/operations", s.UploadOperations)
	s.engine.POST("/upload/kpi", s.UploadKPI)

	s.engine.POST("/aliases", s.SeedAliases)

	data := s.engine.Group("/data")
	{
		data.GET("/:dataset", s.ListRows)
		data.GET("/:dataset/:id", s.GetRow)
		data.PUT("/:dataset/:id", s.UpdateRow)
	}

	s.engine.GET("/stats", s.Stats)
}
