package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cocinamqb/stockdiario/internal/catalog"
	catalogdomain "github.com/cocinamqb/stockdiario/internal/catalog/domain"
	"github.com/cocinamqb/stockdiario/internal/config"
	"github.com/cocinamqb/stockdiario/internal/count"
	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	"github.com/cocinamqb/stockdiario/internal/history"
	historydomain "github.com/cocinamqb/stockdiario/internal/history/domain"
	"github.com/cocinamqb/stockdiario/internal/observability"
	obsmiddleware "github.com/cocinamqb/stockdiario/internal/observability/logger"
	obstracing "github.com/cocinamqb/stockdiario/internal/observability/tracing"
	"github.com/cocinamqb/stockdiario/internal/providers"
	"github.com/cocinamqb/stockdiario/internal/providers/pdf"
	"github.com/cocinamqb/stockdiario/internal/shortage"
	shortagedomain "github.com/cocinamqb/stockdiario/internal/shortage/domain"
	"github.com/cocinamqb/stockdiario/internal/task"
	taskdomain "github.com/cocinamqb/stockdiario/internal/task/domain"
	"github.com/cocinamqb/stockdiario/internal/workday"
	workdaydomain "github.com/cocinamqb/stockdiario/internal/workday/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	count.Module,
	shortage.Module,
	task.Module,
	history.Module,
	workday.Module,
	providers.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
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
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	catalogSvc  catalogdomain.Service
	countSvc    countdomain.Service
	shortageSvc shortagedomain.Service
	taskSvc     taskdomain.Service
	historySvc  historydomain.Service
	workdaySvc  workdaydomain.Service
	pdfProvider pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	CatalogSvc  catalogdomain.Service
	CountSvc    countdomain.Service
	ShortageSvc shortagedomain.Service
	TaskSvc     taskdomain.Service
	HistorySvc  historydomain.Service
	WorkdaySvc  workdaydomain.Service
	PDFProvider pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		catalogSvc:  p.CatalogSvc,
		countSvc:    p.CountSvc,
		shortageSvc: p.ShortageSvc,
		taskSvc:     p.TaskSvc,
		historySvc:  p.HistorySvc,
		workdaySvc:  p.WorkdaySvc,
		pdfProvider: p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Catalog --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	// -------- Counts --------
	// Date keys contain slashes, so they travel as query parameters.
	api.GET("/counts/:phase", s.ListCounts)
	api.POST("/counts/:phase", s.UpsertCount)
	api.DELETE("/counts/:phase", s.DeleteCount)

	// -------- Shortages --------
	api.GET("/shortages", s.ListShortages)
	api.POST("/shortages", s.CreateShortage)
	api.DELETE("/shortages/:id", s.DeleteShortage)
	api.POST("/shortages/:id/resolve", s.ResolveShortage)

	// -------- Pendings & tasks --------
	api.GET("/pendings", s.ListPendings)
	api.POST("/pendings", s.CreatePending)
	api.DELETE("/pendings/:id", s.DeletePending)

	api.GET("/tasks", s.ListTasks)
	api.POST("/tasks", s.CreateTask)
	api.PUT("/tasks/:id", s.UpdateTask)
	api.POST("/tasks/:id/complete", s.CompleteTask)
	api.DELETE("/tasks/:id", s.DeleteTask)

	// -------- Working day --------
	api.GET("/workday", s.GetWorkday)
	api.GET("/workday/summary", s.GetWorkdaySummary)
	api.POST("/workday/finalize", s.FinalizeWorkday)

	// -------- History --------
	api.GET("/history", s.ListHistoryDates)
	api.GET("/history/day", s.GetHistoryDay)
	api.GET("/history/day/summary", s.GetHistoryDaySummary)
	api.GET("/history/day/pdf", s.GetHistoryDayPDF)
}
