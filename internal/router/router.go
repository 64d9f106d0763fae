package router

import (
	"net/http"

	"github.com/divy-03/DocAI/config"
	"github.com/divy-03/DocAI/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Project    *handler.ProjectHandler
	Section    *handler.SectionHandler
	Generation *handler.GenerationHandler
	Refinement *handler.RefinementHandler
}

func Setup(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "DocAI API"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		projects := api.Group("/projects")
		{
			projects.POST("", h.Project.Create)
			projects.GET("", h.Project.List)
			projects.GET("/:id", h.Project.Get)
			projects.PUT("/:id", h.Project.Update)
			projects.DELETE("/:id", h.Project.Delete)
		}

		api.PUT("/sections/:id", h.Section.Update)

		generation := api.Group("/generation")
		{
			generation.POST("/projects/:id/generate", h.Generation.GenerateProject)
			generation.POST("/projects/:id/generate/:section_id", h.Generation.GenerateSection)
			generation.POST("/outline/generate", h.Generation.GenerateOutline)
		}

		sections := api.Group("/refinement/sections/:id")
		{
			sections.POST("/refine-preview", h.Refinement.Preview)
			sections.POST("/refine-accept", h.Refinement.Accept)
			sections.POST("/refine", h.Refinement.Refine)
			sections.POST("/restore", h.Refinement.Restore)
			sections.GET("/refinements", h.Refinement.History)
			sections.POST("/feedback", h.Refinement.AddFeedback)
			sections.GET("/feedback", h.Refinement.ListFeedback)
			sections.GET("/details", h.Refinement.Details)
		}
	}

	return r
}
