package main

import (
	"flag"
	"log"
	"os"

	_ "go.uber.org/automaxprocs"
	"k8s.io/klog/v2"

	"github.com/divy-03/DocAI/config"
	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/handler"
	"github.com/divy-03/DocAI/internal/pkg/database"
	"github.com/divy-03/DocAI/internal/pkg/llm"
	"github.com/divy-03/DocAI/internal/repository"
	"github.com/divy-03/DocAI/internal/router"
	"github.com/divy-03/DocAI/internal/service"
	"github.com/divy-03/DocAI/internal/service/generator"
	"github.com/divy-03/DocAI/internal/subscriber"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	projectRepo := repository.NewProjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	refinementRepo := repository.NewRefinementRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// 章节事件
	bus := eventbus.NewSectionEventBus()
	subscriber.NewSectionEventSubscriber(projectRepo).Register(bus)

	// 初始化 LLM
	chatModel, err := llm.NewChatModel(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize chat model: %v", err)
	}
	gen := generator.New(chatModel, cfg.Generation)

	// 初始化 Service
	projectService := service.NewProjectService(projectRepo)
	sectionService := service.NewSectionService(sectionRepo, bus)
	generationService := service.NewGenerationService(projectRepo, sectionRepo, gen, cfg.Generation, bus)
	refinementService := service.NewRefinementService(sectionRepo, refinementRepo, feedbackRepo, gen, bus)
	feedbackService := service.NewFeedbackService(sectionRepo, feedbackRepo, bus)

	// 设置路由
	r := router.Setup(cfg, router.Handlers{
		Project:    handler.NewProjectHandler(projectService),
		Section:    handler.NewSectionHandler(sectionService),
		Generation: handler.NewGenerationHandler(generationService),
		Refinement: handler.NewRefinementHandler(refinementService, feedbackService),
	})

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
