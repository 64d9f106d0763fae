package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/divy-03/DocAI/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	if err := db.AutoMigrate(&model.Project{}, &model.Section{}, &model.Refinement{}, &model.Feedback{}); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	return db
}

func seedProject(t *testing.T, repo ProjectRepository, title string, sectionTitles ...string) *model.Project {
	t.Helper()
	project := &model.Project{
		Title:        title,
		Topic:        "topic of " + title,
		DocumentType: model.DocumentTypeDocx,
	}
	for i, st := range sectionTitles {
		project.Sections = append(project.Sections, model.Section{Title: st, Order: i})
	}
	if err := repo.Create(context.Background(), project); err != nil {
		t.Fatalf("create project error: %v", err)
	}
	return project
}
