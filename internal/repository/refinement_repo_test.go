package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/divy-03/DocAI/internal/model"
)

func TestRefinementRepositoryApply(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectRepository(db)
	sections := NewSectionRepository(db)
	repo := NewRefinementRepository(db)
	ctx := context.Background()

	project := seedProject(t, projects, "p", "intro")
	section, err := sections.Get(ctx, project.Sections[0].ID)
	if err != nil {
		t.Fatalf("Get section error: %v", err)
	}
	section.Content = "Draft A"
	if err := sections.Save(ctx, section); err != nil {
		t.Fatalf("Save section error: %v", err)
	}

	record := &model.Refinement{
		Kind:            model.RefinementKindRefine,
		Prompt:          "make it formal",
		PreviousContent: section.Content,
		NewContent:      "Draft A, formally.",
	}
	if err := repo.Apply(ctx, section, record); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if record.ID == 0 || record.SectionID != section.ID {
		t.Fatalf("unexpected record: %+v", record)
	}
	if section.Content != "Draft A, formally." {
		t.Fatalf("expected in-memory section updated, got %q", section.Content)
	}

	stored, err := sections.Get(ctx, section.ID)
	if err != nil {
		t.Fatalf("Get section error: %v", err)
	}
	if stored.Content != "Draft A, formally." {
		t.Fatalf("expected stored content updated, got %q", stored.Content)
	}
}

func TestRefinementRepositoryApplyUnknownSection(t *testing.T) {
	db := newTestDB(t)
	repo := NewRefinementRepository(db)

	err := repo.Apply(context.Background(), &model.Section{ID: 999}, &model.Refinement{Prompt: "p", NewContent: "n"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var count int64
	db.Model(&model.Refinement{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected rollback of history record, got %d rows", count)
	}
}

func TestRefinementRepositoryListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewRefinementRepository(db)
	ctx := context.Background()

	project := seedProject(t, projects, "p", "intro")
	section := project.Sections[0]
	for _, c := range []string{"A", "B", "C"} {
		record := &model.Refinement{Prompt: "to " + c, PreviousContent: section.Content, NewContent: c}
		if err := repo.Apply(ctx, &section, record); err != nil {
			t.Fatalf("Apply error: %v", err)
		}
	}

	records, err := repo.ListBySection(ctx, section.ID)
	if err != nil {
		t.Fatalf("ListBySection error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].PreviousContent != "B" || records[1].PreviousContent != "A" || records[2].PreviousContent != "" {
		t.Fatalf("unexpected order: %q %q %q", records[0].PreviousContent, records[1].PreviousContent, records[2].PreviousContent)
	}

	got, err := repo.Get(ctx, records[1].ID)
	if err != nil || got.NewContent != "B" {
		t.Fatalf("Get error: %v, record %+v", err, got)
	}
	if _, err := repo.Get(ctx, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
