package service

import (
	"context"
	"errors"
	"testing"

	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewDoesNotWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "Solar is growing.")

	preview, err := env.refinements.Preview(ctx, section.ID, "Make it formal")
	require.NoError(t, err)
	assert.Equal(t, "Solar is growing.", preview.OriginalContent)
	assert.Equal(t, "Solar is growing. (refined)", preview.RefinedContent)

	history, err := env.refinements.History(ctx, section.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	stored, err := env.sections.Get(ctx, section.ID)
	require.NoError(t, err)
	assert.Equal(t, "Solar is growing.", stored.Content)
	assert.Empty(t, env.events)
}

func TestPreviewValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "body")

	_, err := env.refinements.Preview(ctx, section.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	project := env.createProject(t, model.DocumentTypeDocx, "Empty")
	_, err = env.refinements.Preview(ctx, project.Sections[0].ID, "shorter")
	assert.ErrorIs(t, err, ErrNoContent)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.refinements.Preview(ctx, 777, "shorter")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Equal(t, 0, env.gen.refineCalls)
}

func TestPreviewWrapsGeneratorError(t *testing.T) {
	env := newTestEnv(t)
	section := env.sectionWithContent(t, "body")
	env.gen.RefineFunc = func(original, instruction string) (string, error) {
		return "", errors.New("rate limited")
	}

	_, err := env.refinements.Preview(context.Background(), section.ID, "shorter")
	require.Error(t, err)
	assert.Equal(t, "error refining content: rate limited", err.Error())
}

func TestAcceptAppendsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "v1")

	updated, err := env.refinements.Accept(ctx, section.ID, "polish", "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	history, err := env.refinements.History(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.RefinementKindRefine, history[0].Kind)
	assert.Equal(t, "polish", history[0].Prompt)
	assert.Equal(t, "v1", history[0].PreviousContent)
	assert.Equal(t, "v2", history[0].NewContent)

	require.Len(t, env.events, 1)
	assert.Equal(t, eventbus.SectionEventRefined, env.events[0].Type)
	assert.Equal(t, history[0].ID, env.events[0].RefinementID)

	_, err = env.refinements.Accept(ctx, section.ID, "polish", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRefineOneShot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "draft")

	updated, err := env.refinements.Refine(ctx, section.ID, "expand")
	require.NoError(t, err)
	assert.Equal(t, "draft (refined)", updated.Content)
	assert.Equal(t, 1, env.gen.refineCalls)

	history, err := env.refinements.History(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestRestoreAppendsRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "v1")

	_, err := env.refinements.Accept(ctx, section.ID, "first", "v2")
	require.NoError(t, err)
	_, err = env.refinements.Accept(ctx, section.ID, "second", "v3")
	require.NoError(t, err)

	history, err := env.refinements.History(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	first := history[1]
	require.Equal(t, "first", first.Prompt)

	restored, err := env.refinements.Restore(ctx, section.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", restored.Content)

	history, err = env.refinements.History(ctx, section.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	latest := history[0]
	assert.Equal(t, model.RefinementKindRestore, latest.Kind)
	assert.Equal(t, "v3", latest.PreviousContent)
	assert.Equal(t, "v1", latest.NewContent)
	require.NotNil(t, latest.RestoredFromID)
	assert.Equal(t, first.ID, *latest.RestoredFromID)
	assert.Equal(t, eventbus.SectionEventRestored, env.events[len(env.events)-1].Type)

	// 恢复记录本身也可以再次恢复
	undone, err := env.refinements.Restore(ctx, section.ID, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, "v3", undone.Content)
}

func TestRestoreRejectsForeignRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.sectionWithContent(t, "a1")
	b := env.sectionWithContent(t, "b1")
	_, err := env.refinements.Accept(ctx, a.ID, "p", "a2")
	require.NoError(t, err)
	history, err := env.refinements.History(ctx, a.ID)
	require.NoError(t, err)

	_, err = env.refinements.Restore(ctx, b.ID, history[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "refinement not found", err.Error())

	_, err = env.refinements.Restore(ctx, a.ID, 5000)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDetailsCombinesHistoryAndFeedback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "v1")
	_, err := env.refinements.Accept(ctx, section.ID, "p", "v2")
	require.NoError(t, err)
	_, err = env.feedback.Add(ctx, section.ID, FeedbackRequest{FeedbackType: model.FeedbackLike})
	require.NoError(t, err)

	detail, err := env.refinements.Details(ctx, section.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", detail.Content)
	assert.Len(t, detail.Refinements, 1)
	assert.Len(t, detail.Feedback, 1)
	require.NotNil(t, detail.CurrentFeedback)
	assert.Equal(t, model.FeedbackLike, detail.CurrentFeedback.FeedbackType)

	_, err = env.feedback.Add(ctx, section.ID, FeedbackRequest{Comment: "fine"})
	require.NoError(t, err)
	detail, err = env.refinements.Details(ctx, section.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.CurrentFeedback)
	assert.Equal(t, model.FeedbackNone, detail.CurrentFeedback.FeedbackType)
	assert.Equal(t, "fine", detail.CurrentFeedback.Comment)

	_, err = env.refinements.Details(ctx, 31337)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
