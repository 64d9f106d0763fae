package service

import (
	"context"
	"testing"

	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackServiceAddAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "body")

	list, err := env.feedback.List(ctx, section.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = env.feedback.Add(ctx, section.ID, FeedbackRequest{FeedbackType: model.FeedbackLike})
	require.NoError(t, err)
	latest, err := env.feedback.Add(ctx, section.ID, FeedbackRequest{FeedbackType: model.FeedbackLike, Comment: "  nice tone  "})
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackLike, latest.FeedbackType)
	assert.Equal(t, "nice tone", latest.Comment)

	list, err = env.feedback.List(ctx, section.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.Len(t, env.events, 2)
	assert.Equal(t, eventbus.SectionEventFeedback, env.events[1].Type)
	assert.Equal(t, latest.ID, env.events[1].FeedbackID)
}

func TestFeedbackServiceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	section := env.sectionWithContent(t, "body")

	_, err := env.feedback.Add(ctx, section.ID, FeedbackRequest{FeedbackType: "love"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.feedback.Add(ctx, 404, FeedbackRequest{FeedbackType: model.FeedbackDislike})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.feedback.List(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
