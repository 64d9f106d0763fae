package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/divy-03/DocAI/internal/editor"
	"github.com/divy-03/DocAI/internal/model"
)

const columnWidth = 48

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(columnWidth)
)

func renderProjects(projects []model.ProjectSummary) string {
	if len(projects) == 0 {
		return mutedStyle.Render("No projects yet.")
	}
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "%s  %s %s\n",
			titleStyle.Render(fmt.Sprintf("#%d", p.ID)),
			p.Title,
			mutedStyle.Render(fmt.Sprintf("(%s, %d sections)", p.DocumentType, p.SectionCount)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderProject(project model.Project, sections []model.Section) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(project.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · %s", project.Topic, project.DocumentType)))
	b.WriteString("\n")
	label := project.DocumentType.SectionLabel()
	for i, s := range sections {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d · %s", label, i+1, s.Title)))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  [id %d]", s.ID)))
		b.WriteString("\n")
		if s.HasContent() {
			b.WriteString(s.Content)
		} else {
			b.WriteString(mutedStyle.Render("(not generated yet)"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderPreview 原内容与精修结果左右对照
func renderPreview(candidate editor.Candidate) string {
	left := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render("Original"),
		candidate.OriginalContent,
	))
	right := boxStyle.BorderForeground(lipgloss.Color("#5B8DEF")).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Refined"),
		candidate.RefinedContent,
	))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderHistory(records []model.Refinement) string {
	if len(records) == 0 {
		return mutedStyle.Render("No refinement history yet.")
	}
	var b strings.Builder
	for _, r := range records {
		header := fmt.Sprintf("#%d %s  %s", r.ID, r.Kind, r.CreatedAt.Format("2006-01-02 15:04"))
		b.WriteString(titleStyle.Render(header))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("prompt: " + r.Prompt))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render("Before"), r.PreviousContent)),
			boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render("After"), r.NewContent)),
		))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderUpdate 一次已确认的章节修改
func renderUpdate(u editor.Update) string {
	var fields []string
	if u.Patch.Title != nil {
		fields = append(fields, "title")
	}
	if u.Patch.Content != nil {
		fields = append(fields, "content")
	}
	return mutedStyle.Render(fmt.Sprintf("section #%d %q: %s updated (%d words)",
		u.SectionID, u.Section.Title, strings.Join(fields, " and "), len(strings.Fields(u.Section.Content))))
}

func renderSectionDetail(detail model.SectionDetail) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(detail.Title))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  [id %d]", detail.ID)))
	b.WriteString("\n")
	if detail.HasContent() {
		b.WriteString(detail.Content)
	} else {
		b.WriteString(mutedStyle.Render("(not generated yet)"))
	}
	b.WriteString("\n\n")
	if detail.CurrentFeedback != nil {
		b.WriteString(renderFeedback(*detail.CurrentFeedback, true))
	} else {
		b.WriteString(renderFeedback(model.Feedback{}, false))
	}
	b.WriteString("\n\n")
	b.WriteString(renderHistory(detail.Refinements))
	return b.String()
}

func renderComments(comments []model.Feedback) string {
	if len(comments) == 0 {
		return mutedStyle.Render("No comments yet.")
	}
	var b strings.Builder
	for _, f := range comments {
		header := f.CreatedAt.Format("2006-01-02 15:04")
		if f.FeedbackType != model.FeedbackNone {
			header += " · " + string(f.FeedbackType)
		}
		b.WriteString(mutedStyle.Render(header))
		b.WriteString("\n")
		b.WriteString("  " + f.Comment)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFeedback(feedback model.Feedback, ok bool) string {
	if !ok {
		return mutedStyle.Render("No feedback yet.")
	}
	reaction := string(feedback.FeedbackType)
	if reaction == "" {
		reaction = "none"
	}
	line := "reaction: " + reaction
	if feedback.Comment != "" {
		line += "\ncomment: " + feedback.Comment
	}
	return line
}
