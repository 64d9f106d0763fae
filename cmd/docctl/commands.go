package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/divy-03/DocAI/internal/client"
	"github.com/divy-03/DocAI/internal/editor"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/spf13/cobra"
)

func parseID(raw, label string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", label, raw)
	}
	return uint(id), nil
}

// openSection 打开项目并返回章节对应的 Controller
func openSection(ctx context.Context, projectArg, sectionArg string) (*editor.Workspace, *editor.Controller, error) {
	projectID, err := parseID(projectArg, "project")
	if err != nil {
		return nil, nil, err
	}
	sectionID, err := parseID(sectionArg, "section")
	if err != nil {
		return nil, nil, err
	}
	ws := editor.NewWorkspace(newAPIClient())
	if err := ws.Open(ctx, projectID); err != nil {
		return nil, nil, err
	}
	controller, err := ws.Controller(sectionID)
	if err != nil {
		ws.Close()
		return nil, nil, err
	}
	return ws, controller, nil
}

// confirm 读取一行 y/yes 作为确认
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printSuccess(out io.Writer, format string, args ...any) {
	fmt.Fprintln(out, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// reportUpdates 打印后端确认后写入本地的修改，返回取消函数
func reportUpdates(ws *editor.Workspace, out io.Writer) func() {
	return ws.Store().Observe(func(u editor.Update) {
		fmt.Fprintln(out, renderUpdate(u))
	})
}

// --- projects ---

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := newAPIClient().ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderProjects(projects))
		return nil
	},
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <project> [section]",
	Short: "Show a project, or one section with its history and feedback",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		if len(args) == 2 {
			sectionID, err := parseID(args[1], "section")
			if err != nil {
				return err
			}
			detail, err := newAPIClient().SectionDetails(cmd.Context(), sectionID)
			if err != nil {
				return err
			}
			if detail.ProjectID != projectID {
				return &editor.NotFoundError{Kind: "section", ID: sectionID}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSectionDetail(*detail))
			return nil
		}
		store := editor.NewStore(newAPIClient())
		if err := store.Load(cmd.Context(), projectID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderProject(store.Project(), store.Sections()))
		return nil
	},
}

// --- create ---

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Long: `Create a project with the given section titles.

Examples:
  docctl create --title "Q3 review" --topic "Quarterly results" --section Intro --section Numbers
  docctl create --title "Pitch" --topic "Seed round" --type pptx --outline 6`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		topic, _ := cmd.Flags().GetString("topic")
		docType, _ := cmd.Flags().GetString("type")
		titles, _ := cmd.Flags().GetStringArray("section")
		outlineCount, _ := cmd.Flags().GetInt("outline")

		api := newAPIClient()
		if outlineCount > 0 {
			outline, err := api.GenerateOutline(cmd.Context(), topic, model.DocumentType(docType), outlineCount)
			if err != nil {
				return err
			}
			for _, entry := range outline.Sections {
				titles = append(titles, entry.Title)
			}
		}

		req := client.CreateProjectRequest{
			Title:        title,
			Topic:        topic,
			DocumentType: model.DocumentType(docType),
		}
		for i, t := range titles {
			req.Sections = append(req.Sections, client.SectionInput{Title: t, Order: i})
		}
		project, err := api.CreateProject(cmd.Context(), req)
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Created project #%d with %d sections", project.ID, len(project.Sections))
		return nil
	},
}

func init() {
	createCmd.Flags().String("title", "", "project title")
	createCmd.Flags().String("topic", "", "main topic")
	createCmd.Flags().String("type", string(model.DocumentTypeDocx), "document type: docx or pptx")
	createCmd.Flags().StringArray("section", nil, "section title, repeat for each section")
	createCmd.Flags().Int("outline", 0, "generate this many section titles with AI")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("topic")
}

// --- outline ---

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Suggest section titles for a topic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		docType, _ := cmd.Flags().GetString("type")
		count, _ := cmd.Flags().GetInt("count")

		outline, err := newAPIClient().GenerateOutline(cmd.Context(), topic, model.DocumentType(docType), count)
		if err != nil {
			return err
		}
		for _, entry := range outline.Sections {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", entry.Order+1, entry.Title)
		}
		return nil
	},
}

func init() {
	outlineCmd.Flags().String("topic", "", "main topic")
	outlineCmd.Flags().String("type", string(model.DocumentTypeDocx), "document type: docx or pptx")
	outlineCmd.Flags().Int("count", 5, "number of sections (3-15)")
	_ = outlineCmd.MarkFlagRequired("topic")
}

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate <project> [section]",
	Short: "Generate all sections, or regenerate one",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		api := newAPIClient()
		if len(args) == 2 {
			sectionID, err := parseID(args[1], "section")
			if err != nil {
				return err
			}
			section, err := api.GenerateSection(cmd.Context(), projectID, sectionID)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Regenerated %q", section.Title)
			return nil
		}

		project, err := api.GenerateProject(cmd.Context(), projectID)
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Generated %d sections", len(project.Sections))
		return nil
	},
}

// --- edit ---

var editCmd = &cobra.Command{
	Use:   "edit <project> <section>",
	Short: "Edit a section title or content by hand",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch editor.SectionPatch
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = editor.Text(title)
		}
		if cmd.Flags().Changed("content") {
			content, _ := cmd.Flags().GetString("content")
			patch.Content = editor.Text(content)
		}
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			patch.Content = editor.Text(string(data))
		}
		if patch.Title == nil && patch.Content == nil {
			return fmt.Errorf("one of --title, --content or --file is required")
		}

		ws, controller, err := openSection(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		defer ws.Close()
		defer reportUpdates(ws, cmd.OutOrStdout())()
		if err := controller.SaveEdit(cmd.Context(), patch); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Section saved")
		return nil
	},
}

func init() {
	editCmd.Flags().String("title", "", "new section title")
	editCmd.Flags().String("content", "", "new section content")
	editCmd.Flags().String("file", "", "read new content from a file")
}

// --- refine ---

var refineCmd = &cobra.Command{
	Use:   "refine <project> <section>",
	Short: "Preview an AI refinement and accept or reject it",
	Long: `Preview an AI refinement side by side with the current content.

Examples:
  docctl refine 1 3 --prompt "make it more formal"
  docctl refine 1 3 --prompt "shorter" --yes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, _ := cmd.Flags().GetString("prompt")
		yes, _ := cmd.Flags().GetBool("yes")
		reject, _ := cmd.Flags().GetBool("reject")
		if yes && reject {
			return fmt.Errorf("--yes and --reject cannot be used together")
		}

		ws, controller, err := openSection(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		defer ws.Close()
		defer reportUpdates(ws, cmd.OutOrStdout())()

		candidate, err := controller.RequestPreview(cmd.Context(), prompt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderPreview(candidate))

		accept := yes
		if !yes && !reject {
			accept = confirm(cmd.InOrStdin(), out, "Accept this refinement?")
		}
		if !accept {
			if err := controller.Reject(); err != nil {
				return err
			}
			fmt.Fprintln(out, mutedStyle.Render("Refinement discarded."))
			return nil
		}
		if err := controller.Accept(cmd.Context()); err != nil {
			return err
		}
		printSuccess(out, "Refinement applied")
		return nil
	},
}

func init() {
	refineCmd.Flags().String("prompt", "", "refinement instruction")
	refineCmd.Flags().Bool("yes", false, "accept the preview without asking")
	refineCmd.Flags().Bool("reject", false, "show the preview and discard it")
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history <project> <section>",
	Short: "Show refinement history, newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, controller, err := openSection(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		defer ws.Close()

		records, err := ws.History().LoadHistory(cmd.Context(), controller.SectionID())
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("⚠ "+err.Error()))
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
		return nil
	},
}

// --- restore ---

var restoreCmd = &cobra.Command{
	Use:   "restore <project> <section> <refinement>",
	Short: "Restore the content a refinement replaced",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		refinementID, err := parseID(args[2], "refinement")
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		ws, controller, err := openSection(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		defer ws.Close()
		defer reportUpdates(ws, cmd.OutOrStdout())()

		records, err := ws.History().LoadHistory(cmd.Context(), controller.SectionID())
		if err != nil {
			return err
		}
		var record *model.Refinement
		for i := range records {
			if records[i].ID == refinementID {
				record = &records[i]
				break
			}
		}
		if record == nil {
			return &editor.NotFoundError{Kind: "refinement", ID: refinementID}
		}

		out := cmd.OutOrStdout()
		restored, err := ws.History().Restore(cmd.Context(), controller, *record, func(r model.Refinement) bool {
			if yes {
				return true
			}
			fmt.Fprintln(out, boxStyle.Render(r.PreviousContent))
			return confirm(cmd.InOrStdin(), out, "Replace the current content with this version?")
		})
		if err != nil {
			return err
		}
		if !restored {
			fmt.Fprintln(out, mutedStyle.Render("Restore cancelled."))
			return nil
		}
		printSuccess(out, "Restored version #%d", record.ID)
		return nil
	},
}

func init() {
	restoreCmd.Flags().Bool("yes", false, "restore without asking")
}

// --- feedback ---

var feedbackCmd = &cobra.Command{
	Use:   "feedback <project> <section>",
	Short: "Show or set feedback on a section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		like, _ := cmd.Flags().GetBool("like")
		dislike, _ := cmd.Flags().GetBool("dislike")
		clearReaction, _ := cmd.Flags().GetBool("clear")

		ws, controller, err := openSection(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		defer ws.Close()
		sectionID := controller.SectionID()
		collector := ws.Feedback()

		switch {
		case like:
			err = collector.SetReaction(cmd.Context(), sectionID, model.FeedbackLike)
		case dislike:
			err = collector.SetReaction(cmd.Context(), sectionID, model.FeedbackDislike)
		case clearReaction:
			err = collector.SetReaction(cmd.Context(), sectionID, model.FeedbackNone)
		}
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("comment") {
			comment, _ := cmd.Flags().GetString("comment")
			if err := collector.SetComment(cmd.Context(), sectionID, comment); err != nil {
				return err
			}
		}

		current, ok := collector.Current(sectionID)
		fmt.Fprintln(cmd.OutOrStdout(), renderFeedback(current, ok))

		if showComments, _ := cmd.Flags().GetBool("comments"); showComments {
			comments, err := collector.Comments(cmd.Context(), sectionID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderComments(comments))
		}
		return nil
	},
}

func init() {
	feedbackCmd.Flags().Bool("like", false, "mark the section as liked")
	feedbackCmd.Flags().Bool("dislike", false, "mark the section as disliked")
	feedbackCmd.Flags().Bool("clear", false, "clear the reaction")
	feedbackCmd.Flags().String("comment", "", "add a comment")
	feedbackCmd.Flags().Bool("comments", false, "list all comments, newest first")
	feedbackCmd.MarkFlagsMutuallyExclusive("like", "dislike", "clear")
}
