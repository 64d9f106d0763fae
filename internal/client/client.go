package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/divy-03/DocAI/internal/model"
)

// APIError 后端返回的错误响应
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// IsNotFound 判断错误是否为后端 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client DocAI REST 接口封装
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: 3 * time.Minute},
	}
}

// NewWithHTTPClient 使用自定义 http.Client
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	c := New(baseURL)
	c.httpClient = httpClient
	return c
}

// SectionPatch 章节局部更新，nil 字段不修改
type SectionPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type SectionInput struct {
	Title string `json:"title"`
	Order int    `json:"order"`
}

type CreateProjectRequest struct {
	Title        string             `json:"title"`
	Topic        string             `json:"topic"`
	DocumentType model.DocumentType `json:"document_type"`
	Sections     []SectionInput     `json:"sections"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		data, err := io.ReadAll(resp.Body)
		if err == nil && json.Unmarshal(data, &payload) == nil {
			apiErr.Detail = payload.Error
			if apiErr.Detail == "" {
				apiErr.Detail = payload.Detail
			}
		}
		return apiErr
	}
	if v == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func sectionPath(sectionID uint, action string) string {
	return fmt.Sprintf("/refinement/sections/%d/%s", sectionID, action)
}

func (c *Client) ListProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	var projects []model.ProjectSummary
	err := c.do(ctx, http.MethodGet, "/projects", nil, &projects)
	return projects, err
}

func (c *Client) GetProject(ctx context.Context, projectID uint) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", projectID), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, http.MethodPost, "/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", projectID), nil, nil)
}

func (c *Client) UpdateSection(ctx context.Context, sectionID uint, patch SectionPatch) (*model.Section, error) {
	var section model.Section
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sections/%d", sectionID), patch, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) GenerateProject(ctx context.Context, projectID uint) (*model.Project, error) {
	var project model.Project
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/generation/projects/%d/generate", projectID), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) GenerateSection(ctx context.Context, projectID, sectionID uint) (*model.Section, error) {
	var section model.Section
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/generation/projects/%d/generate/%d", projectID, sectionID), nil, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) GenerateOutline(ctx context.Context, topic string, documentType model.DocumentType, count int) (*model.Outline, error) {
	query := url.Values{}
	query.Set("topic", topic)
	query.Set("document_type", string(documentType))
	query.Set("section_count", strconv.Itoa(count))

	var outline model.Outline
	if err := c.do(ctx, http.MethodPost, "/generation/outline/generate?"+query.Encode(), nil, &outline); err != nil {
		return nil, err
	}
	return &outline, nil
}

// PreviewRefinement 请求精修预览，不修改章节
func (c *Client) PreviewRefinement(ctx context.Context, sectionID uint, prompt string) (*model.RefinementPreview, error) {
	var preview model.RefinementPreview
	body := map[string]string{"prompt": prompt}
	if err := c.do(ctx, http.MethodPost, sectionPath(sectionID, "refine-preview"), body, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// AcceptRefinement 保存预览内容，后端同时追加历史
func (c *Client) AcceptRefinement(ctx context.Context, sectionID uint, prompt, content string) (*model.Section, error) {
	var section model.Section
	body := map[string]string{"prompt": prompt, "content": content}
	if err := c.do(ctx, http.MethodPost, sectionPath(sectionID, "refine-accept"), body, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) RestoreRefinement(ctx context.Context, sectionID, refinementID uint) (*model.Section, error) {
	var section model.Section
	body := map[string]uint{"refinement_id": refinementID}
	if err := c.do(ctx, http.MethodPost, sectionPath(sectionID, "restore"), body, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (c *Client) ListRefinements(ctx context.Context, sectionID uint) ([]model.Refinement, error) {
	var records []model.Refinement
	err := c.do(ctx, http.MethodGet, sectionPath(sectionID, "refinements"), nil, &records)
	return records, err
}

func (c *Client) AddFeedback(ctx context.Context, sectionID uint, feedbackType model.FeedbackType, comment string) (*model.Feedback, error) {
	var feedback model.Feedback
	body := map[string]string{"feedback_type": string(feedbackType), "comment": comment}
	if err := c.do(ctx, http.MethodPost, sectionPath(sectionID, "feedback"), body, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (c *Client) ListFeedback(ctx context.Context, sectionID uint) ([]model.Feedback, error) {
	var list []model.Feedback
	err := c.do(ctx, http.MethodGet, sectionPath(sectionID, "feedback"), nil, &list)
	return list, err
}

func (c *Client) SectionDetails(ctx context.Context, sectionID uint) (*model.SectionDetail, error) {
	var detail model.SectionDetail
	if err := c.do(ctx, http.MethodGet, sectionPath(sectionID, "details"), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
