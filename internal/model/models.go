package model

import (
	"strings"
	"time"
)

// DocumentType 文档类型
type DocumentType string

const (
	DocumentTypeDocx DocumentType = "docx"
	DocumentTypePptx DocumentType = "pptx"
)

// Valid 判断文档类型是否在允许范围内
func (t DocumentType) Valid() bool {
	return t == DocumentTypeDocx || t == DocumentTypePptx
}

// SectionLabel 章节在该文档类型下的称呼
func (t DocumentType) SectionLabel() string {
	if t == DocumentTypePptx {
		return "Slide"
	}
	return "Section"
}

// FeedbackType 反馈类型，空值表示未表态
type FeedbackType string

const (
	FeedbackNone    FeedbackType = ""
	FeedbackLike    FeedbackType = "like"
	FeedbackDislike FeedbackType = "dislike"
)

func (t FeedbackType) Valid() bool {
	return t == FeedbackNone || t == FeedbackLike || t == FeedbackDislike
}

// RefinementKind 历史记录类型
type RefinementKind string

const (
	RefinementKindRefine  RefinementKind = "refine"
	RefinementKindRestore RefinementKind = "restore"
)

type Project struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Title        string       `json:"title" gorm:"size:255;not null"`
	Topic        string       `json:"topic" gorm:"size:1000;not null"`
	DocumentType DocumentType `json:"document_type" gorm:"size:10;not null"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Sections     []Section    `json:"sections" gorm:"foreignKey:ProjectID"`
}

// ProjectSummary 项目列表项，带章节数量
type ProjectSummary struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Topic        string       `json:"topic"`
	DocumentType DocumentType `json:"document_type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	SectionCount int          `json:"section_count"`
}

type Section struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	Order     int       `json:"order" gorm:"column:sort_order;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasContent 章节是否已生成内容
func (s *Section) HasContent() bool {
	return strings.TrimSpace(s.Content) != ""
}

// Refinement 章节内容的历史记录，只追加
// PreviousContent 为本次变更前的完整内容快照
type Refinement struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	SectionID       uint           `json:"section_id" gorm:"index;not null"`
	Kind            RefinementKind `json:"kind" gorm:"size:20;not null;default:refine"`
	Prompt          string         `json:"prompt" gorm:"type:text;not null"`
	PreviousContent string         `json:"previous_content" gorm:"type:text;not null"`
	NewContent      string         `json:"new_content" gorm:"type:text;not null"`
	RestoredFromID  *uint          `json:"restored_from_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Feedback 章节反馈，只追加，最新一条即当前反馈
type Feedback struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	SectionID    uint         `json:"section_id" gorm:"index;not null"`
	FeedbackType FeedbackType `json:"feedback_type" gorm:"size:10"`
	Comment      string       `json:"comment" gorm:"type:text"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TableName 指定表名
func (Feedback) TableName() string {
	return "feedback"
}

// SectionDetail 章节及其历史与反馈
type SectionDetail struct {
	Section
	Refinements     []Refinement `json:"refinements"`
	Feedback        []Feedback   `json:"feedback"`
	CurrentFeedback *Feedback    `json:"current_feedback"`
}

// RefinementPreview 精修预览，不落库
type RefinementPreview struct {
	OriginalContent string `json:"original_content"`
	RefinedContent  string `json:"refined_content"`
}

// Outline AI 生成的大纲
type Outline struct {
	Topic        string         `json:"topic"`
	DocumentType DocumentType   `json:"document_type"`
	Sections     []OutlineEntry `json:"sections"`
}

type OutlineEntry struct {
	Title string `json:"title"`
	Order int    `json:"order"`
}
