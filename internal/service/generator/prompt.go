package generator

import (
	"fmt"
	"strings"

	"github.com/divy-03/DocAI/internal/model"
)

const systemPrompt = "You are a professional writer helping users author structured documents and presentations. " +
	"Answer with the requested content only, without preamble, explanations or surrounding markdown fences."

func sectionPrompt(req SectionRequest, wordCount int) string {
	var sb strings.Builder
	if req.DocumentType == model.DocumentTypePptx {
		sb.WriteString("Create concise, impactful slide content.\n\n")
		fmt.Fprintf(&sb, "Presentation Topic: %s\n", req.Topic)
		fmt.Fprintf(&sb, "Slide Title: %s\n", req.SectionTitle)
		if req.Context != "" {
			fmt.Fprintf(&sb, "Previous Slides Context: %s\n", req.Context)
		}
		sb.WriteString("\nWrite bullet-point content for this slide:\n")
		sb.WriteString("- 3 to 5 bullet points\n")
		sb.WriteString("- each point one or two sentences\n")
		fmt.Fprintf(&sb, "- roughly %d words in total\n", wordCount)
		sb.WriteString("- continue logically from the previous slides\n")
		return sb.String()
	}

	sb.WriteString("Write high-quality document content for one section.\n\n")
	fmt.Fprintf(&sb, "Document Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Section Title: %s\n", req.SectionTitle)
	if req.Context != "" {
		fmt.Fprintf(&sb, "Previous Sections Context: %s\n", req.Context)
	}
	sb.WriteString("\nRequirements:\n")
	fmt.Fprintf(&sb, "- approximately %d words\n", wordCount)
	sb.WriteString("- clear, formal language with relevant details and examples\n")
	sb.WriteString("- smooth transition from the previous sections\n")
	sb.WriteString("- proper paragraphs, no section title\n")
	return sb.String()
}

func outlinePrompt(topic string, documentType model.DocumentType, count int) string {
	unit := "section"
	if documentType == model.DocumentTypePptx {
		unit = "slide"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a %s outline for the topic: %s\n\n", strings.ToLower(documentType.SectionLabel()), topic)
	fmt.Fprintf(&sb, "Create exactly %d %s titles that form a logical structure from introduction to conclusion.\n", count, unit)
	sb.WriteString("Return only the titles, one per line, numbered like \"1. Introduction\".\n")
	return sb.String()
}

func refinePrompt(original, instruction string) string {
	var sb strings.Builder
	sb.WriteString("Refine existing content based on user feedback.\n\n")
	sb.WriteString("Original Content:\n")
	sb.WriteString(original)
	sb.WriteString("\n\nUser's Refinement Request:\n")
	sb.WriteString(instruction)
	sb.WriteString("\n\nRewrite the content so that it:\n")
	sb.WriteString("- addresses the refinement request\n")
	sb.WriteString("- keeps the overall structure, flow and approximate length\n")
	sb.WriteString("- stays relevant to the section topic\n")
	return sb.String()
}
