package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/query_plan.md
var queryPlanPromptRaw string

//go:embed prompts/summary.md
var summaryPromptRaw string

//go:embed prompts/relevance.md
var relevancePromptRaw string

// Prompt templates, parsed once at package init and reused on every call.
var (
	queryPlanTemplate = template.Must(template.New("query_plan").Parse(queryPlanPromptRaw))
	summaryTemplate   = template.Must(template.New("summary").Parse(summaryPromptRaw))
	relevanceTemplate = template.Must(template.New("relevance").Parse(relevancePromptRaw))
)

// summarySystem is the fixed system instruction for the summarizer.
const summarySystem = `You are an assistant that analyzes job postings.
Summarize each posting into:
1. Key Requirements - technical skills, degrees, certifications, and experience required.
2. Role Details - main responsibilities, daily tasks, and objectives.
Keep it concise in bullet points.`
