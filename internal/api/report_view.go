package api

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"interviewbuddy/domain/interview"
)

// ReportMarkdown lays a report out as a Markdown document.
func ReportMarkdown(r *interview.Report) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Interview Report: %s\n\n", escapeMarkdown(r.Setup.JobRole))
	fmt.Fprintf(&b, "- **Date:** %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "- **Domain:** %s\n", escapeMarkdown(r.Setup.Domain))
	fmt.Fprintf(&b, "- **Interview type:** %s\n", r.Setup.InterviewType)
	fmt.Fprintf(&b, "- **Overall score:** %.1f / 10\n\n", r.Results.OverallScore)

	if len(r.Results.CategoryScores) > 0 {
		b.WriteString("## Category Scores\n\n| Category | Score |\n|---|---|\n")
		cats := make([]string, 0, len(r.Results.CategoryScores))
		for c := range r.Results.CategoryScores {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(&b, "| %s | %.1f |\n", escapeMarkdown(c), r.Results.CategoryScores[c])
		}
		b.WriteString("\n")
	}

	writeList(&b, "Strengths", r.Results.Strengths)
	writeList(&b, "Areas to Improve", r.Results.Weaknesses)
	writeList(&b, "Recommendations", r.Results.Recommendations)

	b.WriteString("## Questions\n\n")
	for i, qr := range r.Results.QuestionsResults {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, escapeMarkdown(qr.Question))
		answer := qr.UserAnswer
		if strings.TrimSpace(answer) == "" {
			answer = "_No answer_"
		} else {
			answer = escapeMarkdown(answer)
		}
		fmt.Fprintf(&b, "**Your answer:** %s\n\n", answer)
		if qr.CorrectAnswer != "" {
			fmt.Fprintf(&b, "**Correct answer:** %s\n\n", escapeMarkdown(qr.CorrectAnswer))
		}
		fmt.Fprintf(&b, "**Score:** %d / 10 (%s)\n\n", qr.Score, escapeMarkdown(qr.Category))
		fmt.Fprintf(&b, "%s\n\n", escapeMarkdown(qr.Feedback))
	}

	writeList(&b, "Suggested Resources", r.Results.SuggestedResources)
	return b.Bytes()
}

// RenderReportHTML renders the Markdown layout as a standalone page.
func RenderReportHTML(r *interview.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Interview Report",
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML | html.HrefTargetBlank,
	})
	return markdown.ToHTML(ReportMarkdown(r), p, renderer)
}

func writeList(b *bytes.Buffer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", escapeMarkdown(it))
	}
	b.WriteString("\n")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", "&lt;", ">", "&gt;", "|", `\|`, "#", `\#`, "\n", " ",
)

// escapeMarkdown keeps candidate text from being read as markup.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
