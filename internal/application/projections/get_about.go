package projections

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// aboutMarkdown is the static about page body.
const aboutMarkdown = `A web application for managing and visualizing timetables for educational institutions. It enables administrators to create and manage timetables while allowing students to view schedules in an interactive format.

## Key Features

- Automatic clash-free timetable generation
- Faculty availability management
- Room and resource allocation
- Scalable for multiple departments
`

// mdRenderer escapes raw HTML in its input (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// AboutView is the static about page.
type AboutView struct {
	Title   string
	Content template.HTML
}

// QueryAbout renders the about page content. It needs no session.
// PRE: none
// POST: Content is sanitized HTML
func QueryAbout() (AboutView, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(aboutMarkdown), &buf); err != nil {
		return AboutView{}, fmt.Errorf("render about page: %w", err)
	}
	return AboutView{
		Title:   "Timetable Management System",
		Content: template.HTML(buf.String()),
	}, nil
}
