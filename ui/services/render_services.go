package services

import (
	"html/template"
	"strings"

	"askmydata/domain/interaction"
	"askmydata/domain/session"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderService turns bot answers into HTML. Answers are markdown built from
// uploaded cell values, so raw HTML, links and images are never emitted.
type RenderService struct{}

func NewRenderService() *RenderService {
	return &RenderService{}
}

const answerFlags = html.CommonFlags | html.SkipHTML | html.SkipLinks | html.SkipImages

// Markdown renders text as sanitized HTML. Link syntax keeps its text but
// loses the destination.
func (s *RenderService) Markdown(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: answerFlags})
	out := markdown.ToHTML([]byte(text), p, renderer)
	return template.HTML(strings.TrimSpace(string(out)))
}

// MessageView is a transcript line ready for the template
type MessageView struct {
	Sender string
	IsBot  bool
	Text   string
	HTML   template.HTML
}

// HistoryView is a log record ready for the template
type HistoryView struct {
	Timestamp  string
	Question   string
	AnswerHTML template.HTML
}

// RenderTranscript prepares the session transcript
func (s *RenderService) RenderTranscript(msgs []session.Message) []MessageView {
	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		v := MessageView{Sender: string(m.Sender), Text: m.Text, IsBot: m.Sender == session.SenderBot}
		if v.IsBot {
			v.HTML = s.Markdown(m.Text)
		}
		out = append(out, v)
	}
	return out
}

// RenderHistory prepares log records, which must already be latest first
func (s *RenderService) RenderHistory(records []interaction.Record) []HistoryView {
	out := make([]HistoryView, 0, len(records))
	for _, r := range records {
		out = append(out, HistoryView{
			Timestamp:  r.Timestamp,
			Question:   r.Question,
			AnswerHTML: s.Markdown(r.Answer),
		})
	}
	return out
}
