// Package templating resolves the placeholders allowed in path and property
// templates and renders front matter blocks from ordered property mappings.
package templating

import (
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/highlights-vault/internal/apperr"
)

const (
	PlaceholderBookName        = "{book_name}"
	PlaceholderTodayDate       = "{today_date}"
	PlaceholderChapterName     = "{chapter_name}"
	PlaceholderHighlightText   = "{highlight_text}"
	PlaceholderHighlightTextSL = "{highlight_text_sl}"
	PlaceholderHighlightNumber = "{highlight_number}"
)

const dateLayout = "2006-01-02"

// Context carries the per-call values a template may reference. A zero field
// counts as absent.
type Context struct {
	ChapterName     string
	HighlightText   string
	HighlightNumber int
}

type Engine struct {
	bookName string
	now      func() time.Time
}

type Option func(*Engine)

// WithClock replaces the clock used for {today_date}.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(bookName string, opts ...Option) *Engine {
	engine := &Engine{
		bookName: bookName,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *Engine) BookName() string {
	return e.bookName
}

// Today returns the current date as used by {today_date}.
func (e *Engine) Today() string {
	return e.now().Format(dateLayout)
}

// Resolve substitutes every placeholder in template. Placeholders are applied
// in a fixed order, each to all of its occurrences. A placeholder whose
// context value is missing fails the whole call with a ValidationError.
func (e *Engine) Resolve(template string, ctx Context) (string, error) {
	value := strings.ReplaceAll(template, PlaceholderBookName, e.bookName)

	if strings.Contains(value, PlaceholderTodayDate) {
		value = strings.ReplaceAll(value, PlaceholderTodayDate, e.Today())
	}

	if strings.Contains(value, PlaceholderChapterName) {
		if ctx.ChapterName == "" {
			return "", &apperr.ValidationError{Field: "chapter_name"}
		}
		value = strings.ReplaceAll(value, PlaceholderChapterName, ctx.ChapterName)
	}

	if strings.Contains(value, PlaceholderHighlightText) {
		if ctx.HighlightText == "" {
			return "", &apperr.ValidationError{Field: "highlight_text"}
		}
		value = strings.ReplaceAll(value, PlaceholderHighlightText, ctx.HighlightText)
	}

	if strings.Contains(value, PlaceholderHighlightTextSL) {
		if ctx.HighlightText == "" {
			return "", &apperr.ValidationError{Field: "highlight_text"}
		}
		value = strings.ReplaceAll(value, PlaceholderHighlightTextSL, SingleLine(ctx.HighlightText))
	}

	if strings.Contains(value, PlaceholderHighlightNumber) {
		if ctx.HighlightNumber == 0 {
			return "", &apperr.ValidationError{Field: "highlight_number"}
		}
		value = strings.ReplaceAll(value, PlaceholderHighlightNumber, strconv.Itoa(ctx.HighlightNumber))
	}

	return value, nil
}

// SingleLine joins a multi-line highlight with single spaces.
func SingleLine(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}
