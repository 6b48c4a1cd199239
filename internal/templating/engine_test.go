package templating

import (
	"errors"
	"testing"
	"time"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.Local)
}

func TestEngineResolve(t *testing.T) {
	engine := NewEngine("My Book", WithClock(fixedClock))

	tests := []struct {
		name     string
		template string
		ctx      Context
		expected string
	}{
		{
			name:     "chapter name and highlight number",
			template: "{chapter_name}-{highlight_number}",
			ctx:      Context{ChapterName: "Intro", HighlightNumber: 3},
			expected: "Intro-3",
		},
		{
			name:     "book name without context",
			template: "Books/{book_name}/{book_name}",
			expected: "Books/My Book/My Book",
		},
		{
			name:     "today date is zero padded",
			template: "created {today_date}",
			expected: "created 2024-03-05",
		},
		{
			name:     "verbatim highlight text keeps newlines",
			template: "> {highlight_text}",
			ctx:      Context{HighlightText: "line one\nline two"},
			expected: "> line one\nline two",
		},
		{
			name:     "single line highlight text",
			template: "{highlight_text_sl}",
			ctx:      Context{HighlightText: "line one\nline two\nline three"},
			expected: "line one line two line three",
		},
		{
			name:     "both highlight text forms in one template",
			template: "{highlight_text}|{highlight_text_sl}",
			ctx:      Context{HighlightText: "a\nb"},
			expected: "a\nb|a b",
		},
		{
			name:     "all placeholders",
			template: "{book_name}/{chapter_name}/{highlight_number} {today_date}",
			ctx:      Context{ChapterName: "One", HighlightNumber: 12},
			expected: "My Book/One/12 2024-03-05",
		},
		{
			name:     "unknown placeholders are left alone",
			template: "{author}",
			expected: "{author}",
		},
		{
			name:     "no placeholders",
			template: "plain",
			expected: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := engine.Resolve(tt.template, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resolved)
		})
	}
}

func TestEngineResolveMissingContext(t *testing.T) {
	engine := NewEngine("My Book", WithClock(fixedClock))

	tests := []struct {
		template string
		ctx      Context
		field    string
	}{
		{template: "{chapter_name}", field: "chapter_name"},
		{template: "{highlight_text}", field: "highlight_text"},
		{template: "{highlight_text_sl}", field: "highlight_text"},
		{template: "{highlight_number}", ctx: Context{ChapterName: "Intro"}, field: "highlight_number"},
		{template: "{book_name} {chapter_name}", ctx: Context{HighlightText: "x"}, field: "chapter_name"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			resolved, err := engine.Resolve(tt.template, tt.ctx)
			require.Error(t, err)
			assert.Empty(t, resolved)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
			assert.Equal(t, tt.field+" is required", err.Error())
		})
	}
}

func TestEngineEmptyBookName(t *testing.T) {
	resolved, err := NewEngine("").Resolve("[{book_name}]", Context{})
	require.NoError(t, err)
	assert.Equal(t, "[]", resolved)
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", SingleLine("a\nb\nc"))
	assert.Equal(t, "abc", SingleLine("abc"))
}
