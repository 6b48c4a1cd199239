package templating

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderFrontMatter(t *testing.T) {
	engine := NewEngine("My Book", WithClock(fixedClock))

	t.Run("keeps declared order and list items", func(t *testing.T) {
		props := Properties{
			Scalar("title", "{chapter_name}"),
			List("tags", "book/{book_name}", "highlights"),
			Scalar("created", "{today_date}"),
		}

		rendered, err := engine.RenderFrontMatter(props, Context{ChapterName: "Intro"})
		require.NoError(t, err)
		assert.Equal(t, "---\n"+
			"title: Intro\n"+
			"tags:\n"+
			"  - book/My Book\n"+
			"  - highlights\n"+
			"created: 2024-03-05\n"+
			"---\n", rendered)
	})

	t.Run("nil properties render empty delimiters", func(t *testing.T) {
		rendered, err := engine.RenderFrontMatter(nil, Context{})
		require.NoError(t, err)
		assert.Equal(t, "---\n---\n", rendered)
	})

	t.Run("empty list renders only the key", func(t *testing.T) {
		rendered, err := engine.RenderFrontMatter(Properties{List("aliases")}, Context{})
		require.NoError(t, err)
		assert.Equal(t, "---\naliases:\n---\n", rendered)
	})

	t.Run("missing context in a list item fails", func(t *testing.T) {
		props := Properties{List("tags", "{highlight_number}")}
		_, err := engine.RenderFrontMatter(props, Context{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
		assert.Contains(t, err.Error(), `property "tags"`)
	})

	t.Run("missing context in a scalar fails", func(t *testing.T) {
		props := Properties{Scalar("chapter", "{chapter_name}")}
		_, err := engine.RenderFrontMatter(props, Context{})
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})
}

func TestPropertiesUnmarshalYAML(t *testing.T) {
	t.Run("preserves key order from json", func(t *testing.T) {
		var props Properties
		err := yaml.Unmarshal([]byte(`{"zeta": "z", "alpha": ["a", "b"], "mid": "{book_name}"}`), &props)
		require.NoError(t, err)

		assert.Equal(t, Properties{
			Scalar("zeta", "z"),
			List("alpha", "a", "b"),
			Scalar("mid", "{book_name}"),
		}, props)
	})

	t.Run("preserves key order from yaml", func(t *testing.T) {
		var props Properties
		err := yaml.Unmarshal([]byte("b: 1\na:\n  - x\nc: true\n"), &props)
		require.NoError(t, err)

		assert.Equal(t, Properties{
			Scalar("b", "1"),
			List("a", "x"),
			Scalar("c", "true"),
		}, props)
	})

	t.Run("null decodes to nil", func(t *testing.T) {
		var holder struct {
			Props Properties `yaml:"props"`
		}
		require.NoError(t, yaml.Unmarshal([]byte("props: null\n"), &holder))
		assert.Nil(t, holder.Props)
	})

	t.Run("rejects nested mappings", func(t *testing.T) {
		var props Properties
		err := yaml.Unmarshal([]byte("meta:\n  nested: x\n"), &props)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `property "meta"`)
	})

	t.Run("rejects non-mapping values", func(t *testing.T) {
		var props Properties
		err := yaml.Unmarshal([]byte("- a\n- b\n"), &props)
		require.Error(t, err)
	})
}

func TestPropertiesUnmarshalJSON(t *testing.T) {
	t.Run("preserves key order", func(t *testing.T) {
		var props Properties
		err := json.Unmarshal([]byte(`{"zeta": "z", "alpha": ["a", "b"], "mid": "{book_name}", "n": 12}`), &props)
		require.NoError(t, err)

		assert.Equal(t, Properties{
			Scalar("zeta", "z"),
			List("alpha", "a", "b"),
			Scalar("mid", "{book_name}"),
			Scalar("n", "12"),
		}, props)
	})

	t.Run("decodes escapes outside the basic plane", func(t *testing.T) {
		var props Properties
		require.NoError(t, json.Unmarshal([]byte(`{"icon": "\ud83d\udcda"}`), &props))
		assert.Equal(t, Properties{Scalar("icon", "\U0001F4DA")}, props)
	})

	t.Run("null decodes to nil", func(t *testing.T) {
		var holder struct {
			Props Properties `json:"props"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"props": null}`), &holder))
		assert.Nil(t, holder.Props)
	})

	t.Run("rejects nested objects", func(t *testing.T) {
		var props Properties
		err := json.Unmarshal([]byte(`{"meta": {"nested": "x"}}`), &props)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `property "meta"`)
	})

	t.Run("rejects objects inside lists", func(t *testing.T) {
		var props Properties
		err := json.Unmarshal([]byte(`{"tags": [{"a": 1}]}`), &props)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `property "tags"`)
	})

	t.Run("rejects non-object values", func(t *testing.T) {
		var props Properties
		assert.Error(t, json.Unmarshal([]byte(`["a", "b"]`), &props))
	})
}
