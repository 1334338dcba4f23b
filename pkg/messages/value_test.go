package messages_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/granddom/site/pkg/messages"
)

func TestFromAny(t *testing.T) {
	t.Parallel()

	t.Run("converts nested data", func(t *testing.T) {
		t.Parallel()
		v, err := messages.FromAny(map[string]any{
			"title": "Hi",
			"count": 3,
			"items": []any{"a", map[string]any{"b": true}},
			"yaml":  map[any]any{1: "one"},
		})
		require.NoError(t, err)
		require.Equal(t, messages.KindMap, v.Kind())
		require.Equal(t, []string{"count", "items", "title", "yaml"}, v.Keys())

		items, ok := v.Field("items")
		require.True(t, ok)
		require.Equal(t, 2, items.Len())

		yamlMap, _ := v.Field("yaml")
		one, ok := yamlMap.Field("1")
		require.True(t, ok)
		require.Equal(t, "one", one.Text())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		t.Parallel()
		_, err := messages.FromAny(map[string]any{"ch": make(chan int)})
		require.ErrorIs(t, err, messages.ErrUnsupportedType)
	})
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	require.True(t, messages.Null.IsNull())
	require.Equal(t, "null", messages.Null.Kind().String())
	require.Equal(t, "2.5", messages.Number(2.5).Text())
	require.Equal(t, "12", messages.Number(12).Text())
	require.Empty(t, messages.Strings("a").Text())

	_, ok := messages.String("x").Num()
	require.False(t, ok)
	require.Nil(t, messages.String("x").Items())
	require.Nil(t, messages.String("x").Keys())

	b, ok := messages.Bool(false).Boolean()
	require.True(t, ok)
	require.False(t, b)
}

func TestValue_ImmutableConstructors(t *testing.T) {
	t.Parallel()

	items := []messages.Value{messages.String("a")}
	list := messages.List(items...)
	items[0] = messages.String("changed")
	require.Equal(t, "a", list.Items()[0].Text())

	src := map[string]messages.Value{"k": messages.String("v")}
	m := messages.Map(src)
	src["k"] = messages.String("changed")
	got, _ := m.Field("k")
	require.Equal(t, "v", got.Text())
}

func TestDocument_JSON(t *testing.T) {
	t.Parallel()

	doc, err := messages.DecodeJSON([]byte(`{"seo":{"title":"GrandDom","rank":1},"list":["a","b"]}`))
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.JSONEq(t, `{"seo":{"title":"GrandDom","rank":1},"list":["a","b"]}`, string(data))

	var decoded *messages.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "GrandDom", messages.GetString(decoded, messages.P("seo", "title"), ""))
	require.Equal(t, []string{"a", "b"}, messages.GetStrings(decoded, messages.P("list"), nil))

	var bad messages.Document
	require.ErrorIs(t, json.Unmarshal([]byte(`["x"]`), &bad), messages.ErrNotAnObject)
}
