package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsmigrate/internal/domain"
)

func TestParseTree_PreservesKeyOrder(t *testing.T) {
	tree, err := ParseTree([]byte(`{"zeta":"z","alpha":{"b":"1","a":"2"},"mid":3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, tree.Keys())
	sub, ok := tree.Subtree("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, sub.Keys())

	v, _ := tree.Get("mid")
	assert.Equal(t, json.RawMessage("3"), v)
}

func TestParseTree_DuplicateKeyLastValueWins(t *testing.T) {
	tree, err := ParseTree([]byte(`{"a":"first","b":"x","a":"second"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tree.Keys())
	v, _ := tree.Get("a")
	assert.Equal(t, "second", v)
}

func TestParseTree_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `["a"]`},
		{"string", `"hello"`},
		{"truncated", `{"a":`},
		{"trailing", `{"a":"b"} {}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTree([]byte(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := ParseTree([]byte(`[1,2]`))
	assert.ErrorIs(t, err, domain.ErrInvalidTree)
}

func TestTree_EncodeFormat(t *testing.T) {
	tree, err := ParseTree([]byte(`{"b":{"c":"<b>bold</b> & more"},"a":[1, 2],"n":null}`))
	require.NoError(t, err)

	out, err := tree.Encode()
	require.NoError(t, err)

	want := "{\n" +
		"  \"b\": {\n" +
		"    \"c\": \"<b>bold</b> & more\"\n" +
		"  },\n" +
		"  \"a\": [\n" +
		"    1,\n" +
		"    2\n" +
		"  ],\n" +
		"  \"n\": null\n" +
		"}\n"
	assert.Equal(t, want, string(out))
}

func TestTree_EncodeEmpty(t *testing.T) {
	out, err := NewTree().Encode()
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}

func TestTree_SetKeepsPosition(t *testing.T) {
	tree := NewTree()
	tree.Set("a", "1")
	tree.Set("b", "2")
	tree.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, tree.Keys())
	v, _ := tree.Get("a")
	assert.Equal(t, "3", v)

	tree.Delete("a")
	assert.Equal(t, []string{"b"}, tree.Keys())
	tree.Delete("missing")
	assert.Equal(t, 1, tree.Len())
}

func TestTree_CloneIsDeep(t *testing.T) {
	tree, err := ParseTree([]byte(`{"a":{"b":"x"}}`))
	require.NoError(t, err)

	clone := tree.Clone()
	sub, _ := clone.Subtree("a")
	sub.Set("b", "changed")

	orig, _ := tree.Subtree("a")
	v, _ := orig.Get("b")
	assert.Equal(t, "x", v)
	assert.False(t, tree.Equal(clone))
}

func TestTree_EqualIgnoresOrderAndSpacing(t *testing.T) {
	a, err := ParseTree([]byte(`{"x":[1,2],"y":{"p":"q"}}`))
	require.NoError(t, err)
	b, err := ParseTree([]byte(`{"y":{"p":"q"},"x":[ 1, 2 ]}`))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))

	c, err := ParseTree([]byte(`{"y":{"p":"q"},"x":"[1,2]"}`))
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

func TestTree_JSONRoundTrip(t *testing.T) {
	src := `{"title":"Hi","nested":{"deep":{"k":true}},"count":1.5}`
	var tree Tree
	require.NoError(t, json.Unmarshal([]byte(src), &tree))

	out, err := json.Marshal(&tree)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
	assert.Equal(t, []string{"title", "nested", "count"}, tree.Keys())
}
