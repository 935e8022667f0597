package sourcecode

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceNamespaceList(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		want string
	}{
		{
			name: "single line",
			path: "i18n.js",
			src:  "export const namespaces = [\"ui\", \"shared\"];\nexport default {};\n",
			want: "export const namespaces = [\"common\", \"ui-common\"];\nexport default {};\n",
		},
		{
			name: "multi line as const",
			path: "i18n.ts",
			src: "export const namespaces = [\n" +
				"    'ui',\n" +
				"    'shared',\n" +
				"] as const;\n",
			want: "export const namespaces = [\n" +
				"    'common',\n" +
				"    'ui-common',\n" +
				"] as const;\n",
		},
		{
			name: "multi line without trailing comma",
			path: "config.ts",
			src: "const other = ['x'];\n" +
				"  const namespaces = [\n" +
				"    'ui'\n" +
				"  ];\n",
			want: "const other = ['x'];\n" +
				"  const namespaces = [\n" +
				"    'common',\n" +
				"    'ui-common'\n" +
				"  ];\n",
		},
	}
	s := newScanner(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed, err := s.ReplaceNamespaceList(context.Background(), tt.path, []byte(tt.src), "namespaces", []string{"common", "ui-common"})
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestReplaceNamespaceList_Unchanged(t *testing.T) {
	s := newScanner(t)
	src := "export const namespaces = ['common', 'ui-common'];\n"

	out, changed, err := s.ReplaceNamespaceList(context.Background(), "i18n.ts", []byte(src), "namespaces", []string{"common", "ui-common"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, src, string(out))
}

func TestReplaceNamespaceList_Errors(t *testing.T) {
	s := newScanner(t)
	ctx := context.Background()

	_, _, err := s.ReplaceNamespaceList(ctx, "i18n.ts", []byte("export const other = [];\n"), "namespaces", nil)
	assert.Error(t, err)

	_, _, err = s.ReplaceNamespaceList(ctx, "i18n.ts", []byte("export const namespaces = [...base, 'x'];\n"), "namespaces", nil)
	assert.Error(t, err)
}

func TestUpdateNamespaceList(t *testing.T) {
	s := newScanner(t)
	path := writeSource(t, t.TempDir(), "i18n.ts", "export const namespaces = ['ui'];\n")

	changed, err := s.UpdateNamespaceList(context.Background(), path, []string{"ui-common"}, true)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export const namespaces = ['ui-common'];\n", string(data))
}
