// pkg/cobrax/topics/topics_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testing/fstest, cobra
// PURPOSE: Test topic loading, lookup and the help command

package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"help/storage.md":          {Data: []byte("# Storage\n\nWhere files go")},
		"help/rollback.txt":        {Data: []byte("Rollback details")},
		"help/option-absolute.txt": {Data: []byte("About --absolute")},
		"help/notes.json":          {Data: []byte("{}")},
		"other/outside.txt":        {Data: []byte("not a topic")},
	}
}

func TestLoad(t *testing.T) {
	m, err := Load(testFS(), "help", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"option-absolute", "rollback", "storage"}, m.Names())

	topic, ok := m.Get("storage")
	require.True(t, ok)
	assert.Equal(t, ".md", topic.Ext)
	assert.Equal(t, "# Storage\n\nWhere files go", topic.Content)

	_, ok = m.Get("notes")
	assert.False(t, ok)
	_, ok = m.Get("outside")
	assert.False(t, ok)
}

func TestLoad_CustomExtensions(t *testing.T) {
	m, err := Load(testFS(), "help", Options{Extensions: []string{".json"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes"}, m.Names())
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(testFS(), "nope", Options{})
	assert.Error(t, err)
}

func TestGet_FlagStyle(t *testing.T) {
	m, err := Load(testFS(), "help", Options{})
	require.NoError(t, err)

	for _, name := range []string{"--absolute", "-absolute", "absolute", "option-absolute"} {
		topic, ok := m.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "About --absolute", topic.Content)
	}
}

func TestGlamourRenderer(t *testing.T) {
	r := &GlamourRenderer{Style: "notty", Width: 40}

	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))

	out := r.Render("# Title\n\nSome markdown text", ".md")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "markdown")
}

func TestInstall(t *testing.T) {
	m, err := Load(testFS(), "help", Options{})
	require.NoError(t, err)

	newRoot := func() (*cobra.Command, *bytes.Buffer) {
		var out bytes.Buffer
		root := &cobra.Command{Use: "app", Short: "test app"}
		root.AddCommand(&cobra.Command{Use: "sub", Short: "a subcommand", Run: func(*cobra.Command, []string) {}})
		root.SetOut(&out)
		m.Install(root)
		return root, &out
	}

	t.Run("topic", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "rollback"})
		require.NoError(t, root.Execute())
		assert.Equal(t, "Rollback details", out.String())
	})

	t.Run("topic list", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "General topics:")
		assert.Contains(t, out.String(), "  storage")
		assert.Contains(t, out.String(), "  --absolute")
		assert.Contains(t, out.String(), "'app help <topic>'")
	})

	t.Run("command help", func(t *testing.T) {
		root, out := newRoot()
		root.SetArgs([]string{"help", "sub"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "a subcommand")
	})
}
