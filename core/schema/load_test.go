package schema_test

import (
	"testing"

	"entity-store/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_YAML(t *testing.T) {
	reg, err := schema.LoadFile("testdata/schema.yaml")
	require.NoError(t, err)

	assert.Len(t, reg.Types(), 6)

	messages, err := reg.Lookup("messages")
	require.NoError(t, err)
	assert.Equal(t, "url", messages.IDAttribute)
	assert.Equal(t, schema.Relations{
		{Attribute: "user", Type: "users"},
		{Attribute: "discussion", Type: "discussions"},
	}, messages.ForeignKey)

	discussions, err := reg.Lookup("discussions")
	require.NoError(t, err)
	require.NotNil(t, discussions.Parse)
	attr, reverse := discussions.Order()
	assert.Equal(t, "title", attr)
	assert.True(t, reverse)

	members, err := reg.Lookup("members")
	require.NoError(t, err)
	assert.Empty(t, members.URL)
}

func TestLoadFile_JSONKeepsRelationOrder(t *testing.T) {
	reg, err := schema.LoadFile("testdata/schema.json")
	require.NoError(t, err)

	d, err := reg.Lookup("discussions")
	require.NoError(t, err)
	assert.Equal(t, schema.Relations{
		{Attribute: "message", Type: "messages"},
		{Attribute: "author", Type: "users"},
	}, d.ForeignKey)

	u, err := reg.Lookup("users")
	require.NoError(t, err)
	assert.Equal(t, "username", u.IDAttribute)
}

func TestLoadFile_CUE(t *testing.T) {
	reg, err := schema.LoadFile("testdata/schema.cue")
	require.NoError(t, err)

	assert.Equal(t, []string{"comments", "posts", "tags"}, reg.Types())

	posts, err := reg.Lookup("posts")
	require.NoError(t, err)
	assert.Equal(t, schema.Relations{
		{Attribute: "comments", Type: "comments"},
		{Attribute: "tags", Type: "tags"},
	}, posts.OneToMany)
	assert.Equal(t, "published", posts.OrderBy)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := schema.LoadFile("testdata/schema.toml")
	assert.ErrorContains(t, err, "unsupported schema file extension")

	_, err = schema.LoadFile("testdata/missing.yaml")
	assert.ErrorContains(t, err, "failed to read schema file")

	_, err = schema.LoadFile("testdata/broken.yaml")
	assert.ErrorIs(t, err, schema.ErrInvalidSchema)
}

func TestDecode_RejectsNonMappingRelations(t *testing.T) {
	_, err := schema.Decode([]byte("types:\n  a:\n    oneToMany: [x]\n"), schema.FormatYAML, "inline")
	assert.ErrorContains(t, err, "relations must be a mapping")

	_, err = schema.Decode([]byte(`{"types":{"a":{"foreignKey":["x"]}}}`), schema.FormatJSON, "inline")
	assert.Error(t, err)
}

func TestRelationsMarshalJSON(t *testing.T) {
	rels := schema.Relations{{Attribute: "b", Type: "x"}, {Attribute: "a", Type: "y"}}
	out, err := rels.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":"x","a":"y"}`, string(out))
}
