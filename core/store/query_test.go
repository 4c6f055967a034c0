package store_test

import (
	"errors"
	"testing"

	"entity-store/core/schema"
	"entity-store/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []store.Record) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r["id"]
	}
	return out
}

func TestFind(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Set("teams", `[
		{"id":"t1","name":"core","size":3},
		{"id":"t2","name":"web","size":5},
		{"id":"t3","name":"web","size":2}
	]`)
	require.NoError(t, err)

	tests := []struct {
		name   string
		query  any
		wantID any
	}{
		{name: "nil query", query: nil, wantID: nil},
		{name: "id lookup", query: "t2", wantID: "t2"},
		{name: "missing id", query: "t9", wantID: nil},
		{name: "predicate first match", query: map[string]any{"name": "web"}, wantID: "t2"},
		{name: "record predicate", query: store.Record{"name": "web", "size": 2}, wantID: "t3"},
		{name: "numeric predicate", query: map[string]any{"size": 3}, wantID: "t1"},
		{name: "missing attribute never matches", query: map[string]any{"color": nil}, wantID: nil},
		{name: "no match", query: map[string]any{"name": "ops"}, wantID: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Find("teams", tt.query)
			require.NoError(t, err)
			if tt.wantID == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got["id"])
		})
	}
}

func TestFind_InvalidQuery(t *testing.T) {
	e, _ := newEngine(t)

	for _, q := range []any{[]int{1, 2}, []any{"t1"}, true, struct{}{}} {
		_, err := e.Find("teams", q)
		assert.True(t, errors.Is(err, store.ErrInvalidQuery), "query %#v", q)
	}

	_, err := e.Find("ghosts", "x")
	assert.True(t, errors.Is(err, store.ErrUnknownType))
}

func TestFindAll(t *testing.T) {
	e, _ := newEngine(t)

	all, err := e.FindAll("teams", nil)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	_, err = e.Set("teams", `[{"id":"t1","tier":1},{"id":"t2","tier":2},{"id":"t3","tier":1}]`)
	require.NoError(t, err)

	all, err = e.FindAll("teams", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"t1", "t2", "t3"}, ids(all))

	tier1, err := e.FindAll("teams", map[string]any{"tier": 1})
	require.NoError(t, err)
	assert.Equal(t, []any{"t1", "t3"}, ids(tier1))

	none, err := e.FindAll("teams", map[string]any{"tier": 9})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = e.Remove("teams", "t2")
	require.NoError(t, err)
	all, err = e.FindAll("teams", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"t1", "t3"}, ids(all))
}

func TestFindAll_InvalidQuery(t *testing.T) {
	e, _ := newEngine(t)

	for _, q := range []any{"t1", 7, []string{"t1"}} {
		_, err := e.FindAll("teams", q)
		assert.True(t, errors.Is(err, store.ErrInvalidQuery), "query %#v", q)
	}
}

func TestFindAll_OrderBy(t *testing.T) {
	t.Run("descending case-insensitive", func(t *testing.T) {
		e, _ := newEngine(t)
		_, err := e.Set("discussions", `[
			{"id":"d1","title":"beta"},
			{"id":"d2","title":"Alpha"},
			{"id":"d3","title":"gamma"},
			{"id":"d4","title":"Delta"}
		]`)
		require.NoError(t, err)

		all, err := e.FindAll("discussions", nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"d3", "d4", "d1", "d2"}, ids(all))
	})

	t.Run("descending reverses ties", func(t *testing.T) {
		e, _ := newEngine(t)
		_, err := e.Set("discussions", `[
			{"id":"d1","title":"same"},
			{"id":"d2","title":"SAME"},
			{"id":"d3","title":"other"}
		]`)
		require.NoError(t, err)

		all, err := e.FindAll("discussions", nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"d2", "d1", "d3"}, ids(all))
	})

	t.Run("ascending keeps ties stable", func(t *testing.T) {
		e, _ := newEngine(t)
		_, err := e.Set("users", `[
			{"id":"u1","name":"zoe"},
			{"id":"u2","name":"Ada"},
			{"id":"u3","name":"ada"},
			{"id":"u4"}
		]`)
		require.NoError(t, err)

		all, err := e.FindAll("users", nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"u4", "u2", "u3", "u1"}, ids(all))
	})

	t.Run("applied after filtering", func(t *testing.T) {
		e, _ := newEngine(t)
		_, err := e.Set("discussions", `[
			{"id":"d1","title":"a","open":true},
			{"id":"d2","title":"b","open":false},
			{"id":"d3","title":"c","open":true}
		]`)
		require.NoError(t, err)

		open, err := e.FindAll("discussions", map[string]any{"open": true})
		require.NoError(t, err)
		assert.Equal(t, []any{"d3", "d1"}, ids(open))
	})

	t.Run("attribute name with a space", func(t *testing.T) {
		e := store.New(schema.MustNew(schema.Config{
			Types: map[string]schema.TypeConfig{"events": {OrderBy: "-created at"}},
		}))
		_, err := e.Set("events", `[
			{"id":"e1","created at":"2024-01-02"},
			{"id":"e2","created at":"2024-03-01"},
			{"id":"e3","created at":"2024-02-01"}
		]`)
		require.NoError(t, err)

		all, err := e.FindAll("events", nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"e2", "e3", "e1"}, ids(all))
	})
}
