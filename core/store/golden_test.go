package store_test

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestSnapshot_Golden pins the normalized table layout of a nested payload.
func TestSnapshot_Golden(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.Set("teams", `[{
		"id": "t1",
		"name": "Core",
		"members": [
			{"id": "m1", "role": "lead", "user": {"id": "u1", "name": "Ada"}},
			{"id": "m2", "role": "dev", "user": {"id": "u2", "name": "Linus"}}
		]
	}]`)
	require.NoError(t, err)

	data, err := json.MarshalIndent(e.Snapshot(), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "team_graph", append(data, '\n'))
}
