package entities_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"entity-store/feature/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_RelatedFetchesMissingOnce(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /todos/", `[{"id":1,"title":"a","tags":[{"id":"x","label":"home"},"y"]}]`)
	f.api.on("GET /tags/y", `{"id":"y","label":"work"}`)

	_, err := f.client.Get(context.Background(), "todos", nil)
	require.NoError(t, err)

	h, err := f.client.Lookup("todos", 1)
	require.NoError(t, err)
	require.NotNil(t, h)

	for i := 0; i < 2; i++ {
		tags, err := h.Related(context.Background(), "tags")
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "home", tags[0]["label"])
		assert.Equal(t, "work", tags[1]["label"])
	}

	fetches := 0
	for _, c := range f.api.recorded() {
		if c.Path == "/tags/y" {
			fetches++
		}
	}
	assert.Equal(t, 1, fetches)
}

func TestHandle_RelatedFetchFailure(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /todos/", `[{"id":1,"tags":["gone"]}]`)
	f.api.fail("GET /tags/gone", http.StatusNotFound, `{}`)

	_, err := f.client.Get(context.Background(), "todos", nil)
	require.NoError(t, err)

	h, err := f.client.Lookup("todos", 1)
	require.NoError(t, err)

	_, err = h.Related(context.Background(), "tags")
	assert.Error(t, err)
}

func TestHandle_RelatedOne(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /todos/", `[{"id":1,"owner":{"id":"u1","name":"ada"}},{"id":2}]`)

	_, err := f.client.Get(context.Background(), "todos", nil)
	require.NoError(t, err)

	h, err := f.client.Lookup("todos", 1)
	require.NoError(t, err)
	owner, err := h.RelatedOne(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, "ada", owner["name"])

	h2, err := f.client.Lookup("todos", 2)
	require.NoError(t, err)
	owner, err = h2.RelatedOne(context.Background(), "owner")
	require.NoError(t, err)
	assert.Nil(t, owner)

	_, err = h.RelatedOne(context.Background(), "tags")
	assert.True(t, errors.Is(err, entities.ErrUnknownRelation))
	_, err = h.Related(context.Background(), "title")
	assert.True(t, errors.Is(err, entities.ErrUnknownRelation))
}

func TestHandle_AllRelated(t *testing.T) {
	f := newFixture(t)
	f.api.on("GET /todos/", `[{"id":1,"tags":[{"id":"x"},{"id":"z"}],"owner":{"id":"u1"}}]`)

	_, err := f.client.Get(context.Background(), "todos", nil)
	require.NoError(t, err)

	h, err := f.client.Lookup("todos", 1)
	require.NoError(t, err)

	all, err := h.AllRelated(context.Background())
	require.NoError(t, err)
	require.Contains(t, all, "tags")
	require.Contains(t, all, "owner")
	assert.Len(t, all["tags"], 2)
	assert.Len(t, all["owner"], 1)
	assert.Len(t, f.api.recorded(), 1)
}

func TestHandle_LookupMissing(t *testing.T) {
	f := newFixture(t)

	h, err := f.client.Lookup("todos", 404)
	require.NoError(t, err)
	assert.Nil(t, h)

	_, err = f.client.Handle("ghosts", map[string]any{})
	assert.Error(t, err)
}

func TestHandle_UpdateReducesRelations(t *testing.T) {
	f := newFixture(t)
	f.api.on("PUT /todos/1", `{"id":1,"title":"renamed","tags":["x"]}`)

	h, err := f.client.Handle("todos", map[string]any{
		"id":    1,
		"title": "old",
		"tags":  []any{map[string]any{"id": "x", "label": "home"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "todos", h.Type())

	require.NoError(t, h.Update(context.Background(), map[string]any{"title": "renamed"}))

	calls := f.api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"title": "renamed", "tags": []any{"x"}}, bodyOf(t, calls[0]))
	assert.Equal(t, "renamed", h.Record()["title"])

	stored, err := f.client.Find("todos", 1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored["title"])
}

func TestHandle_UpdateFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	f.api.fail("PUT /todos/1", http.StatusBadRequest, `{"title":["invalid"]}`)

	h, err := f.client.Handle("todos", map[string]any{"id": 1, "title": "old"})
	require.NoError(t, err)

	assert.Error(t, h.Update(context.Background(), map[string]any{"title": ""}))
	assert.Equal(t, "old", h.Record()["title"])
	assert.Equal(t, 0, f.client.Engine().Len("todos"))
}

func TestHandle_SaveCreates(t *testing.T) {
	f := newFixture(t)
	f.api.fail("POST /todos/", http.StatusCreated, `{"id":12,"title":"draft","owner":"u1"}`)

	h, err := f.client.Handle("todos", map[string]any{
		"title": "draft",
		"owner": map[string]any{"id": "u1", "name": "ada"},
	})
	require.NoError(t, err)
	_, ok := h.ID()
	assert.False(t, ok)

	require.NoError(t, h.Save(context.Background()))

	calls := f.api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "u1", bodyOf(t, calls[0])["owner"])

	id, ok := h.ID()
	require.True(t, ok)
	assert.Equal(t, float64(12), id)
}

func TestHandle_SaveUpdatesExisting(t *testing.T) {
	f := newFixture(t)
	f.api.fail("PUT /todos/5", http.StatusNoContent, "")

	h, err := f.client.Handle("todos", map[string]any{"id": 5, "title": "kept"})
	require.NoError(t, err)
	require.NoError(t, h.Save(context.Background()))

	calls := f.api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)

	stored, err := f.client.Find("todos", 5)
	require.NoError(t, err)
	assert.Equal(t, "kept", stored["title"])
}
