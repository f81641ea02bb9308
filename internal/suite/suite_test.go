package suite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sdl = `
type Query { user: User }
type User { id: ID name: String }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeSuite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "schema.graphql", sdl)
	writeFile(t, dir, "query.graphql", `{ user { id name } }`)
	writeFile(t, dir, "fixtures/good.json", `{"user": {"id": "1", "name": "ada"}}`)
	writeFile(t, dir, "fixtures/bad.json", `{"user": {"id": "1"}}`)
	writeFile(t, dir, "fixtures/broken.json", `{"user":`)
	return writeFile(t, dir, "suite.yaml", `
schema: schema.graphql
query: query.graphql
fixtures:
  - fixtures/*.json
`)
}

func TestLoadAndRun(t *testing.T) {
	s, err := Load(writeSuite(t))
	require.NoError(t, err)

	paths := s.Fixtures()
	require.Len(t, paths, 3)
	require.Equal(t, "bad.json", filepath.Base(paths[0]))
	require.Equal(t, "broken.json", filepath.Base(paths[1]))
	require.Equal(t, "good.json", filepath.Base(paths[2]))

	results := s.Run(context.Background())
	require.Len(t, results, 3)

	bad, broken, good := results[0], results[1], results[2]

	require.Empty(t, bad.Err)
	require.False(t, bad.Result.Valid)
	require.Len(t, bad.Result.Errors, 1)

	require.NotEmpty(t, broken.Err)
	require.Nil(t, broken.Result)

	require.Empty(t, good.Err)
	require.True(t, good.Result.Valid)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingManifest", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("MissingSchemaOrQuery", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "suite.yaml", `fixtures: ["x.json"]`)
		_, err := Load(path)
		require.ErrorContains(t, err, "must set both schema and query")
	})

	t.Run("PatternWithoutMatches", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "schema.graphql", sdl)
		writeFile(t, dir, "query.graphql", `{ user { id } }`)
		path := writeFile(t, dir, "suite.yaml", `
schema: schema.graphql
query: query.graphql
fixtures: ["missing/*.json"]
`)
		_, err := Load(path)
		require.ErrorContains(t, err, "matched no fixtures")
	})

	t.Run("BadSchema", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "schema.graphql", `type Query {`)
		writeFile(t, dir, "query.graphql", `{ user { id } }`)
		writeFile(t, dir, "f.json", `{}`)
		path := writeFile(t, dir, "suite.yaml", `
schema: schema.graphql
query: query.graphql
fixtures: ["f.json"]
`)
		_, err := Load(path)
		require.ErrorContains(t, err, "build schema")
	})
}

func TestRun_StructuralOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schema.graphql", `type Query { n: Int }`)
	writeFile(t, dir, "query.graphql", `{ n }`)
	writeFile(t, dir, "f.json", `{"n": 1.5}`)
	path := writeFile(t, dir, "suite.yaml", `
schema: schema.graphql
query: query.graphql
structuralOnly: true
fixtures: ["f.json"]
`)
	s, err := Load(path)
	require.NoError(t, err)

	results := s.Run(context.Background())
	require.Len(t, results, 1)
	require.True(t, results[0].Result.Valid)
	require.False(t, results[0].Result.TypeChecked)
}
