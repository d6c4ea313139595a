package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/store/storetest"
)

func seededDir(t *testing.T) string {
	t.Helper()

	_, backend := storetest.New(t, storetest.Fixture{
		Novels: storetest.SampleNovels(),
		Users: []domain.User{
			{ID: 1, Username: "ann", LegacyPassword: "secret", Favorites: []int{1}, RecentRead: []int{}},
			{ID: 2, Username: "bo", Favorites: []int{}, RecentRead: []int{}},
		},
	})
	return backend.Dir()
}

// run executes novelctl with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

func TestInspect_Counts(t *testing.T) {
	dir := seededDir(t)

	out, err := run(t, "inspect", "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "jsonfile")
	assert.Regexp(t, `users\s+2`, out)
	assert.Regexp(t, `comments\s+0`, out)
}

func TestInspect_Dump(t *testing.T) {
	dir := seededDir(t)

	out, err := run(t, "inspect", "users", "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "ann"`)
	assert.Less(t, bytes.Index([]byte(out), []byte(`"id"`)), bytes.Index([]byte(out), []byte(`"username"`)))

	out, err = run(t, "inspect", "users", "-o", "yaml", "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "username: ann")
	assert.Contains(t, out, "favorites:\n")
}

func TestInspect_Errors(t *testing.T) {
	dir := seededDir(t)

	_, err := run(t, "inspect", "books", "--data-path", dir)
	assert.ErrorContains(t, err, "unknown collection")

	_, err = run(t, "inspect", "users", "-o", "xml", "--data-path", dir)
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "history", "users", "--data-path", dir)
	assert.ErrorContains(t, err, "sqlite")
}

func TestMigrate_ToSQLite(t *testing.T) {
	dir := seededDir(t)
	target := t.TempDir()

	out, err := run(t, "migrate", "--to", "sqlite", "--to-path", target, "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Copied 3 documents")
	assert.NoDirExists(t, filepath.Join(target, "backups"))

	out, err = run(t, "inspect", "--storage", "sqlite", "--data-path", target)
	require.NoError(t, err)
	assert.Regexp(t, `users\s+2`, out)

	out, err = run(t, "history", "users", "--storage", "sqlite", "--data-path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "users")

	// A second run keeps what the target already held.
	out, err = run(t, "migrate", "--to", "sqlite", "--to-path", target, "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 3 existing documents")

	backups, err := os.ReadDir(filepath.Join(target, "backups"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.FileExists(t, filepath.Join(target, "backups", backups[0].Name(), "novels.json"))
}

func TestMigrate_RejectsSameStore(t *testing.T) {
	dir := seededDir(t)

	_, err := run(t, "migrate", "--to", "jsonfile", "--data-path", dir)
	assert.ErrorContains(t, err, "same store")

	_, err = run(t, "migrate", "--data-path", dir)
	assert.Error(t, err)
}

func TestHashPasswords(t *testing.T) {
	dir := seededDir(t)

	out, err := run(t, "hash-passwords", "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Hashed 1 passwords")

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"password":`)

	out, err = run(t, "inspect", "users", "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "$argon2id$")

	out, err = run(t, "hash-passwords", "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Hashed 0 passwords")
}

func TestReindex(t *testing.T) {
	dir := seededDir(t)

	out, err := run(t, "reindex", "--data-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 3 novels")
	assert.DirExists(t, filepath.Join(dir, "search.bleve"))
}
