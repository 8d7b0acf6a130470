package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliContract = `{
  "general": {"timeZone": "UTC", "tenantId": "tenant1"},
  "fileDefinitions": {
    "patient": {
      "resourceType": "Patient",
      "groupByKey": "mrn",
      "tasks": [{"name": "rename_columns", "params": {"column_map": {"mrn": "patientInternalId"}}}]
    }
  }
}`

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand()
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	return root.Execute()
}

func TestConvertDirectory(t *testing.T) {
	base := t.TempDir()
	writeTempFile(t, base, "config/data-contract.json", cliContract)
	writeTempFile(t, base, "input/patients.csv", "mrn,gender\np1,female\np2,male\n")
	writeTempFile(t, base, "input/claims.csv", "id\n1\n")
	writeTempFile(t, base, "input/.hidden_patients.csv", "mrn\np3\n")
	out := filepath.Join(base, "out")

	require.NoError(t, execute(t, "convert", "-d", base, "-o", out))

	for _, key := range []string{"p1", "p2"} {
		entries, err := os.ReadDir(filepath.Join(out, key))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, key+"-Patient-patients-00001.json", entries[0].Name())
	}
	_, err := os.Stat(filepath.Join(out, "p3"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(out, "logs", "app.log"))
	assert.NoError(t, err)
}

func TestConvertTransformOnly(t *testing.T) {
	base := t.TempDir()
	configDir := filepath.Dir(writeTempFile(t, base, "config/data-contract.json", cliContract))
	file := writeTempFile(t, base, "patients.csv", "mrn,gender\np1,female\n")
	out := filepath.Join(base, "out")

	require.NoError(t, execute(t, "convert", "-f", file, "-c", configDir, "-o", out, "--transform-only"))

	b, err := os.ReadFile(filepath.Join(out, "patients.ndjson"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"patientInternalId":"p1"`)
}

func TestConvertRequiresOneSource(t *testing.T) {
	assert.Error(t, execute(t, "convert", "-o", t.TempDir()))
	assert.Error(t, execute(t, "convert", "-f", "a.csv", "-d", "dir", "-o", t.TempDir()))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := writeTempFile(t, dir, "valid.json", cliContract)
	invalid := writeTempFile(t, dir, "invalid.json", `{"general": {"timeZone": "UTC"}, "fileDefinitions": {"x": {"resourceType": "Claim", "groupByKey": "id"}}}`)

	assert.NoError(t, execute(t, "validate", "-c", valid))
	err := execute(t, "validate", "-c", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 problem(s)")
}
