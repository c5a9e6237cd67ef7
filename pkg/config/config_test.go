package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("SPREADSHEET_ID", "")
	t.Setenv("ERC_TEMPLATE_FILE_ID", "")
}

func TestNewCreatesDefaultFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultFilename)

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 15, c.Store.Retry.MaxRetries)
	assert.Equal(t, 60*time.Second, c.Store.Retry.MaxBackoff())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "MaxRetries = 15")
}

func TestLoadExisting(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "erc.toml")
	doc := `SheetName = "Client A"

[Google]
CredentialsFile = "/secrets/sa.json"
SpreadsheetID = "sheet-123"

[Retry]
MaxRetries = 3
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "Client A", c.Store.SheetName)
	assert.Equal(t, "/secrets/sa.json", c.Store.Google.CredentialsFile)
	assert.Equal(t, "sheet-123", c.Store.Google.SpreadsheetID)
	assert.Equal(t, 3, c.Store.Retry.MaxRetries)
	assert.Equal(t, 60, c.Store.Retry.MaxBackoffSeconds)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPREADSHEET_ID", "from-env")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/env/creds.json")
	t.Setenv("ERC_TEMPLATE_FILE_ID", "tmpl-1")

	c, err := New(filepath.Join(t.TempDir(), DefaultFilename))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Store.Google.SpreadsheetID)
	assert.Equal(t, "/env/creds.json", c.Store.Google.CredentialsFile)
	assert.Equal(t, "tmpl-1", c.Store.Google.TemplateFileID)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Google\n"), 0600))
	_, err := New(path)
	assert.ErrorContains(t, err, "parse "+path)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultFilename)
	c, err := New(path)
	require.NoError(t, err)
	c.Store.Google.SpreadsheetID = "sheet-9"
	c.Store.SchemaFile = "layout.yaml"
	require.NoError(t, c.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := &Config{Filename: path}
	require.NoError(t, loaded.Load())
	assert.Equal(t, c.Store, loaded.Store)
}
