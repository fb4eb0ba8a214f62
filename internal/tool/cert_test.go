package tool

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureTlsCertificate(t *testing.T) {
	dir := t.TempDir()
	keyFilename := filepath.Join(dir, "key.pem")
	certFilename := filepath.Join(dir, "cert.pem")

	require.NoError(t, EnsureTlsCertificate("org", "server", keyFilename, certFilename, []string{"localhost", "127.0.0.1"}))
	assert.True(t, IsFileExists(keyFilename))
	assert.True(t, IsFileExists(certFilename))

	_, err := tls.LoadX509KeyPair(certFilename, keyFilename)
	require.NoError(t, err)

	before, err := os.ReadFile(certFilename)
	require.NoError(t, err)
	require.NoError(t, EnsureTlsCertificate("org", "server", keyFilename, certFilename, nil))
	after, err := os.ReadFile(certFilename)
	require.NoError(t, err)
	assert.Equal(t, before, after, "existing pair is kept")
}

func TestIsFileExists(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, IsFileExists(filepath.Join(dir, "missing")))
	assert.False(t, IsFileExists(dir))
}
