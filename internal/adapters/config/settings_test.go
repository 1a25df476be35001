package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xtc/internal/adapters/config"
)

func newFlags(t *testing.T, s *config.Settings) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	fs.String("builddir", "build", "")
	fs.String("cpu", "", "")
	fs.Int("jobs", 0, "")
	fs.Int("config-timeout", 120, "")
	fs.Bool("clean", false, "")
	require.NoError(t, s.BindFlags(fs))
	return fs
}

func TestSettings_FlagDefaults(t *testing.T) {
	s := config.NewSettings()
	config.SetSearchPaths(s, t.TempDir())
	newFlags(t, s)
	require.NoError(t, s.Load(""))

	assert.Equal(t, "build", s.String("builddir"))
	assert.Equal(t, 120*time.Second, s.Seconds("config-timeout"))
	assert.False(t, s.IsSet("cpu"))
}

func TestSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xtc.yaml"), []byte(`
builddir: from-file
jobs: 3
cpu: sifive-e31
s3:
  endpoint: http://minio:9000
`), 0o600))

	t.Setenv("XTC_JOBS", "7")
	t.Setenv("XTC_CONFIG_TIMEOUT", "300")
	t.Setenv("XTC_S3_ACCESS_KEY", "AKIDEXAMPLE")

	s := config.NewSettings()
	config.SetSearchPaths(s, dir)
	fs := newFlags(t, s)
	require.NoError(t, fs.Parse([]string{"--builddir", "from-flag"}))
	require.NoError(t, s.Load(""))

	assert.Equal(t, "from-flag", s.String("builddir"), "flag beats file")
	assert.Equal(t, 7, s.Int("jobs"), "env beats file")
	assert.Equal(t, 300*time.Second, s.Seconds("config-timeout"), "env beats flag default")
	assert.Equal(t, "sifive-e31", s.String("cpu"))
	assert.True(t, s.IsSet("cpu"))

	s3 := s.S3()
	assert.Equal(t, "http://minio:9000", s3.Endpoint)
	assert.Equal(t, "AKIDEXAMPLE", s3.AccessKey)
	assert.Equal(t, "us-east-1", s3.Region)
}

func TestSettings_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clean: true\n"), 0o600))

	s := config.NewSettings()
	newFlags(t, s)
	require.NoError(t, s.Load(path))
	assert.True(t, s.Bool("clean"))
}

func TestSettings_ExplicitFileMissing(t *testing.T) {
	s := config.NewSettings()
	err := s.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSettings_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xtc.yaml"), []byte("builddir: [unterminated\n"), 0o600))

	s := config.NewSettings()
	config.SetSearchPaths(s, dir)
	require.Error(t, s.Load(""))
}
