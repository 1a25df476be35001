package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xtc/cmd/xtc/commands"
	"go.trai.ch/xtc/internal/adapters/config"
	"go.trai.ch/xtc/internal/app"
	"go.trai.ch/xtc/internal/build"
	"go.trai.ch/xtc/internal/core/domain"
)

type mockApp struct {
	triplet   string
	build     *app.BuildOptions
	batch     *app.BatchOptions
	targets   bool
	limit     int
	showRunID string
	err       error
}

func (m *mockApp) Build(_ context.Context, triplet string, opts app.BuildOptions) error {
	m.triplet = triplet
	m.build = &opts
	return m.err
}

func (m *mockApp) Batch(_ context.Context, opts app.BatchOptions) error {
	m.batch = &opts
	return m.err
}

func (m *mockApp) Targets() error {
	m.targets = true
	return m.err
}

func (m *mockApp) History(limit int) error {
	m.limit = limit
	return m.err
}

func (m *mockApp) ShowRun(id string) error {
	m.showRunID = id
	return m.err
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cli := commands.New(m, config.NewSettings())
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestBuild_Defaults(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "build", "riscv32-unknown-elf", "--root", "/src")
	require.NoError(t, err)

	require.NotNil(t, m.build)
	assert.Equal(t, "riscv32-unknown-elf", m.triplet)
	assert.Equal(t, domain.FamilyGNU, m.build.Resolve.Family)
	assert.Equal(t, "/src", m.build.Resolve.Root)
	assert.Equal(t, "logs", m.build.Resolve.LogDir)
	assert.Equal(t, domain.DefaultTimeouts(), m.build.Resolve.Timeouts)
	assert.Equal(t, domain.Overrides{}, m.build.Overrides)
	assert.False(t, m.build.DryRun)
	assert.Empty(t, m.build.Package.Archive)
}

func TestBuild_Flags(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m,
		"build", "arm-none-eabi",
		"--root", "/src",
		"--llvm",
		"--builddir", "b",
		"--installdir", "/opt/arm",
		"--cpu", "cortex-m0",
		"--float", "",
		"--libc", "newlib-nano",
		"--experimental",
		"--config-timeout", "30",
		"-j", "16",
		"--clean",
		"--dry-run",
		"--archive", "zst",
		"-v",
	)
	require.NoError(t, err)

	o := m.build
	require.NotNil(t, o)
	assert.Equal(t, domain.FamilyLLVM, o.Resolve.Family)
	assert.Equal(t, "b", o.Resolve.BuildDir)
	assert.Equal(t, "/opt/arm", o.Resolve.InstallDir)
	assert.Equal(t, 30*time.Second, o.Resolve.Timeouts.Config)
	assert.Equal(t, 3600*time.Second, o.Resolve.Timeouts.Build)
	assert.Equal(t, 16, o.Resolve.Jobs)
	assert.True(t, o.Resolve.Clean)
	assert.True(t, o.DryRun)
	assert.True(t, o.Verbose)
	assert.Equal(t, "zst", o.Package.Archive)

	require.NotNil(t, o.Overrides.CPU)
	assert.Equal(t, "cortex-m0", *o.Overrides.CPU)
	require.NotNil(t, o.Overrides.Float)
	assert.Empty(t, *o.Overrides.Float)
	require.NotNil(t, o.Overrides.LibC)
	assert.Equal(t, domain.LibCNewlibNano, *o.Overrides.LibC)
	require.NotNil(t, o.Overrides.Experimental)
	assert.True(t, *o.Overrides.Experimental)
	assert.Nil(t, o.Overrides.Arch)
}

func TestBuild_InvalidLibC(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "build", "avr", "--libc", "glibc")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLibC)
	assert.Nil(t, m.build)
}

func TestBuild_RequiresTriplet(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "build")
	require.Error(t, err)
	assert.Nil(t, m.build)
}

func TestBuild_EnvironmentAndSettingsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "xtc.yaml")
	require.NoError(t, os.WriteFile(file, []byte("jobs: 3\narch: rv32imac\nbuild-timeout: 60\n"), 0o600))
	t.Setenv("XTC_ABI", "ilp32e")

	m := &mockApp{}
	_, err := execute(t, m, "build", "riscv32-unknown-elf", "--config", file, "--build-timeout", "90")
	require.NoError(t, err)

	o := m.build
	require.NotNil(t, o)
	assert.Equal(t, 3, o.Resolve.Jobs)
	assert.Equal(t, 90*time.Second, o.Resolve.Timeouts.Build)
	require.NotNil(t, o.Overrides.Arch)
	assert.Equal(t, "rv32imac", *o.Overrides.Arch)
	require.NotNil(t, o.Overrides.ABI)
	assert.Equal(t, "ilp32e", *o.Overrides.ABI)
}

func TestBuild_MissingSettingsFile(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "build", "avr", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Nil(t, m.build)
}

func TestBatch(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "batch", "--root", "/src", "--catalog", "releases.yaml", "--only", "gcc_9.2,gcc_9.1", "--publish", "s3://tc")
	require.NoError(t, err)

	require.NotNil(t, m.batch)
	assert.Equal(t, "releases.yaml", m.batch.Catalog)
	assert.Equal(t, []string{"gcc_9.2", "gcc_9.1"}, m.batch.Only)
	assert.Equal(t, "/src", m.batch.Root)
	assert.Equal(t, "s3://tc", m.batch.Package.Publish)
	assert.Equal(t, domain.DefaultTimeouts(), m.batch.Timeouts)
}

func TestTargets(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "targets")
	require.NoError(t, err)
	assert.True(t, m.targets)
}

func TestHistory(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "history", "-n", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, m.limit)

	m = &mockApp{}
	_, err = execute(t, m, "history", "5f0c7d7e")
	require.NoError(t, err)
	assert.Equal(t, "5f0c7d7e", m.showRunID)
}

func TestApplicationError(t *testing.T) {
	m := &mockApp{err: errors.New("simulated error")}
	_, err := execute(t, m, "targets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "xtc version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Equal(t, "xtc version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)
}

func TestVerboseShorthand(t *testing.T) {
	for _, args := range [][]string{
		{"-v", "targets"},
		{"targets", "-v"},
		{"build", "avr", "-v"},
		{"history", "-v"},
	} {
		m := &mockApp{}
		_, err := execute(t, m, args...)
		require.NoError(t, err, "%v", args)
	}

	m := &mockApp{}
	_, err := execute(t, m, "batch", "-v")
	require.NoError(t, err)
	require.NotNil(t, m.batch)
	assert.True(t, m.batch.Verbose)
}
