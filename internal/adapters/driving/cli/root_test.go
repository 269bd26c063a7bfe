package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// executeCommand runs the root command with args and returns its output.
// Flag variables are reset afterwards because cobra keeps them between runs.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	verbose = false
	ephemeral = false
	searchTopK = 0
	searchJSON = false
	askTopK = 0
	askJSON = false
	ingestJSON = false
	chunkJSON = false
	historyLimit = 20
	logger.SetVerbose(false)
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "sercha-rag", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"ingest", "search", "ask", "chunk", "document", "watch", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)

	flag = rootCmd.PersistentFlags().Lookup("ephemeral")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCmd_Bootstrap(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer SetBootstrap(nil)

	ts := newTestServices()
	var gotOpts Options
	released := 0
	SetBootstrap(func(_ context.Context, opts Options) (*Services, func(), error) {
		gotOpts = opts
		return &Services{Search: ts.search, Settings: ts.settings}, func() { released++ }, nil
	})

	out, err := executeCommand("--ephemeral", "search", "skills")

	require.NoError(t, err)
	assert.Contains(t, out, "cv.pdf")
	assert.True(t, gotOpts.Ephemeral)
	assert.False(t, gotOpts.SettingsOnly)
	assert.Equal(t, 1, released)
}

func TestRootCmd_BootstrapSettingsOnly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer SetBootstrap(nil)

	ts := newTestServices()
	var gotOpts Options
	SetBootstrap(func(_ context.Context, opts Options) (*Services, func(), error) {
		gotOpts = opts
		return &Services{Settings: ts.settings}, nil, nil
	})

	_, err := executeCommand("settings", "set", "search.top_k", "8")

	require.NoError(t, err)
	assert.True(t, gotOpts.SettingsOnly)
	assert.Equal(t, "8", ts.settings.set["search.top_k"])
}

func TestRootCmd_BootstrapError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer SetBootstrap(nil)

	SetBootstrap(func(context.Context, Options) (*Services, func(), error) {
		return nil, nil, errors.New("open index: locked")
	})

	_, err := executeCommand("search", "skills")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open index: locked")
}

func TestRootCmd_VersionSkipsBootstrap(t *testing.T) {
	defer SetBootstrap(nil)

	called := false
	SetBootstrap(func(context.Context, Options) (*Services, func(), error) {
		called = true
		return &Services{}, nil, nil
	})

	_, err := executeCommand("version")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestSetupServices_Verbose(t *testing.T) {
	defer resetFlags()

	verbose = true
	require.NoError(t, setupServices(versionCmd, nil))

	assert.True(t, logger.IsVerbose())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
