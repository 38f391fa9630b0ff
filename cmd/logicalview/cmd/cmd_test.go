package cmd_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoCodeAlone/logicalview/cmd/logicalview/cmd"
	"github.com/GoCodeAlone/logicalview/modules/httpserver"
	"github.com/GoCodeAlone/logicalview/modules/webapp"
	"github.com/GoCodeAlone/logicalview/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRootCommand(t *testing.T) {
	rootCmd := cmd.NewRootCommand()
	assert.Equal(t, "logicalview", rootCmd.Use)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "serve")
	assert.Contains(t, buf.String(), "config")
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, cmd.PrintVersion(), "LogicalView v")
}

func TestConfigSampleYAML(t *testing.T) {
	rootCmd := cmd.NewRootCommand()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "sample"})
	require.NoError(t, rootCmd.Execute())

	var sample map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &sample))
	assert.Contains(t, sample, "log")
	assert.Contains(t, sample, "chimux")
	assert.Contains(t, sample, "eventlogger")

	server, ok := sample["httpserver"].(map[string]any)
	require.True(t, ok, buf.String())
	assert.Equal(t, 8080, server["port"])

	app, ok := sample["webapp"].(map[string]any)
	require.True(t, ok)
	randoms, ok := app["randoms"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 20, randoms["min_people"])
	assert.Equal(t, 35, randoms["max_people"])
}

func TestConfigSampleTOMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logicalview.toml")

	rootCmd := cmd.NewRootCommand()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "sample", "--format", "toml", "--output", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[httpserver]")
	assert.Contains(t, string(data), "port = 8080")
}

func TestConfigSampleUnknownFormat(t *testing.T) {
	rootCmd := cmd.NewRootCommand()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"config", "sample", "--format", "ini"})
	assert.Error(t, rootCmd.Execute())
}

func TestNewAppFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
httpserver:
  host: 127.0.0.1
  port: 9090
webapp:
  randoms:
    min_people: 2
    max_people: 4
`), 0o600))
	t.Setenv("LOGICALVIEW_HTTPSERVER_PORT", "9191")

	app, err := cmd.NewApp(path, io.Discard)
	require.NoError(t, err)
	require.NoError(t, app.Init())

	cfg, ok := app.ConfigProvider().GetConfig().(*cmd.AppConfig)
	require.True(t, ok)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	section, err := app.GetConfigSection(httpserver.ModuleName)
	require.NoError(t, err)
	server := section.GetConfig().(*httpserver.HTTPServerConfig)
	assert.Equal(t, "127.0.0.1", server.Host)
	assert.Equal(t, 9191, server.Port)

	section, err = app.GetConfigSection(webapp.ModuleName)
	require.NoError(t, err)
	web := section.GetConfig().(*webapp.WebAppConfig)
	assert.Equal(t, 2, web.Randoms.MinPeople)
	assert.Equal(t, 4, web.Randoms.MaxPeople)

	var renderer *render.Renderer
	assert.NoError(t, app.GetService(webapp.RendererServiceName, &renderer))
}

func TestNewAppUnsupportedFile(t *testing.T) {
	_, err := cmd.NewApp("config.ini", io.Discard)
	assert.ErrorIs(t, err, cmd.ErrUnsupportedConfigFile)
}

func TestConfigFeeders(t *testing.T) {
	feeders, err := cmd.ConfigFeeders("")
	require.NoError(t, err)
	assert.Len(t, feeders, 1)

	feeders, err = cmd.ConfigFeeders("app.TOML")
	require.NoError(t, err)
	assert.Len(t, feeders, 2)
}
