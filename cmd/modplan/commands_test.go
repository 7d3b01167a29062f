// Test Type: Integration Test
// Description: Runs modplan commands end to end against temp directories

package modplan_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modplan/cmd/modplan"
	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/testutil"
	"github.com/arthur-debert/modplan/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := modplan.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func bepinexPlugin(env *testutil.TestEnvironment) string {
	return env.SetupPackage("Author-CoolMod", map[string]string{
		"manifest.json":    "{}",
		"icon.png":         "png",
		"plugins/Cool.dll": "v1",
		"config/Cool.cfg":  "defaults",
	})
}

func TestPlanCmd_Text(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	dir := bepinexPlugin(env)

	out, err := run(t, "plan", "lethal-company", dir, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Author-CoolMod: subdir placer (BepInEx, Lethal Company)")
	assert.Contains(t, out, "plugins/Cool.dll -> BepInEx/plugins/Author-CoolMod/Cool.dll\n")
	assert.Contains(t, out, "config/Cool.cfg -> BepInEx/config/Cool.cfg [untracked,preserve]")
	assert.NotContains(t, out, "manifest.json")
}

func TestPlanCmd_JSONSelfPackage(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	dir := env.SetupPackage("pack", map[string]string{
		"BepInExPack/winhttp.dll":           "dll",
		"BepInExPack/BepInEx/core/Core.dll": "core",
		"BepInExPack/README.md":             "readme",
	})

	out, err := run(t, "plan", "valheim", dir, "--id", "denikson-BepInExPack_Valheim", "-f", "json")
	require.NoError(t, err)

	var result display.PlanResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, display.PlacerExtract, result.Placer)
	assert.Equal(t, "denikson-BepInExPack_Valheim", result.Package)

	var destinations []string
	for _, entry := range result.Entries {
		destinations = append(destinations, entry.Destination)
	}
	assert.ElementsMatch(t, []string{"winhttp.dll", "BepInEx/core/Core.dll"}, destinations)
}

func TestPlanCmd_UnroutableWarning(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	dir := env.SetupPackage("Author-Server", map[string]string{
		"mods/Author.Server/mod.json": "{}",
		"extras/notes.txt":            "notes",
	})

	out, err := run(t, "plan", "northstar", dir, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "mods/Author.Server/mod.json -> R2Northstar/mods/Author.Server/mod.json")
	assert.Contains(t, out, "warning: extras:")
}

func TestPlanCmd_ApplyAndRemove(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	dir := bepinexPlugin(env)

	out, err := run(t, "plan", "lethal-company", dir, "--apply", "--profiles", env.ProfilesDir, "-f", "text")
	require.NoError(t, err)

	profile := filepath.Join(env.ProfilesDir, "lethal-company", "default")
	assert.Contains(t, out, "applied to "+profile+": 2 written, 0 preserved")

	data, err := os.ReadFile(filepath.Join(profile, "BepInEx", "plugins", "Author-CoolMod", "Cool.dll"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	out, err = run(t, "remove", "lethal-company", dir, "--profiles", env.ProfilesDir, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 file(s)")

	_, err = os.Stat(filepath.Join(profile, "BepInEx", "plugins"))
	assert.True(t, os.IsNotExist(err), "emptied plugin directory is pruned")

	cfg, err := os.ReadFile(filepath.Join(profile, "BepInEx", "config", "Cool.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "defaults", string(cfg), "user-editable config survives removal")

	out, err = run(t, "remove", "lethal-company", dir, "--profiles", env.ProfilesDir, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to remove")
}

func TestPlanCmd_InvalidProfile(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	dir := bepinexPlugin(env)

	_, err := run(t, "plan", "lethal-company", dir, "--apply", "--profile", "../escape", "--profiles", env.ProfilesDir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestPlanCmd_Errors(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	dir := bepinexPlugin(env)

	_, err := run(t, "plan", "half-life-3", dir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGameNotFound))

	_, err = run(t, "plan", "lethal-company", filepath.Join(env.PackagesDir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))

	for _, id := range []string{"../../../../escaped", "..", "CoolMod"} {
		_, err = run(t, "plan", "balatro", dir, "--id", id, "--apply", "--profiles", env.ProfilesDir)
		require.Error(t, err, id)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), id)
	}
	_, err = os.Stat(filepath.Join(env.ProfilesDir, "balatro"))
	assert.True(t, os.IsNotExist(err), "rejected ids write nothing")

	_, err = run(t, "plan", "lethal-company", dir, "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = run(t, "--config", filepath.Join(env.ConfigHome, "nope.toml"), "games")
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestPlanCmd_UserRegistry(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	configDir := env.ConfigDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
[registry]
files = ["games.toml"]
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "games.toml"), []byte(`
[[games]]
name = "Test Game"
slug = "test-game"
[games.modLoader]
name = "BepInEx"
subdirs = [{ name = "Levels", target = "BepInEx/levels", layout = "nested" }]
`), 0644))

	dir := env.SetupPackage("Author-Levels", map[string]string{
		"Levels/forest/level.json": "{}",
	})

	out, err := run(t, "plan", "test-game", dir, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Levels/forest/level.json -> BepInEx/levels/Author-Levels/Levels/forest/level.json")

	t.Run("invalid_registry_is_a_configuration_error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(configDir, "games.toml"), []byte(`
[[games]]
slug = "broken"
[games.modLoader]
name = "Lovely"
subdirs = [{ name = "x", target = "x" }]
`), 0644))

		_, err := run(t, "games")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedKey))
	})
}

func TestGamesCmd(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	out, err := run(t, "games", "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "lethal-company")
	assert.Contains(t, out, "ReturnOfModding")

	out, err = run(t, "games", "--loader", "lovely", "-f", "json")
	require.NoError(t, err)
	var list display.GameList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Games, 1)
	assert.Equal(t, "balatro", list.Games[0].Slug)

	_, err = run(t, "games", "--loader", "forge")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLoaderCmd(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	out, err := run(t, "loader", "inscryption", "-f", "json")
	require.NoError(t, err)

	var info display.LoaderInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "BepInEx", info.Loader)
	assert.Equal(t, "BepInEx/LogOutput.log", info.LogPath)
	assert.Equal(t, "winhttp", info.ProxyLibrary)
	assert.True(t, info.Flatten)
	require.NotEmpty(t, info.Rules)
	assert.True(t, info.Rules[0].Default)

	last := info.Rules[len(info.Rules)-1]
	assert.Equal(t, "Sigils", last.Name)
	assert.True(t, last.Extra)

	out, err = run(t, "loader", "balatro", "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "# Lovely")
	assert.Contains(t, out, "`mods`")
}

func TestRegistryDumpCmd(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	out, err := run(t, "registry", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "[[games]]")
	assert.Contains(t, out, "hades-ii")
}

func TestVersionAndCompletion(t *testing.T) {
	testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "modplan version")

	out, err = run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "modplan")

	out, err = run(t, "man")
	require.NoError(t, err)
	assert.Contains(t, out, "MODPLAN")
}

func TestOutputFormatSetting(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	configFile := filepath.Join(env.ConfigDir(), "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[output]\nformat = \"json\"\n"), 0644))

	out, err := run(t, "games", "--loader", "lovely")
	require.NoError(t, err)
	var list display.GameList
	require.NoError(t, json.Unmarshal([]byte(out), &list), "output.format selects JSON")

	out, err = run(t, "games", "--loader", "lovely", "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "balatro")
	assert.NotContains(t, out, "{")

	t.Setenv("MODPLAN_OUTPUT_FORMAT", "xml")
	_, err = run(t, "games")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
