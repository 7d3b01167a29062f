// Test Type: Integration Test
// Description: Tests plan execution against an in-memory filesystem

package executor_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/executor"
	"github.com/arthur-debert/modplan/pkg/listing"
	"github.com/arthur-debert/modplan/pkg/loaders"
	"github.com/arthur-debert/modplan/pkg/testutil"
	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageID = "Author-Mod"

func planFor(t *testing.T, env *testutil.TestEnvironment, packageRoot string) *types.Plan {
	t.Helper()
	desc, err := loaders.NewDescriptor(loaders.BepInEx)
	require.NoError(t, err)

	pkg, err := listing.FromDir(env.FS, packageRoot, packageID)
	require.NoError(t, err)

	return loaders.Resolve(desc, pkg.ID).Plan(pkg)
}

func TestApply(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	packageRoot := env.SetupPackage(packageID, map[string]string{
		"manifest.json":       "{}",
		"plugins/Mod.dll":     "v1",
		"config/Author.cfg":   "defaults",
		"monomod/Hook.mm.dll": "hook",
	})
	profileRoot := env.Profile("default")

	result, err := executor.New(env.FS).Apply(context.Background(), planFor(t, env, packageRoot), packageRoot, profileRoot)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"BepInEx/config/Author.cfg",
		"BepInEx/monomod/Author-Mod/Hook.mm.dll",
		"BepInEx/plugins/Author-Mod/Mod.dll",
	}, result.Written)
	assert.ElementsMatch(t, []string{
		"BepInEx/monomod/Author-Mod/Hook.mm.dll",
		"BepInEx/plugins/Author-Mod/Mod.dll",
	}, result.Tracked)
	assert.Empty(t, result.Preserved)

	assert.Equal(t, "v1", env.ReadFile(filepath.Join(profileRoot, "BepInEx/plugins/Author-Mod/Mod.dll")))
	assert.False(t, env.Exists(filepath.Join(profileRoot, "manifest.json")))
}

func TestApply_ReinstallPreservesUserConfig(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	packageRoot := env.SetupPackage(packageID, map[string]string{
		"plugins/Mod.dll":   "v1",
		"config/Author.cfg": "defaults",
	})
	profileRoot := env.Profile("default")
	exec := executor.New(env.FS)

	_, err := exec.Apply(context.Background(), planFor(t, env, packageRoot), packageRoot, profileRoot)
	require.NoError(t, err)

	cfg := filepath.Join(profileRoot, "BepInEx/config/Author.cfg")
	env.WriteFile(cfg, "user edited")

	// update arrives with new plugin and new default config
	env.WriteTree(packageRoot, map[string]string{
		"plugins/Mod.dll":   "v2",
		"config/Author.cfg": "new defaults",
	})

	result, err := exec.Apply(context.Background(), planFor(t, env, packageRoot), packageRoot, profileRoot)
	require.NoError(t, err)

	assert.Equal(t, "user edited", env.ReadFile(cfg))
	assert.Equal(t, "v2", env.ReadFile(filepath.Join(profileRoot, "BepInEx/plugins/Author-Mod/Mod.dll")))
	assert.Equal(t, []string{"BepInEx/config/Author.cfg"}, result.Preserved)
}

func TestApply_ForeignFileAtPreservedDestination(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	packageRoot := env.SetupPackage(packageID, map[string]string{"config/Author.cfg": "defaults"})
	profileRoot := env.Profile("default")
	env.WriteTree(profileRoot, map[string]string{"BepInEx/config/Author.cfg": "placed by hand"})

	_, err := executor.New(env.FS).Apply(context.Background(), planFor(t, env, packageRoot), packageRoot, profileRoot)
	require.NoError(t, err)

	assert.Equal(t, "placed by hand", env.ReadFile(filepath.Join(profileRoot, "BepInEx/config/Author.cfg")))
}

func TestApply_Canceled(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	packageRoot := env.SetupPackage(packageID, map[string]string{"plugins/Mod.dll": "v1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := executor.New(env.FS).Apply(ctx, planFor(t, env, packageRoot), packageRoot, env.Profile("default"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCanceled))
	assert.Empty(t, result.Written)
}

func TestApply_MissingSource(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	plan := &types.Plan{}
	plan.Add("plugins/Gone.dll", "BepInEx/plugins/Gone.dll", true, false)

	_, err := executor.New(env.FS).Apply(context.Background(), plan, filepath.Join(env.PackagesDir, packageID), env.Profile("default"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestApply_ConcurrentProfiles(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	packageRoot := env.SetupPackage(packageID, map[string]string{"plugins/Mod.dll": "v1"})
	plan := planFor(t, env, packageRoot)
	exec := executor.New(env.FS)

	var wg sync.WaitGroup
	for _, profile := range []string{"a", "b", "a"} {
		wg.Add(1)
		go func(profile string) {
			defer wg.Done()
			_, err := exec.Apply(context.Background(), plan, packageRoot, env.Profile(profile))
			assert.NoError(t, err)
		}(profile)
	}
	wg.Wait()

	assert.Equal(t, "v1", env.ReadFile(env.Profile("a", "BepInEx/plugins/Author-Mod/Mod.dll")))
	assert.Equal(t, "v1", env.ReadFile(env.Profile("b", "BepInEx/plugins/Author-Mod/Mod.dll")))
}

func TestUninstall(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	packageRoot := env.SetupPackage(packageID, map[string]string{
		"plugins/sub/Mod.dll": "v1",
		"config/Author.cfg":   "defaults",
	})
	profileRoot := env.Profile("default")
	exec := executor.New(env.FS)

	result, err := exec.Apply(context.Background(), planFor(t, env, packageRoot), packageRoot, profileRoot)
	require.NoError(t, err)

	removed, err := exec.Uninstall(context.Background(), profileRoot, append(result.Tracked, "BepInEx/plugins/never.dll"))
	require.NoError(t, err)
	assert.Equal(t, []string{"BepInEx/plugins/Author-Mod/sub/Mod.dll"}, removed)

	assert.False(t, env.Exists(filepath.Join(profileRoot, "BepInEx/plugins")), "empty directories are pruned")
	assert.Equal(t, "defaults", env.ReadFile(filepath.Join(profileRoot, "BepInEx/config/Author.cfg")))
}

func TestUninstall_KeepsFilesOfOtherPackages(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	desc, err := loaders.NewDescriptor(loaders.BepInEx)
	require.NoError(t, err)
	profileRoot := env.Profile("default")
	exec := executor.New(env.FS)

	install := func(id string) *executor.Result {
		root := env.SetupPackage(id, map[string]string{"plugins/Shared.dll": id})
		pkg, err := listing.FromDir(env.FS, root, id)
		require.NoError(t, err)
		result, err := exec.Apply(context.Background(), loaders.Resolve(desc, id).Plan(pkg), root, profileRoot)
		require.NoError(t, err)
		return result
	}

	first := install("A-One")
	install("B-Two")

	removed, err := exec.Uninstall(context.Background(), profileRoot, first.Tracked)
	require.NoError(t, err)
	assert.Equal(t, []string{"BepInEx/plugins/A-One/Shared.dll"}, removed)
	assert.Equal(t, "B-Two", env.ReadFile(filepath.Join(profileRoot, "BepInEx/plugins/B-Two/Shared.dll")))
}

func TestApply_RefusesPathsOutsideRoots(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
	}{
		{"destination_escapes_profile", "x/evil.lua", "mods/../../../../escaped/x/evil.lua"},
		{"destination_is_profile_root", "x/evil.lua", "."},
		{"source_escapes_package", "../../secret.txt", "mods/secret.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
			packageRoot := env.SetupPackage(packageID, map[string]string{"x/evil.lua": "boom"})
			profileRoot := env.Profile("game", "default")
			secret := filepath.Join(packageRoot, filepath.FromSlash("../../secret.txt"))
			env.WriteFile(secret, "secret")

			plan := &types.Plan{}
			plan.Add(tt.source, tt.destination, true, false)

			result, err := executor.New(env.FS).Apply(context.Background(), plan, packageRoot, profileRoot)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
			assert.Empty(t, result.Written)
			assert.False(t, env.Exists(filepath.Join(profileRoot, filepath.FromSlash("mods/../../../../escaped"))))
			assert.False(t, env.Exists(filepath.Join(profileRoot, "mods")))
			assert.Equal(t, "secret", env.ReadFile(secret))
		})
	}
}

func TestUninstall_RefusesPathsOutsideProfile(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("/outside.txt", "keep")
	profileRoot := env.Profile("game", "default")

	_, err := executor.New(env.FS).Uninstall(context.Background(), profileRoot, []string{"../../../../outside.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, "keep", env.ReadFile("/outside.txt"))
}
