// Test Type: Unit Test
// Description: Tests renderer selection and the output of each format

package ui_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	modplanerrors "github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/types"
	"github.com/arthur-debert/modplan/pkg/ui"
	"github.com/arthur-debert/modplan/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *display.PlanResult {
	return &display.PlanResult{
		Game:    "Lethal Company",
		Loader:  "BepInEx",
		Package: "Author-Mod",
		Placer:  display.PlacerSubdir,
		Entries: []types.PlanEntry{
			{Source: "plugins/Mod.dll", Destination: "BepInEx/plugins/Mod.dll", Tracked: true},
			{Source: "config/Author.cfg", Destination: "BepInEx/config/Author.cfg", Preserve: true},
		},
		Warnings: []types.Warning{{Entry: "extras", Reason: "no rule matches this entry"}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  ui.Format
	}{
		{"", ui.FormatAuto},
		{"auto", ui.FormatAuto},
		{"term", ui.FormatTerminal},
		{"Terminal", ui.FormatTerminal},
		{"plain", ui.FormatText},
		{"json", ui.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ui.ParseFormat("xml")
	assert.Error(t, err)
	assert.Equal(t, "unknown", ui.Format(99).String())
	assert.Equal(t, []string{"auto", "term", "text", "json"}, ui.FormatNames())
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		want       ui.Format
		wantErr    bool
	}{
		{"flag_wins", "json", "text", ui.FormatJSON, false},
		{"setting_when_flag_unset", "", "plain", ui.FormatText, false},
		{"auto_when_both_unset", "", "", ui.FormatAuto, false},
		{"bad_flag", "xml", "text", ui.FormatAuto, true},
		{"bad_setting", "", "xml", ui.FormatAuto, true},
		{"flag_hides_bad_setting", "text", "xml", ui.FormatText, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ui.ResolveFormat(tt.flag, tt.configured)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRenderer(t *testing.T) {
	for _, f := range []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		t.Run(f.String(), func(t *testing.T) {
			r, err := ui.NewRenderer(f, &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}

	_, err := ui.NewRenderer(ui.Format(99), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTextRenderer_Plan(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	plan := samplePlan()
	plan.Applied = &display.ApplyResult{Profile: "/profiles/default", Written: []string{"a", "b"}}
	require.NoError(t, r.RenderResult(plan))

	out := buf.String()
	assert.Contains(t, out, "Author-Mod: subdir placer (BepInEx, Lethal Company)")
	assert.Contains(t, out, "  plugins/Mod.dll -> BepInEx/plugins/Mod.dll\n")
	assert.Contains(t, out, "  config/Author.cfg -> BepInEx/config/Author.cfg [untracked,preserve]\n")
	assert.Contains(t, out, "warning: extras: no rule matches this entry")
	assert.Contains(t, out, "applied to /profiles/default: 2 written, 0 preserved")
}

func TestTextRenderer_EmptyPlanAndGames(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(&display.PlanResult{Package: "Only-Meta", Placer: display.PlacerSubdir, Loader: "Lovely"}))
	assert.Contains(t, buf.String(), "nothing to place")

	buf.Reset()
	require.NoError(t, r.RenderResult(&display.GameList{Games: []display.GameRow{
		{Slug: "balatro", Name: "Balatro", Loader: "Lovely"},
		{Slug: "lethal-company", Name: "Lethal Company", Loader: "BepInEx"},
	}}))
	assert.Equal(t, "balatro         Lovely   Balatro\nlethal-company  BepInEx  Lethal Company\n", buf.String())
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatJSON, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(samplePlan()))

	var decoded display.PlanResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *samplePlan(), decoded)

	buf.Reset()
	cfgErr := modplanerrors.New(modplanerrors.ErrGameNotFound, "no game").WithDetail("game", "x")
	require.NoError(t, r.RenderError(cfgErr))

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.Equal(t, "GAME_NOT_FOUND", obj["code"])
	assert.Equal(t, map[string]interface{}{"game": "x"}, obj["details"])

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New("plain")))
	assert.NotContains(t, buf.String(), "code")
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatTerminal, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(samplePlan()))
	out := buf.String()
	assert.Contains(t, out, "plugins/Mod.dll")
	assert.Contains(t, out, "BepInEx/config/Author.cfg")
	assert.Contains(t, out, "no rule matches this entry")

	buf.Reset()
	info := &display.LoaderInfo{Loader: "Lovely", SelfPackage: "Thunderstore-lovely", ConfigDir: "."}
	require.NoError(t, r.RenderResult(info))
	assert.Contains(t, buf.String(), "Lovely")
}

func TestLoaderInfo_Markdown(t *testing.T) {
	info := &display.LoaderInfo{
		Game:        "Lethal Company",
		Loader:      "BepInEx",
		SelfPackage: "BepInEx-BepInExPack",
		SelfFiles:   []string{"BepInEx", "winhttp.dll"},
		Flatten:     true,
		Rules: []display.RuleRow{
			{Name: "plugins", Target: "BepInEx/plugins", Layout: "flat", Tracking: "tracked", PerPackage: true, Default: true},
			{Name: "monomod", Target: "BepInEx/monomod", Layout: "flat", Tracking: "tracked", Extension: ".mm.dll"},
			{Name: "config", Target: "BepInEx/config", Layout: "flat", Tracking: "untracked", Mutable: true},
		},
		Ignored:      []string{"manifest.json"},
		LogPath:      "BepInEx/LogOutput.log",
		ConfigDir:    "BepInEx/config",
		ProxyLibrary: "winhttp",
	}

	md := info.Markdown()
	assert.Contains(t, md, "# BepInEx\n")
	assert.Contains(t, md, "Recognised as `BepInEx-BepInExPack`, top-level directory stripped on install.")
	assert.Contains(t, md, "| `plugins` | `BepInEx/plugins` | flat | tracked | default, one directory per package |")
	assert.Contains(t, md, "| `monomod` | `BepInEx/monomod` | flat | tracked | only `*.mm.dll` |")
	assert.Contains(t, md, "| `config` | `BepInEx/config` | flat | untracked | user-editable |")
	assert.Contains(t, md, "Ignored: `manifest.json`")
	assert.Contains(t, md, "- Proxy library: `winhttp`")
}
