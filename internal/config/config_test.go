package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/marble/form2"
	"github.com/soypat/marble/knot"
	"github.com/soypat/marble/track"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchTrack(t *testing.T) {
	tc, err := Defaults().TrackConfig()
	require.NoError(t, err)
	require.Equal(t, track.DefaultConfig(), tc)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
knot:
  samples: 50
  convention: legacy
profile:
  kind: u_shape
  wall: 1.5
track:
  up: [0, 1, 0]
output:
  png: preview.png
`))
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Knot.Samples)
	require.Equal(t, "legacy", cfg.Knot.Convention)
	require.Equal(t, "u_shape", cfg.Profile.Kind)
	require.Equal(t, 1.5, cfg.Profile.Wall)
	require.Equal(t, [3]float64{0, 1, 0}, cfg.Track.Up)
	require.Equal(t, "preview.png", cfg.Output.PNG)
	// Unset fields keep their defaults.
	require.Equal(t, Defaults().Knot.Scale, cfg.Knot.Scale)
	require.Equal(t, Defaults().Output.STL, cfg.Output.STL)

	tc, err := cfg.TrackConfig()
	require.NoError(t, err)
	require.Equal(t, knot.Legacy, tc.Knot.Convention)
	require.Equal(t, form2.UShape, tc.Profile)
}

func TestParseSchemaErrors(t *testing.T) {
	for _, doc := range []string{
		"knot:\n  samples: 0\n",
		"knot:\n  samples: 2.5\n",
		"profile:\n  kind: triangle\n",
		"profile:\n  wall: -1\n",
		"track:\n  up: [0, 1]\n",
		"unknown_section: true\n",
		"knot:\n  convention: sideways\n",
	} {
		_, err := Parse([]byte(doc))
		require.ErrorIs(t, err, ErrInvalid, "document %q", doc)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestSemanticErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Knot.T1 = cfg.Knot.T0
	_, err := cfg.TrackConfig()
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, track.ErrInvalidParameter)

	cfg = Defaults()
	cfg.Profile.Kind = "spiral"
	_, err = cfg.TrackConfig()
	require.ErrorIs(t, err, ErrInvalid)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marble.yaml")
	want := Defaults()
	want.Profile.Kind = string(form2.VShape)
	want.Track.MeshCells = 64
	want.Logging.Verbose = true
	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSamples, "120")
	t.Setenv(EnvProfile, "o_shape")
	t.Setenv(EnvConvention, "LEGACY")
	t.Setenv(EnvVerbose, "yes")
	t.Setenv(EnvLogFile, "/tmp/marble.log")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 120, cfg.Knot.Samples)
	require.Equal(t, "o_shape", cfg.Profile.Kind)
	require.Equal(t, "legacy", cfg.Knot.Convention)
	require.True(t, cfg.Logging.Verbose)
	require.Equal(t, "/tmp/marble.log", cfg.Logging.File)
}

func TestEnvOverrideErrors(t *testing.T) {
	t.Setenv(EnvMeshCells, "many")
	_, err := Load("")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
