// Package config loads the marble YAML configuration. Values are resolved in
// order: defaults, the YAML file, then MARBLE_* environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soypat/marble/form2"
	"github.com/soypat/marble/knot"
	"github.com/soypat/marble/track"
	"github.com/xeipuuv/gojsonschema"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schema []byte

// ErrInvalid is returned when the configuration does not conform to the schema
// or describes an impossible track.
var ErrInvalid = errors.New("invalid configuration")

type KnotConfig struct {
	T0         float64 `yaml:"t0"`
	T1         float64 `yaml:"t1"`
	Samples    int     `yaml:"samples"`
	Scale      float64 `yaml:"scale"`
	Convention string  `yaml:"convention"`
}

type TrackConfig struct {
	LeadLength float64    `yaml:"lead_length"`
	Resolution float64    `yaml:"resolution"`
	MeshCells  int        `yaml:"mesh_cells"`
	Up         [3]float64 `yaml:"up,flow"`
	Material   string     `yaml:"material"`
}

type ProfileConfig struct {
	Kind          string  `yaml:"kind"`
	HeightWidth   float64 `yaml:"height_width"`
	Wall          float64 `yaml:"wall"`
	LowerDistance float64 `yaml:"lower_distance"`
	Factor        float64 `yaml:"factor"`
	RotationDeg   float64 `yaml:"rotation_deg"`
}

// OutputConfig names the files written by the CLI. Empty names are skipped.
type OutputConfig struct {
	STL     string `yaml:"stl"`
	ThreeMF string `yaml:"threemf"`
	PNG     string `yaml:"png"`
	SVG     string `yaml:"svg"`
	DXF     string `yaml:"dxf"`
	Chart   string `yaml:"chart"`
}

type LoggingConfig struct {
	Verbose bool   `yaml:"verbose"`
	File    string `yaml:"file"`
}

// Config is the content of a marble.yaml file.
type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Knot          KnotConfig    `yaml:"knot"`
	Track         TrackConfig   `yaml:"track"`
	Profile       ProfileConfig `yaml:"profile"`
	Output        OutputConfig  `yaml:"output"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the configuration of the overhand knot piece of a 10mm node grid.
func Defaults() Config {
	tc := track.DefaultConfig()
	pp := tc.ProfileParams
	return Config{
		ConfigVersion: 1,
		Knot: KnotConfig{
			T0:         tc.Knot.T0,
			T1:         tc.Knot.T1,
			Samples:    tc.Knot.Samples,
			Scale:      tc.Knot.Scale,
			Convention: tc.Knot.Convention.String(),
		},
		Track: TrackConfig{
			LeadLength: tc.LeadLength,
			Resolution: tc.Resolution,
			MeshCells:  tc.MeshCells,
			Up:         [3]float64{tc.Up.X, tc.Up.Y, tc.Up.Z},
			Material:   tc.Material,
		},
		Profile: ProfileConfig{
			Kind:          string(tc.Profile),
			HeightWidth:   pp.HeightWidth,
			Wall:          pp.Wall,
			LowerDistance: pp.LowerDistance,
			Factor:        pp.Factor,
			RotationDeg:   pp.Rotation * 180 / math.Pi,
		},
		Output: OutputConfig{STL: "marble.stl"},
	}
}

// Env var names used as overrides.
const (
	EnvSamples     = "MARBLE_SAMPLES"
	EnvConvention  = "MARBLE_CONVENTION"
	EnvScale       = "MARBLE_SCALE"
	EnvProfile     = "MARBLE_PROFILE"
	EnvHeightWidth = "MARBLE_HEIGHT_WIDTH"
	EnvWall        = "MARBLE_WALL"
	EnvMeshCells   = "MARBLE_MESH_CELLS"
	EnvSTL         = "MARBLE_STL"
	EnvVerbose     = "MARBLE_VERBOSE"
	EnvLogFile     = "MARBLE_LOG_FILE"
)

// Load reads the YAML file at path over the defaults and applies environment
// overrides. An empty path loads the defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if cfg, err = Parse(data); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if _, err := cfg.TrackConfig(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse validates data against the configuration schema and decodes it over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cfg, err
	}
	if doc == nil {
		// Empty document.
		return cfg, nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return cfg, err
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			msgs[i] = e.String()
		}
		return cfg, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TrackConfig converts cfg to the track pipeline configuration and validates it.
func (cfg Config) TrackConfig() (track.Config, error) {
	conv, err := knot.ParseConvention(cfg.Knot.Convention)
	if err != nil {
		return track.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	tc := track.Config{
		Knot: knot.Config{
			T0:         cfg.Knot.T0,
			T1:         cfg.Knot.T1,
			Samples:    cfg.Knot.Samples,
			Scale:      cfg.Knot.Scale,
			Convention: conv,
		},
		LeadLength: cfg.Track.LeadLength,
		Profile:    form2.ProfileKind(cfg.Profile.Kind),
		ProfileParams: form2.ProfileParams{
			HeightWidth:   cfg.Profile.HeightWidth,
			Wall:          cfg.Profile.Wall,
			LowerDistance: cfg.Profile.LowerDistance,
			Factor:        cfg.Profile.Factor,
			Rotation:      cfg.Profile.RotationDeg * math.Pi / 180,
		},
		Up:         r3.Vec{X: cfg.Track.Up[0], Y: cfg.Track.Up[1], Z: cfg.Track.Up[2]},
		Resolution: cfg.Track.Resolution,
		MeshCells:  cfg.Track.MeshCells,
		Material:   cfg.Track.Material,
	}
	if !knownKind(tc.Profile) {
		return tc, fmt.Errorf("%w: unknown profile kind %q", ErrInvalid, cfg.Profile.Kind)
	}
	if err := tc.Validate(); err != nil {
		return tc, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return tc, nil
}

func knownKind(k form2.ProfileKind) bool {
	for _, kind := range form2.ProfileKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func applyEnvOverrides(cfg *Config) error {
	var err error
	envInt := func(name string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = fmt.Errorf("%w: %s=%q: %w", ErrInvalid, name, v, perr)
				return
			}
			*dst = n
		}
	}
	envFloat := func(name string, dst *float64) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" && err == nil {
			f, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				err = fmt.Errorf("%w: %s=%q: %w", ErrInvalid, name, v, perr)
				return
			}
			*dst = f
		}
	}
	envString := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	envInt(EnvSamples, &cfg.Knot.Samples)
	envFloat(EnvScale, &cfg.Knot.Scale)
	envString(EnvConvention, &cfg.Knot.Convention)
	cfg.Knot.Convention = strings.ToLower(cfg.Knot.Convention)
	envString(EnvProfile, &cfg.Profile.Kind)
	envFloat(EnvHeightWidth, &cfg.Profile.HeightWidth)
	envFloat(EnvWall, &cfg.Profile.Wall)
	envInt(EnvMeshCells, &cfg.Track.MeshCells)
	envString(EnvSTL, &cfg.Output.STL)
	envString(EnvLogFile, &cfg.Logging.File)
	if v := strings.TrimSpace(os.Getenv(EnvVerbose)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Verbose = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	return err
}
