package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/search"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Batch-level keys.
const (
	KeyInputPath  = "input_path"
	KeyOutputPath = "output_path"
	KeyWorkers    = "num_worker_processes"
	KeyDefault    = "default"
)

// keys that may appear at the top level and then act as defaults.
var inheritable = []string{"overwrite", "validate_solution"}

// required lists the keys every resolved scenario config must carry.
var required = []string{
	"vehicle_model",
	"vehicle_type",
	"cost_function",
	"planner",
	"planning_problem_idx",
	"max_tree_depth",
	"timeout",
}

// Config is the resolved parameter set of one scenario. It is read-only once resolved.
type Config struct {
	VehicleModel       domain.VehicleModel `mapstructure:"vehicle_model" json:"vehicle_model" yaml:"vehicle_model"`
	VehicleType        domain.VehicleType  `mapstructure:"vehicle_type" json:"vehicle_type" yaml:"vehicle_type"`
	CostFunction       string              `mapstructure:"cost_function" json:"cost_function" yaml:"cost_function"`
	Planner            string              `mapstructure:"planner" json:"planner" yaml:"planner"`
	PlanningProblemIdx int                 `mapstructure:"planning_problem_idx" json:"planning_problem_idx" yaml:"planning_problem_idx"`
	MaxTreeDepth       int                 `mapstructure:"max_tree_depth" json:"max_tree_depth" yaml:"max_tree_depth"`
	Timeout            float64             `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	ValidateSolution   bool                `mapstructure:"validate_solution" json:"validate_solution" yaml:"validate_solution"`
	Overwrite          bool                `mapstructure:"overwrite" json:"overwrite" yaml:"overwrite"`
	WeightG            float64             `mapstructure:"weight_g" json:"weight_g" yaml:"weight_g"`
	WeightH            float64             `mapstructure:"weight_h" json:"weight_h" yaml:"weight_h"`
	ObstacleWeight     float64             `mapstructure:"obstacle_weight" json:"obstacle_weight" yaml:"obstacle_weight"`
}

// TimeoutDuration converts the timeout in seconds.
func (c Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}

// Weights returns the A* weights.
func (c Config) Weights() search.Weights {
	return search.Weights{G: c.WeightG, H: c.WeightH}
}

// Validate checks enums and ranges.
func (c Config) Validate() error {
	switch {
	case !c.VehicleModel.Valid():
		return &domain.ConfigError{Key: "vehicle_model", Reason: fmt.Sprintf("unknown value %q", c.VehicleModel)}
	case !c.VehicleType.Valid():
		return &domain.ConfigError{Key: "vehicle_type", Reason: fmt.Sprintf("unknown value %q", c.VehicleType)}
	case strings.TrimSpace(c.CostFunction) == "":
		return &domain.ConfigError{Key: "cost_function", Reason: "must not be empty"}
	case strings.TrimSpace(c.Planner) == "":
		return &domain.ConfigError{Key: "planner", Reason: "must not be empty"}
	case c.PlanningProblemIdx < 0:
		return &domain.ConfigError{Key: "planning_problem_idx", Reason: "must be non-negative"}
	case c.MaxTreeDepth <= 0:
		return &domain.ConfigError{Key: "max_tree_depth", Reason: "must be positive"}
	case c.Timeout <= 0:
		return &domain.ConfigError{Key: "timeout", Reason: "must be positive"}
	case c.WeightG < 0 || c.WeightH < 0:
		return &domain.ConfigError{Key: "weight_g/weight_h", Reason: "must be non-negative"}
	case c.WeightG == 0 && c.WeightH == 0:
		return &domain.ConfigError{Key: "weight_g/weight_h", Reason: "must not both be zero"}
	case c.ObstacleWeight < 0:
		return &domain.ConfigError{Key: "obstacle_weight", Reason: "must be non-negative"}
	}
	return nil
}

// Batch is a parsed batch file.
type Batch struct {
	InputPath  string
	OutputPath string
	Workers    int

	defaults  map[string]any
	overrides map[string]map[string]any
}

// Load reads a batch file (YAML, or JSON for a .json extension). Relative
// input and output paths are resolved against the file's directory.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch config: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	b, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	b.InputPath = resolvePath(dir, b.InputPath)
	b.OutputPath = resolvePath(dir, b.OutputPath)
	return b, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Parse decodes a batch document in the given format ("yaml" or "json").
func Parse(data []byte, format string) (*Batch, error) {
	raw := map[string]any{}
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &domain.ConfigError{Key: "document", Reason: err.Error()}
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &domain.ConfigError{Key: "document", Reason: err.Error()}
		}
	}
	return fromMap(raw)
}

// New builds a batch from already-decoded blocks. overrides may be nil.
func New(defaults map[string]any, overrides map[string]map[string]any) (*Batch, error) {
	raw := map[string]any{KeyDefault: defaults}
	for id, block := range overrides {
		raw[id] = block
	}
	return fromMap(raw)
}

func fromMap(raw map[string]any) (*Batch, error) {
	b := &Batch{
		Workers:   runtime.NumCPU(),
		overrides: map[string]map[string]any{},
	}

	def, ok := raw[KeyDefault]
	if !ok || def == nil {
		return nil, &domain.ConfigError{Key: KeyDefault, Reason: "missing block"}
	}
	defaults, ok := asBlock(def)
	if !ok {
		return nil, &domain.ConfigError{Key: KeyDefault, Reason: "must be a mapping"}
	}
	b.defaults = defaults

	for key, val := range raw {
		switch key {
		case KeyDefault:
		case KeyInputPath, KeyOutputPath:
			s, ok := val.(string)
			if !ok {
				return nil, &domain.ConfigError{Key: key, Reason: "must be a string"}
			}
			if key == KeyInputPath {
				b.InputPath = s
			} else {
				b.OutputPath = s
			}
		case KeyWorkers:
			var n int
			if err := decode(val, &n); err != nil || n < 1 {
				return nil, &domain.ConfigError{Key: key, Reason: "must be a positive integer"}
			}
			b.Workers = n
		default:
			if isInheritable(key) {
				if _, set := b.defaults[key]; !set {
					b.defaults[key] = val
				}
				continue
			}
			block, ok := asBlock(val)
			if !ok {
				return nil, &domain.ConfigError{Key: key, Reason: "unknown batch key"}
			}
			b.overrides[key] = block
		}
	}

	// a malformed default block poisons every scenario, so reject it up front
	var probe Config
	if err := decode(b.defaults, &probe); err != nil {
		return nil, &domain.ConfigError{Key: KeyDefault, Reason: err.Error()}
	}
	return b, nil
}

func isInheritable(key string) bool {
	for _, k := range inheritable {
		if k == key {
			return true
		}
	}
	return false
}

func asBlock(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Overrides returns the scenario ids that have an override block, sorted.
func (b *Batch) Overrides() []string {
	ids := make([]string, 0, len(b.overrides))
	for id := range b.overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve merges the default block with the scenario's override block.
func (b *Batch) Resolve(scenarioID string) (Config, error) {
	merged := make(map[string]any, len(b.defaults))
	for k, v := range b.defaults {
		merged[k] = v
	}
	for k, v := range b.overrides[scenarioID] {
		merged[k] = v
	}

	for _, key := range required {
		if v, ok := merged[key]; !ok || v == nil {
			return Config{}, &domain.ConfigError{Scenario: scenarioID, Key: key, Reason: "missing required key"}
		}
	}

	cfg := Config{WeightG: search.DefaultWeights.G, WeightH: search.DefaultWeights.H}
	if err := decode(merged, &cfg); err != nil {
		return Config{}, &domain.ConfigError{Scenario: scenarioID, Key: "block", Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		var ce *domain.ConfigError
		if errors.As(err, &ce) {
			ce.Scenario = scenarioID
		}
		return Config{}, err
	}
	return cfg, nil
}

// ResolveAll resolves every scenario, stopping at the first invalid one.
func (b *Batch) ResolveAll(scenarioIDs []string) (map[string]Config, error) {
	ids := append([]string(nil), scenarioIDs...)
	sort.Strings(ids)

	out := make(map[string]Config, len(ids))
	for _, id := range ids {
		cfg, err := b.Resolve(id)
		if err != nil {
			return nil, err
		}
		out[id] = cfg
	}
	return out, nil
}
