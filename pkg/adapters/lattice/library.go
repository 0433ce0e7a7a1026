package lattice

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Any matches every vehicle model or type in a primitive file.
const Any = "*"

// File is the on-disk layout of a primitive set.
type File struct {
	Model      string      `yaml:"model"`
	Vehicle    string      `yaml:"vehicle"`
	Primitives []Primitive `yaml:"primitives"`
}

type key struct {
	model   string
	vehicle string
}

// Library implements ports.AutomatonProvider. Lookups prefer an exact
// (model, vehicle) match, then a wildcard on the vehicle, then on both.
type Library struct {
	mu   sync.RWMutex
	sets map[key]*Automaton
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{sets: make(map[key]*Automaton)}
}

// Add registers an automaton. Use Any as a wildcard.
func (l *Library) Add(model, vehicle string, a *Automaton) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sets[key{model, vehicle}] = a
}

// Automaton returns the primitive set for the vehicle.
func (l *Library) Automaton(model domain.VehicleModel, vehicle domain.VehicleType) (ports.Automaton, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, k := range []key{
		{string(model), string(vehicle)},
		{string(model), Any},
		{Any, Any},
	} {
		if a, ok := l.sets[k]; ok {
			return a, nil
		}
	}
	return nil, fmt.Errorf("no motion primitives for model %s and vehicle %s", model, vehicle)
}

// ParseFile decodes one YAML primitive set.
func ParseFile(data []byte) (*File, *Automaton, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse primitives: %w", err)
	}
	if f.Model == "" {
		f.Model = Any
	}
	if f.Vehicle == "" {
		f.Vehicle = Any
	}
	a, err := NewAutomaton(f.Primitives...)
	if err != nil {
		return nil, nil, err
	}
	return &f, a, nil
}

// LoadDir reads every .yaml/.yml file of dir into a new library.
func LoadDir(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read primitive directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	lib := NewLibrary()
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		f, a, err := ParseFile(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		lib.Add(f.Model, f.Vehicle, a)
	}
	return lib, nil
}

// Default returns a library with the built-in primitive set for every vehicle.
func Default() *Library {
	lib := NewLibrary()
	a, err := NewAutomaton(DefaultPrimitives()...)
	if err != nil {
		panic(err)
	}
	lib.Add(Any, Any, a)
	return lib
}

// DefaultPrimitives is a coarse built-in set. For every integer start speed
// from 0 to 15 m/s there are nine primitives: keep speed, speed up or slow down
// by 1 m/s, each straight or turning by 0.1 rad. Every primitive spans ten
// time steps of 0.1 s.
func DefaultPrimitives() []Primitive {
	const (
		steps  = 10
		dt     = 0.1
		vMax   = 15
		dTheta = 0.1
	)
	var out []Primitive
	for v0 := 0; v0 <= vMax; v0++ {
		for _, dv := range []int{0, 1, -1} {
			v1 := v0 + dv
			if v1 < 0 || v1 > vMax {
				continue
			}
			for _, turn := range []float64{0, dTheta, -dTheta} {
				out = append(out, Primitive{
					Name:  fmt.Sprintf("v%d_to_v%d_turn%+.1f", v0, v1, turn),
					From:  &domain.Interval{Start: float64(v0) - 0.5, End: float64(v0) + 0.5},
					Steps: integrate(float64(v0), float64(v1), turn, steps, dt),
				})
			}
		}
	}
	return out
}

// integrate rolls a unicycle forward with linear speed and heading profiles.
func integrate(v0, v1, turn float64, steps int, dt float64) []Step {
	out := make([]Step, steps)
	var pos domain.Vec2
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		v := v0 + (v1-v0)*frac
		theta := turn * frac
		pos = pos.Add(domain.Vec2{X: v * dt}.Rotate(theta))
		out[i-1] = Step{DX: pos.X, DY: pos.Y, DTheta: theta, Velocity: v, DT: i}
	}
	return out
}
