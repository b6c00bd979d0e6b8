package balance

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"example.com/ai-business-plan/backend/internal/plan"
)

//go:embed targets.yaml
var defaultTargetsYAML []byte

var ErrInvalidTargets = errors.New("invalid balance targets")

// Target is the inclusive word-count range of one plan field.
type Target struct {
	Path          string `yaml:"path"`
	Min           int    `yaml:"min"`
	Max           int    `yaml:"max"`
	Markdown      bool   `yaml:"markdown"`
	Deterministic bool   `yaml:"deterministic"`

	field plan.TextField
}

// Contains reports whether words lies in [Min, Max].
func (t Target) Contains(words int) bool {
	return words >= t.Min && words <= t.Max
}

// Targets is an immutable, ordered table of field targets.
type Targets struct {
	items []Target
}

type targetsFile struct {
	Targets []Target `yaml:"targets"`
}

// DefaultTargets возвращает встроенную таблицу целей.
func DefaultTargets() (Targets, error) {
	return ParseTargets(defaultTargetsYAML)
}

// LoadTargets читает таблицу из файла; пустой путь означает встроенную таблицу.
func LoadTargets(path string) (Targets, error) {
	if path == "" {
		return DefaultTargets()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Targets{}, fmt.Errorf("read balance targets: %w", err)
	}

	return ParseTargets(data)
}

// ParseTargets разбирает YAML и проверяет, что каждый путь указывает на известное текстовое поле.
func ParseTargets(data []byte) (Targets, error) {
	var file targetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Targets{}, fmt.Errorf("%w: %v", ErrInvalidTargets, err)
	}
	if len(file.Targets) == 0 {
		return Targets{}, fmt.Errorf("%w: no targets defined", ErrInvalidTargets)
	}

	seen := make(map[string]struct{}, len(file.Targets))
	items := make([]Target, 0, len(file.Targets))
	for _, target := range file.Targets {
		field, ok := plan.LookupTextField(target.Path)
		if !ok {
			return Targets{}, fmt.Errorf("%w: unknown field %q", ErrInvalidTargets, target.Path)
		}
		if _, dup := seen[target.Path]; dup {
			return Targets{}, fmt.Errorf("%w: duplicate field %q", ErrInvalidTargets, target.Path)
		}
		if target.Min < 0 || target.Max <= 0 || target.Min > target.Max {
			return Targets{}, fmt.Errorf("%w: bad range [%d, %d] for %q", ErrInvalidTargets, target.Min, target.Max, target.Path)
		}

		seen[target.Path] = struct{}{}
		target.field = field
		items = append(items, target)
	}

	return Targets{items: items}, nil
}

// All возвращает копию таблицы в порядке объявления.
func (t Targets) All() []Target {
	return append([]Target(nil), t.items...)
}

func (t Targets) Len() int {
	return len(t.items)
}

// Lookup ищет цель по пути поля.
func (t Targets) Lookup(path string) (Target, bool) {
	for _, target := range t.items {
		if target.Path == path {
			return target, true
		}
	}

	return Target{}, false
}
