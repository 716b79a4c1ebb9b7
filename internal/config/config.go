// Package config implements §9's AnalysisConfig: a YAML file declaring
// additional native-rewrite/native-constraint name bindings layered on
// top of internal/lower's built-in table (internal/lower/native.go),
// strictly additive — nothing here can override or remove a built-in
// binding, only teach the lowerer names it doesn't already know.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RewriteKind names one of the handful of constraint-graph shapes
// internal/lower's built-in native rewrites already produce (§4.E);
// a config-declared rewrite picks one of these rather than describing
// arbitrary graph construction, so a YAML file stays data, never code.
type RewriteKind string

const (
	// RewriteArg passes one argument's already-lowered constraint value
	// straight through (the shape addi/subi/muli use).
	RewriteArg RewriteKind = "arg"
	// RewriteUnconstrained produces a bare irdl.any leaf (the shape
	// get_width uses).
	RewriteUnconstrained RewriteKind = "unconstrained"
	// RewriteParametricAny wraps an unconstrained irdl.any leaf and one
	// argument under a named parametric base (the shape get_zero uses).
	RewriteParametricAny RewriteKind = "parametric_any"
)

// NativeRewriteTemplate describes one additional native-rewrite binding.
type NativeRewriteTemplate struct {
	Kind RewriteKind `yaml:"kind"`
	// ArgIndex selects which call argument RewriteArg passes through or
	// RewriteParametricAny wraps.
	ArgIndex int `yaml:"argIndex"`
	// BaseType names the dialect-qualified base (e.g. "builtin.integer_attr")
	// RewriteParametricAny's base_type attribute carries.
	BaseType string `yaml:"baseType"`
}

// AnalysisConfig is the top-level shape of a --config file (§9).
type AnalysisConfig struct {
	// NativeConstraints extends internal/lower's nativeConstraintBases
	// table: constraint name -> dialect-qualified base name(s) that
	// satisfy it. A name already in the built-in table is left alone;
	// config entries only fill gaps.
	NativeConstraints map[string][]string `yaml:"nativeConstraints"`
	// NativeRewrites extends the native-rewrite table the same way.
	NativeRewrites map[string]NativeRewriteTemplate `yaml:"nativeRewrites"`
}

// Empty returns a config with no additional bindings, the default when
// no --config flag is given.
func Empty() *AnalysisConfig {
	return &AnalysisConfig{
		NativeConstraints: map[string][]string{},
		NativeRewrites:    map[string]NativeRewriteTemplate{},
	}
}

// Load reads and parses path as a §9 AnalysisConfig.
func Load(path string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Empty()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.NativeConstraints == nil {
		cfg.NativeConstraints = map[string][]string{}
	}
	if cfg.NativeRewrites == nil {
		cfg.NativeRewrites = map[string]NativeRewriteTemplate{}
	}
	return cfg, nil
}
