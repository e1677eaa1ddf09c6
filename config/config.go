// Package config defines the generator's configuration surface: the
// per-unit size bounds the generation engine reads directly, plus the
// external runner's compiler-setting and error-suppression surface,
// which the core carries through unevaluated.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Generation holds every bound the generation engine consults while
// synthesizing a compile unit. Every bound is a single value (there are
// no `*_target` / `*_min` fields) and is validated by Load so a
// malformed document is rejected before generation starts rather than
// mid-run.
type Generation struct {
	// NumRunsPerFunc is the number of `//# run 0xCAFE::ModuleX::funX`
	// directives emitted per callable function.
	NumRunsPerFunc int `yaml:"num_runs_per_func"`
	// MaxNumInlineFuncs caps the number of functions across the whole
	// compile unit that may be declared `inline`.
	MaxNumInlineFuncs int `yaml:"max_num_inline_funcs"`

	MaxNumModules            int `yaml:"max_num_modules"`
	MaxNumFunctionsInModule  int `yaml:"max_num_functions_in_module"`
	MaxNumStructsInModule    int `yaml:"max_num_structs_in_module"`

	MaxNumFieldsInStruct      int `yaml:"max_num_fields_in_struct"`
	MaxNumFieldsOfStructType  int `yaml:"max_num_fields_of_struct_type"`

	MaxNumStmtsInFunc                 int `yaml:"max_num_stmts_in_func"`
	MaxNumAdditionalOperationsInFunc  int `yaml:"max_num_additional_operations_in_func"`
	MaxNumParamsInFunc                int `yaml:"max_num_params_in_func"`
	// MaxNumStmtsInBlock has lowest priority: a function body is a
	// block, but MaxNumStmtsInFunc overrides this bound at the top
	// level.
	MaxNumStmtsInBlock int `yaml:"max_num_stmts_in_block"`

	MaxNumCallsInScript int `yaml:"max_num_calls_in_script"`

	MaxExprDepth int `yaml:"max_expr_depth"`
	MaxTypeDepth int `yaml:"max_type_depth"`

	MaxNumTypeParamsInFunc   int `yaml:"max_num_type_params_in_func"`
	MaxNumTypeParamsInStruct int `yaml:"max_num_type_params_in_struct"`

	GenerationTimeoutSec int `yaml:"generation_timeout_sec"`

	AllowRecursiveCalls bool `yaml:"allow_recursive_calls"`

	MaxHexByteStrSize int `yaml:"max_hex_byte_str_size"`
}

// CompilerSetting names a combination of the external runner's
// experiments to enable/disable. The core never interprets this; it is
// carried through so a harness can replay the same compiler
// configuration a crash was found under.
type CompilerSetting struct {
	Enable  []string `yaml:"enable"`
	Disable []string `yaml:"disable"`
}

// Experiments flattens Enable/Disable into (name, on) pairs, in
// enable-then-disable order.
func (c CompilerSetting) Experiments() []struct {
	Name string
	On   bool
} {
	out := make([]struct {
		Name string
		On   bool
	}, 0, len(c.Enable)+len(c.Disable))
	for _, e := range c.Enable {
		out = append(out, struct {
			Name string
			On   bool
		}{e, true})
	}
	for _, d := range c.Disable {
		out = append(out, struct {
			Name string
			On   bool
		}{d, false})
	}
	return out
}

// Fuzz holds the external runner's surface: which errors to ignore,
// where known-failure fixtures live, the named compiler configurations
// available, which of them run in the current session, and the
// transactional test timeout. None of this is read by the generation
// engine; it passes straight through to whatever executes the emitted
// source.
type Fuzz struct {
	IgnoreStrs             []string                    `yaml:"ignore_strs"`
	KnownErrorDir          string                      `yaml:"known_error_dir"`
	CompilerSettings       map[string]CompilerSetting  `yaml:"compiler_settings"`
	Runs                   []string                    `yaml:"runs"`
	TransactionalTimeoutSec int                        `yaml:"transactional_timeout_sec"`
}

// Config is the full document: the runner-facing Fuzz section plus the
// engine-facing Generation bounds.
type Config struct {
	Fuzz       Fuzz       `yaml:"fuzz"`
	Generation Generation `yaml:"generation"`
}

// RunSettings returns the (name, setting) pair for every name listed in
// Fuzz.Runs that has a matching entry in Fuzz.CompilerSettings. Unknown
// names are silently skipped, matching the reference tool's behavior.
func (c *Config) RunSettings() []struct {
	Name    string
	Setting CompilerSetting
} {
	out := make([]struct {
		Name    string
		Setting CompilerSetting
	}, 0, len(c.Fuzz.Runs))
	for _, name := range c.Fuzz.Runs {
		if setting, ok := c.Fuzz.CompilerSettings[name]; ok {
			out = append(out, struct {
				Name    string
				Setting CompilerSetting
			}{name, setting})
		}
	}
	return out
}

// Load reads and validates a YAML configuration document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes a YAML configuration document already in
// memory, used by tests and by callers that assemble a document
// in-process rather than from a file.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every bound is non-negative, and that
// max_num_modules, max_num_structs_in_module,
// max_num_functions_in_module and max_num_calls_in_script are at
// least 1.
func (c *Config) Validate() error {
	g := c.Generation
	checks := []struct {
		name string
		v    int
	}{
		{"max_num_modules", g.MaxNumModules},
		{"max_num_functions_in_module", g.MaxNumFunctionsInModule},
		{"max_num_structs_in_module", g.MaxNumStructsInModule},
		{"max_num_fields_in_struct", g.MaxNumFieldsInStruct},
		{"max_num_fields_of_struct_type", g.MaxNumFieldsOfStructType},
		{"max_num_stmts_in_func", g.MaxNumStmtsInFunc},
		{"max_num_additional_operations_in_func", g.MaxNumAdditionalOperationsInFunc},
		{"max_num_params_in_func", g.MaxNumParamsInFunc},
		{"max_num_stmts_in_block", g.MaxNumStmtsInBlock},
		{"max_num_calls_in_script", g.MaxNumCallsInScript},
		{"max_expr_depth", g.MaxExprDepth},
		{"max_type_depth", g.MaxTypeDepth},
		{"max_num_type_params_in_func", g.MaxNumTypeParamsInFunc},
		{"max_num_type_params_in_struct", g.MaxNumTypeParamsInStruct},
		{"generation_timeout_sec", g.GenerationTimeoutSec},
		{"max_hex_byte_str_size", g.MaxHexByteStrSize},
		{"num_runs_per_func", g.NumRunsPerFunc},
		{"max_num_inline_funcs", g.MaxNumInlineFuncs},
	}
	for _, check := range checks {
		if check.v < 0 {
			return fmt.Errorf("config: %s must be >= 0, got %d", check.name, check.v)
		}
	}
	if g.MaxNumModules == 0 {
		return fmt.Errorf("config: max_num_modules must be >= 1")
	}
	if g.MaxNumStructsInModule == 0 {
		return fmt.Errorf("config: max_num_structs_in_module must be >= 1")
	}
	if g.MaxNumFunctionsInModule == 0 {
		return fmt.Errorf("config: max_num_functions_in_module must be >= 1")
	}
	if g.MaxNumCallsInScript == 0 {
		return fmt.Errorf("config: max_num_calls_in_script must be >= 1")
	}
	return nil
}
