package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validDoc = `
fuzz:
  ignore_strs: ["UNREACHABLE"]
  known_error_dir: "known_errors"
  compiler_settings:
    default:
      enable: ["optimize"]
      disable: []
  runs: ["default"]
  transactional_timeout_sec: 60
generation:
  num_runs_per_func: 1
  max_num_inline_funcs: 2
  max_num_modules: 3
  max_num_functions_in_module: 5
  max_num_structs_in_module: 4
  max_num_fields_in_struct: 4
  max_num_fields_of_struct_type: 8
  max_num_stmts_in_func: 10
  max_num_additional_operations_in_func: 3
  max_num_params_in_func: 4
  max_num_stmts_in_block: 6
  max_num_calls_in_script: 4
  max_expr_depth: 4
  max_type_depth: 3
  max_num_type_params_in_func: 2
  max_num_type_params_in_struct: 2
  generation_timeout_sec: 30
  allow_recursive_calls: false
  max_hex_byte_str_size: 32
`

func TestParse_ValidDocument(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	require.Equal(t, 3, c.Generation.MaxNumModules)
	require.Equal(t, []string{"default"}, c.Fuzz.Runs)
}

func TestParse_RejectsZeroMaxModules(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
generation:
  max_num_modules: 0
  max_num_structs_in_module: 1
  max_num_functions_in_module: 1
  max_num_calls_in_script: 1
`))
	require.Error(t, err)
}

func TestParse_RejectsNegativeBound(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
generation:
  max_num_modules: 1
  max_num_structs_in_module: 1
  max_num_functions_in_module: 1
  max_num_calls_in_script: 1
  max_expr_depth: -1
`))
	require.Error(t, err)
}

func TestConfig_RunSettings_SkipsUnknownNames(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	c.Fuzz.Runs = append(c.Fuzz.Runs, "does-not-exist")

	got := c.RunSettings()
	require.Len(t, got, 1)
	require.Equal(t, "default", got[0].Name)
}

func TestCompilerSetting_Experiments_EnableThenDisable(t *testing.T) {
	t.Parallel()

	cs := CompilerSetting{Enable: []string{"a"}, Disable: []string{"b"}}
	got := cs.Experiments()
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Name)
	require.True(t, got[0].On)
	require.Equal(t, "b", got[1].Name)
	require.False(t, got[1].On)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
}
