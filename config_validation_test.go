package logicalview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type ValidationTestConfig struct {
	Name     string            `yaml:"name" toml:"name" default:"Default Name" desc:"Name of the config"`
	Port     int               `yaml:"port" toml:"port" default:"8080" required:"true" desc:"Port to listen on"`
	Debug    bool              `yaml:"debug" toml:"debug" default:"false" desc:"Enable debug mode"`
	Ratio    float64           `yaml:"ratio" toml:"ratio" default:"0.5" desc:"Sample ratio"`
	Timeout  time.Duration     `yaml:"timeout" toml:"timeout" default:"15s" desc:"Request timeout"`
	Tags     []string          `yaml:"tags" toml:"tags" default:"[\"tag1\", \"tag2\"]" desc:"List of tags"`
	Env      string            `yaml:"env" toml:"env" required:"true" desc:"Environment (dev, test, prod)"`
	Nested   NestedTestConfig  `yaml:"nested" toml:"nested" desc:"Nested configuration"`
	Optional *NestedTestConfig `yaml:"optional,omitempty" toml:"optional,omitempty" desc:"Optional nested configuration"`
}

type NestedTestConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled" default:"true" desc:"Enable the nested feature"`
	APIKey  string `yaml:"api_key" toml:"api_key" required:"true" desc:"API key for authentication"`
}

var errPrivilegedPort = errors.New("privileged port")

func (c *ValidationTestConfig) Validate() error {
	if c.Port < 1024 {
		return errPrivilegedPort
	}
	return nil
}

func TestProcessConfigDefaults(t *testing.T) {
	cfg := &ValidationTestConfig{Name: "Custom Name"}
	require.NoError(t, ProcessConfigDefaults(cfg))

	assert.Equal(t, &ValidationTestConfig{
		Name:    "Custom Name",
		Port:    8080,
		Ratio:   0.5,
		Timeout: 15 * time.Second,
		Tags:    []string{"tag1", "tag2"},
		Nested:  NestedTestConfig{Enabled: true},
	}, cfg)

	assert.ErrorIs(t, ProcessConfigDefaults(nil), ErrConfigNil)
	assert.ErrorIs(t, ProcessConfigDefaults(ValidationTestConfig{}), ErrConfigNotPointer)
	n := 1
	assert.ErrorIs(t, ProcessConfigDefaults(&n), ErrConfigNotStruct)
}

func TestProcessConfigDefaultsErrors(t *testing.T) {
	type badInt struct {
		Small int8 `default:"1000"`
	}
	assert.ErrorIs(t, ProcessConfigDefaults(&badInt{}), ErrDefaultValueOverflowsInt)

	type badKind struct {
		Weights []int `default:"[1]"`
	}
	assert.ErrorIs(t, ProcessConfigDefaults(&badKind{}), ErrUnsupportedTypeForDefault)

	type badDuration struct {
		Wait time.Duration `default:"soon"`
	}
	assert.Error(t, ProcessConfigDefaults(&badDuration{}))
}

func TestValidateConfigRequired(t *testing.T) {
	err := ValidateConfigRequired(&ValidationTestConfig{})
	require.ErrorIs(t, err, ErrConfigRequiredFieldMissing)
	assert.Contains(t, err.Error(), "Port")
	assert.Contains(t, err.Error(), "Env")
	assert.Contains(t, err.Error(), "Nested.APIKey")

	assert.NoError(t, ValidateConfigRequired(&ValidationTestConfig{
		Port:   8080,
		Env:    "dev",
		Nested: NestedTestConfig{APIKey: "key"},
	}))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *ValidationTestConfig
		err  error
	}{
		{"valid", &ValidationTestConfig{Env: "dev", Nested: NestedTestConfig{APIKey: "key"}}, nil},
		{"missing required", &ValidationTestConfig{Nested: NestedTestConfig{APIKey: "key"}}, ErrConfigRequiredFieldMissing},
		{"custom validation", &ValidationTestConfig{Port: 80, Env: "dev", Nested: NestedTestConfig{APIKey: "key"}}, errPrivilegedPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.err == nil {
				require.NoError(t, err)
				assert.Equal(t, 8080, tt.cfg.Port)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}

	err := ValidateConfig(&ValidationTestConfig{Port: 80, Env: "dev", Nested: NestedTestConfig{APIKey: "key"}})
	assert.ErrorIs(t, err, ErrConfigValidationFailed)
	assert.ErrorIs(t, ValidateConfig(nil), ErrConfigNil)
}

func TestGenerateSampleConfig(t *testing.T) {
	data, err := GenerateSampleConfig(&ValidationTestConfig{Name: "ignored"}, "yaml")
	require.NoError(t, err)

	var sample map[string]any
	require.NoError(t, yaml.Unmarshal(data, &sample))
	assert.Equal(t, "Default Name", sample["name"])
	assert.Equal(t, 8080, sample["port"])
	assert.Equal(t, "15s", sample["timeout"])
	assert.Equal(t, []any{"tag1", "tag2"}, sample["tags"])

	data, err = GenerateSampleConfig(&ValidationTestConfig{}, "toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `name = "Default Name"`)
	assert.Contains(t, string(data), "[nested]")

	data, err = GenerateSampleConfig(&ValidationTestConfig{}, "json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Port": 8080`)

	_, err = GenerateSampleConfig(&ValidationTestConfig{}, "ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormatType)
	_, err = GenerateSampleConfig(ValidationTestConfig{}, "yaml")
	assert.ErrorIs(t, err, ErrConfigNotPointer)
}

func TestSaveSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, SaveSampleConfig(&ValidationTestConfig{}, "yaml", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Default Name")

	assert.Error(t, SaveSampleConfig(&ValidationTestConfig{}, "yaml", filepath.Join(t.TempDir(), "missing", "sample.yaml")))
}

type sectionFeeder struct {
	sections map[string]string
	err      error
}

func (f sectionFeeder) Feed(any) error { return f.err }

func (f sectionFeeder) FeedKey(key string, target any) error {
	if cfg, ok := target.(*testModuleConfig); ok {
		if v, ok := f.sections[key]; ok {
			cfg.Greeting = v
		}
	}
	return nil
}

func TestAppConfigLoader(t *testing.T) {
	t.Run("feeds sections", func(t *testing.T) {
		app := NewStdApplication(NewStdConfigProvider(&struct{}{}), testLogger())
		a := &testModule{name: "a", log: &callLog{}}
		b := &testModule{name: "b", log: &callLog{}}
		app.RegisterModule(a)
		app.RegisterModule(b)
		app.SetConfigFeeders(sectionFeeder{sections: map[string]string{"a": "hej"}})

		require.NoError(t, app.Init())
		assert.Equal(t, "hej", a.config.Greeting)
		assert.Equal(t, "hello", b.config.Greeting)
	})

	t.Run("feeder error", func(t *testing.T) {
		app := NewStdApplication(NewStdConfigProvider(&struct{}{}), testLogger())
		app.SetConfigFeeders(sectionFeeder{err: errors.New("unreadable")})
		assert.ErrorIs(t, app.Init(), ErrConfigFeederError)
	})

	t.Run("main config validation", func(t *testing.T) {
		app := NewStdApplication(NewStdConfigProvider(&ValidationTestConfig{}), testLogger())
		assert.ErrorIs(t, app.Init(), ErrConfigRequiredFieldMissing)
	})

	t.Run("nil provider", func(t *testing.T) {
		app := NewStdApplication(nil, testLogger())
		assert.ErrorIs(t, app.Init(), ErrConfigProviderNil)
	})
}
