package logicalview

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// Struct tag keys
	tagDefault  = "default"
	tagRequired = "required"
)

// ProcessConfigDefaults applies `default:"value"` tags to every zero-valued
// field of cfg, recursing into nested structs.
//
// Supported field types are strings, booleans, integers, floats,
// time.Duration and string slices (given as a JSON array):
//
//	type ServerConfig struct {
//		Host    string        `default:"localhost"`
//		Port    int           `default:"8080"`
//		Timeout time.Duration `default:"15s"`
//		Origins []string      `default:"[\"*\"]"`
//	}
func ProcessConfigDefaults(cfg any) error {
	if cfg == nil {
		return ErrConfigNil
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrConfigNotPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrConfigNotStruct
	}

	return processStructDefaults(v)
}

func processStructDefaults(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := processStructDefaults(field); err != nil {
				return err
			}
			continue
		}

		// nil struct pointers stay nil
		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if !field.IsNil() {
				if err := processStructDefaults(field.Elem()); err != nil {
					return err
				}
			}
			continue
		}

		defaultVal, hasDefault := fieldType.Tag.Lookup(tagDefault)
		if !hasDefault || !field.IsZero() {
			continue
		}

		if err := setDefaultValue(field, defaultVal); err != nil {
			return fmt.Errorf("failed to set default value for %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setDefaultValue(field reflect.Value, defaultVal string) error {
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(defaultVal)
		if err != nil {
			return fmt.Errorf("failed to parse duration value: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() { //nolint:exhaustive // unsupported kinds share the default branch
	case reflect.String:
		field.SetString(defaultVal)
	case reflect.Bool:
		b, err := strconv.ParseBool(defaultVal)
		if err != nil {
			return fmt.Errorf("failed to parse bool value: %w", err)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(defaultVal, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int value: %w", err)
		}
		if field.OverflowInt(i) {
			return fmt.Errorf("%w: %d", ErrDefaultValueOverflowsInt, i)
		}
		field.SetInt(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(defaultVal, 64)
		if err != nil {
			return fmt.Errorf("failed to parse float value: %w", err)
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: %s", ErrUnsupportedTypeForDefault, field.Type())
		}
		var strs []string
		if err := json.Unmarshal([]byte(defaultVal), &strs); err != nil {
			return fmt.Errorf("failed to unmarshal JSON array: %w", err)
		}
		field.Set(reflect.ValueOf(strs).Convert(field.Type()))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTypeForDefault, field.Kind())
	}
	return nil
}

// ValidateConfigRequired checks every field tagged `required:"true"` and
// reports all zero-valued ones in a single error.
func ValidateConfigRequired(cfg any) error {
	if cfg == nil {
		return ErrConfigNil
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrConfigNotPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrConfigNotStruct
	}

	var missing []string
	validateRequiredFields(v, "", &missing)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigRequiredFieldMissing, strings.Join(missing, ", "))
	}
	return nil
}

func validateRequiredFields(v reflect.Value, prefix string, missing *[]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		name := fieldType.Name
		if prefix != "" {
			name = prefix + "." + name
		}

		if field.Kind() == reflect.Struct {
			validateRequiredFields(field, name, missing)
			continue
		}

		if fieldType.Tag.Get(tagRequired) == "true" && field.IsZero() {
			*missing = append(*missing, name)
		}
	}
}

// ValidateConfig validates a configuration using the following steps:
//  1. Processes default values
//  2. Validates required fields
//  3. If the config implements ConfigValidator, calls its Validate method
func ValidateConfig(cfg any) error {
	if cfg == nil {
		return ErrConfigNil
	}

	if err := ProcessConfigDefaults(cfg); err != nil {
		return err
	}

	if err := ValidateConfigRequired(cfg); err != nil {
		return err
	}

	if validator, ok := cfg.(ConfigValidator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrConfigValidationFailed, err)
		}
	}

	return nil
}

// GenerateSampleConfig renders a fresh instance of cfg's type, with its
// defaults applied, in the given format ("yaml", "toml" or "json").
func GenerateSampleConfig(cfg any, format string) ([]byte, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	t := reflect.TypeOf(cfg)
	if t.Kind() != reflect.Ptr {
		return nil, ErrConfigNotPointer
	}

	sample := reflect.New(t.Elem()).Interface()
	if err := ProcessConfigDefaults(sample); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "yaml":
		data, err := yaml.Marshal(sample)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		return data, nil
	case "toml":
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(sample); err != nil {
			return nil, fmt.Errorf("failed to marshal to TOML: %w", err)
		}
		return []byte(buf.String()), nil
	case "json":
		data, err := json.MarshalIndent(sample, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormatType, format)
	}
}

// SaveSampleConfig generates and saves a sample configuration file.
func SaveSampleConfig(cfg any, format, filePath string) error {
	data, err := GenerateSampleConfig(cfg, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file to %s: %w", filePath, err)
	}
	return nil
}
