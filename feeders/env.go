package feeders

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/golobby/cast"
)

// EnvFeeder is a feeder that reads prefixed environment variables into
// fields tagged with `env`.
//
// A field tagged `env:"PORT"` is read from PREFIX_PORT. Nested structs are
// walked; when the struct field itself carries an env tag it extends the
// prefix, so Log.Level with `env:"LOG"` / `env:"LEVEL"` reads PREFIX_LOG_LEVEL.
type EnvFeeder struct {
	Prefix string
}

// NewEnvFeeder creates a new EnvFeeder with the given prefix.
func NewEnvFeeder(prefix string) EnvFeeder {
	return EnvFeeder{Prefix: prefix}
}

// Feed reads environment variables and populates the provided structure.
func (f EnvFeeder) Feed(structure any) error {
	return f.feed(f.Prefix, structure)
}

// FeedKey populates a configuration section from PREFIX_KEY_* variables.
func (f EnvFeeder) FeedKey(key string, target any) error {
	return f.feed(f.Prefix+"_"+key, target)
}

func (f EnvFeeder) feed(prefix string, structure any) error {
	if prefix == "" {
		return ErrEnvEmptyPrefix
	}

	inputType := reflect.TypeOf(structure)
	if inputType == nil || inputType.Kind() != reflect.Ptr || inputType.Elem().Kind() != reflect.Struct {
		return ErrEnvInvalidStructure
	}

	return processStructFields(reflect.ValueOf(structure).Elem(), envName(prefix))
}

// processStructFields iterates through struct fields
func processStructFields(rv reflect.Value, prefix string) error {
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rv.Type().Field(i)

		if !fieldType.IsExported() {
			continue
		}

		if err := processField(field, &fieldType, prefix); err != nil {
			return fmt.Errorf("error in field '%s': %w", fieldType.Name, err)
		}
	}
	return nil
}

// processField handles a single struct field
func processField(field reflect.Value, fieldType *reflect.StructField, prefix string) error {
	envTag, hasTag := fieldType.Tag.Lookup("env")

	switch field.Kind() { //nolint:exhaustive // every other kind is a leaf
	case reflect.Struct:
		if hasTag {
			prefix = prefix + "_" + envName(envTag)
		}
		return processStructFields(field, prefix)
	case reflect.Pointer:
		if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
			if hasTag {
				prefix = prefix + "_" + envName(envTag)
			}
			return processStructFields(field.Elem(), prefix)
		}
	}

	if !hasTag {
		return nil
	}

	if value, ok := os.LookupEnv(prefix + "_" + envName(envTag)); ok && value != "" {
		return setFieldValue(field, value)
	}
	return nil
}

// setFieldValue converts and sets a field value
func setFieldValue(field reflect.Value, strValue string) error {
	if !field.CanSet() {
		return ErrEnvFieldCannotBeSet
	}

	switch {
	case field.Type() == reflect.TypeOf(time.Duration(0)):
		d, err := time.ParseDuration(strValue)
		if err != nil {
			return fmt.Errorf("cannot convert value to duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		parts := strings.Split(strValue, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts).Convert(field.Type()))
		return nil
	}

	convertedValue, err := cast.FromType(strValue, field.Type())
	if err != nil {
		return fmt.Errorf("cannot convert value to type %v: %w", field.Type(), err)
	}

	field.Set(reflect.ValueOf(convertedValue).Convert(field.Type()))
	return nil
}

func envName(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}
