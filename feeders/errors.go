// Package feeders provides configuration feeders reading YAML files, TOML
// files and environment variables into configuration structs.
package feeders

import (
	"errors"
)

// Static error definitions for feeders
var (
	ErrEnvInvalidStructure = errors.New("env: invalid structure")
	ErrEnvEmptyPrefix      = errors.New("env: prefix cannot be empty")
	ErrEnvFieldCannotBeSet = errors.New("env: field cannot be set")

	ErrYamlReadFailed = errors.New("yaml: failed to read file")
	ErrTomlReadFailed = errors.New("toml: failed to read file")
)
