package eventlogger

import (
	"errors"
)

// Error definitions for the eventlogger module
var (
	// Configuration errors
	ErrInvalidLogLevel      = errors.New("invalid log level")
	ErrInvalidFormat        = errors.New("invalid log format")
	ErrInvalidFlushInterval = errors.New("invalid flush interval")
	ErrInvalidBufferSize    = errors.New("invalid buffer size")
	ErrInvalidOutputType    = errors.New("invalid output target type")
	ErrMissingFilePath      = errors.New("missing file path for file output target")
	ErrConfigType           = errors.New("config section has unexpected type")

	// Runtime errors
	ErrLoggerNotStarted        = errors.New("event logger not started")
	ErrLoggerAlreadyStarted    = errors.New("event logger already started")
	ErrUnknownOutputTargetType = errors.New("unknown output target type")
	ErrFileNotOpen             = errors.New("file not open")
)
