package services

import (
	"errors"
	"fmt"
)

// Lifecycle failure codes. Every install/uninstall/status failure is
// recovered at the service boundary and reported under one of these codes;
// the HTTP layer translates known codes to 400 and everything else to 500.
const (
	CodeAlreadyInstalled      = "already_installed"
	CodeNotInstalled          = "not_installed"
	CodeDirectoryCreateFailed = "directory_create_failed"
	CodeFileStagingFailed     = "file_staging_failed"
	CodeRecordCreateFailed    = "record_create_failed"
	CodeSettingsCreateFailed  = "settings_create_failed"
	CodeValidationFailed      = "validation_failed"
	CodeUnexpected            = "unexpected"
)

type LifecycleError struct {
	Code string
	// PluginID is set for already_installed so callers learn the existing
	// identity without a second lookup.
	PluginID string
	Err      error
}

func (e *LifecycleError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	return e.Code
}

func (e *LifecycleError) Unwrap() error { return e.Err }

func lifecycleErr(code string, err error) *LifecycleError {
	return &LifecycleError{Code: code, Err: err}
}

// AsLifecycleError returns the typed error when err carries one.
func AsLifecycleError(err error) (*LifecycleError, bool) {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// IsDomainCode reports whether code belongs to the lifecycle taxonomy, i.e.
// represents a client-visible domain failure rather than a server fault.
func IsDomainCode(code string) bool {
	switch code {
	case CodeAlreadyInstalled,
		CodeNotInstalled,
		CodeDirectoryCreateFailed,
		CodeFileStagingFailed,
		CodeRecordCreateFailed,
		CodeSettingsCreateFailed,
		CodeValidationFailed:
		return true
	default:
		return false
	}
}
