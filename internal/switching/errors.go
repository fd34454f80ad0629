package switching

import "errors"

var (
	// ErrInvalidResource marks a resource entry that failed validation.
	// The containing option is discarded; other options of the type survive.
	ErrInvalidResource = errors.New("invalid resource entry")

	// ErrMissingBundleID is returned when an option is registered without an id.
	ErrMissingBundleID = errors.New("resource option has no id")

	// ErrDuplicateBundle is returned when an option id is registered twice for one type.
	ErrDuplicateBundle = errors.New("duplicate resource option id")

	// ErrRegistrySealed is returned when registering after the load phase ended.
	ErrRegistrySealed = errors.New("registry is sealed")

	// ErrUnknownSelection is returned when a selection id is not defined for the type.
	ErrUnknownSelection = errors.New("no such selection")
)
