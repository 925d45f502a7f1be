package lockfile

import "fmt"

// CurrentVersion is the lockfile schema version written by this package.
//
//	| Version | Notes                                   |
//	|---------|-----------------------------------------|
//	| 1       | artifact hashes and direct dependencies |
const CurrentVersion = 1

// UnsupportedVersionError reports a lockfile written by a newer schema.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported lockfile version %d (newest supported is %d)", e.Version, CurrentVersion)
}

// IsSupported reports whether a lockfile version can be read.
func IsSupported(version int) bool {
	return version >= 1 && version <= CurrentVersion
}

// CheckVersion returns an error for versions this package cannot read.
func CheckVersion(version int) error {
	if !IsSupported(version) {
		return &UnsupportedVersionError{Version: version}
	}
	return nil
}
