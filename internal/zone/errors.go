package zone

import "errors"

var (
	// ErrInvalidZoneConfig is returned by NewSet when a zone entry has a
	// missing or malformed name, geometry or smoothness.
	ErrInvalidZoneConfig = errors.New("zone: invalid zone config")

	// ErrInvalidPersistConfig is returned by EnablePersistence when the
	// interval, fps or path is unusable.
	ErrInvalidPersistConfig = errors.New("zone: invalid persistence config")

	// ErrAlreadyEnabled is returned when EnablePersistence is called on a
	// set whose persistence is already enabled.
	ErrAlreadyEnabled = errors.New("zone: persistence already enabled")

	// ErrInvalidInput is returned by Check for non-finite coordinates.
	ErrInvalidInput = errors.New("zone: invalid position")
)
