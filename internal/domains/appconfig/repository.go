package appconfig

import "context"

// Store reads runtime feature flags and credentials from the app_config
// key-value table. Leaf dependency of the auth resolver.
type Store interface {
	// Get returns the raw value for key. found=false when the key does
	// not exist; that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// GetBool interprets the value as a boolean flag. Missing keys and
	// unrecognized values read as false.
	GetBool(ctx context.Context, key string) (bool, error)

	// Set writes a key. Used by admin tooling and tests.
	Set(ctx context.Context, key, value string) error
}
