package config

import "github.com/pkg/errors"

func errMissingFlag(name string) error {
	return errors.Errorf("config: -%s is required", name)
}

func errInvalidBitDepth(depth int) error {
	return errors.Errorf("config: bit depth %d unsupported, want 16, 24, or 32", depth)
}
