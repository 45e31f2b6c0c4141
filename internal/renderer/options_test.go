package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsNonPositiveDimensions(t *testing.T) {
	opts := DefaultRenderOptions(0, 10)
	err := opts.Validate()
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsNonPowerOfTwoBlockiness(t *testing.T) {
	opts := DefaultRenderOptions(10, 10)
	opts.MaxBlockiness = 7
	assert.Error(t, opts.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	opts := DefaultRenderOptions(64, 64)
	assert.NoError(t, opts.Validate())
}
