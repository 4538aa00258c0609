package configuration_test

import (
	"testing"

	"github.com/clayne/physfs/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func TestMapKeyHelpers(t *testing.T) {
	t.Parallel()

	handler := configuration.NewHandler(&configuration.GodotenvProvider{})

	envMap := map[string]string{
		configuration.KeyStartDir:     "/srv/data",
		configuration.KeyOmitSymlinks: "true",
		configuration.KeyLogLevel:     "2",
		"BROKEN_INT":                  "abc",
	}

	assert.EqualValues(t, "/srv/data", handler.MapKeyToString(envMap, configuration.KeyStartDir))
	assert.EqualValues(t, "", handler.MapKeyToString(envMap, "MISSING"))

	assert.True(t, handler.MapKeyToBool(envMap, configuration.KeyOmitSymlinks))
	assert.False(t, handler.MapKeyToBool(envMap, "MISSING"))

	assert.EqualValues(t, 2, handler.MapKeyToInt(envMap, configuration.KeyLogLevel))
	assert.EqualValues(t, -1, handler.MapKeyToInt(envMap, "BROKEN_INT"))
	assert.EqualValues(t, -1, handler.MapKeyToInt(envMap, "MISSING"))
}
