package cli_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvVar(t *testing.T) {
	assert := assert.New(t)

	v := EnvVar("ARCHDIAGRAM_TEST_ENVVAR")
	t.Setenv(string(v), "")
	assert.False(v.IsSet())
	assert.Equal("fallback", v.GetOr("fallback"))

	t.Setenv(string(v), "us-west-2")
	assert.True(v.IsSet())
	assert.Equal("us-west-2", v.GetOr("fallback"))
	assert.Equal("ARCHDIAGRAM_TEST_ENVVAR", v.String())
}
