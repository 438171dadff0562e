package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/klothoplatform/archdiagram/pkg/architecture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	got, err := Build("    An API Gateway invokes a Lambda\n    that writes to DynamoDB.\n")
	require.NoError(err)

	assert.Contains(got, "\nAn API Gateway invokes a Lambda\nthat writes to DynamoDB.\n")
	assert.Contains(got, "\n"+Separator+"\n")
	assert.NotContains(got, "{{")
}

func TestBuild_ExampleIsValidJSON(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	got, err := Build("S3 bucket triggers a Lambda")
	require.NoError(err)

	start := strings.Index(got, "{")
	end := strings.LastIndex(got, "}")
	require.True(start >= 0 && end > start)

	var arch architecture.Architecture
	require.NoError(json.Unmarshal([]byte(got[start:end+1]), &arch))
	assert.Equal(example, arch)
}

func TestBuild_Empty(t *testing.T) {
	for _, desc := range []string{"", "   ", "\n\t\n"} {
		_, err := Build(desc)
		assert.ErrorIs(t, err, ErrEmptyDescription)
	}
}
