package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_UserAgent(t *testing.T) {
	assert.Equal(t, "buildsel/dev", Info{}.UserAgent())
	assert.Equal(t, "buildsel/v0.4.1", Info{Version: "v0.4.1"}.UserAgent())
}
