// pkg/style/style_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test message helpers keep their content

package style

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure(t *testing.T) {
	msg := Failure("guard", errors.New("boom"))
	assert.Contains(t, msg, "✗")
	assert.Contains(t, msg, "guard failed:")
	assert.Contains(t, msg, "boom")
}

func TestSuccessAndWarning(t *testing.T) {
	assert.Contains(t, Success("guarded %s", "/p"), "guarded /p")
	assert.Contains(t, Warning("careful"), "careful")
}

func TestGuardState(t *testing.T) {
	assert.Contains(t, GuardState(""), "unguarded")
	guarded := GuardState("myproj-1a2b3c4d")
	assert.Contains(t, guarded, "guarded")
	assert.Contains(t, guarded, "myproj-1a2b3c4d")
}
