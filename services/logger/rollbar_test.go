package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/user"
)

func TestRollbarLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", Debug: true})

	usr := user.User{ID: 7, Email: "admin@liceo.cl", Role: user.RoleAdmin}
	logger.Error("saving grade", errors.New("boom"), usr)

	out := buf.String()
	assert.Contains(t, out, "ERROR: saving grade")
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "admin@liceo.cl", "the user is reported as the Rollbar person, not printed")
}
