package testutil

import (
	"sync"
	"testing"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/movehq/moveboard/internal/app/resources"
)

var bootOnce sync.Once
var bootErr error

// BootTemplatesOnce registers the shared templates and boots the engine
// exactly once per test binary. Feature templates register themselves via
// init() when the feature package is imported.
func BootTemplatesOnce() error {
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()

		eng := templates.New(false)
		logger := zap.NewNop()

		bootErr = eng.Boot(logger)
		if bootErr != nil {
			return
		}
		templates.UseEngine(eng, logger)
	})
	return bootErr
}

// MustBootTemplates boots templates and fails the test on error.
func MustBootTemplates(t *testing.T) {
	t.Helper()
	if err := BootTemplatesOnce(); err != nil {
		t.Fatalf("boot templates: %v", err)
	}
}
