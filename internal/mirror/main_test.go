package mirror

import (
	"os"
	"testing"

	"github.com/verdantlabs/carbon-ledger/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}
