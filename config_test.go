package triangle

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default configuration rejected: %v", err)
	}
}

func TestConfigRejectsBadWindowSize(t *testing.T) {
	config := DefaultConfig()
	config.Width = 0

	err := config.Validate()
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("zero width: got %v, want a configuration error", err)
	}

	config = DefaultConfig()
	config.Height = -10

	err = config.Validate()
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("negative height: got %v, want a configuration error", err)
	}
}

func TestConfigRejectsZeroFramesInFlight(t *testing.T) {
	config := DefaultConfig()
	config.FramesInFlight = 0

	err := config.Validate()
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("zero frames in flight: got %v, want a configuration error", err)
	}
}
