package providers

import (
	"ecotrack/internal/structures"
	"fmt"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	switch cv.conf.Store.Driver {
	case "file", "sqlite":
		if cv.conf.Store.Path == "" {
			return fmt.Errorf("invalid config: store.path is required for the %s driver", cv.conf.Store.Driver)
		}
	}

	if cv.conf.Tracker.Timezone != "" {
		if _, err := time.LoadLocation(cv.conf.Tracker.Timezone); err != nil {
			return fmt.Errorf("invalid config: tracker.timezone: %w", err)
		}
	}

	if cv.conf.Tracker.TabCloseSaving < 0 || cv.conf.Tracker.EmailsInInbox < 0 {
		return fmt.Errorf("invalid config: tracker amounts must not be negative")
	}
	return nil
}
