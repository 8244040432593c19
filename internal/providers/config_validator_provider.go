package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"codeboard/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks every config section against its `validate` tags.
// Sections are validated one by one because gookit/validate does not
// descend into nested structs on its own.
func (cv *CnfValidator) Validate() error {
	sections := map[string]interface{}{
		"webServer": &cv.conf.WebServer,
		"database":  &cv.conf.Database,
		"logger":    &cv.conf.Logger,
		"upstream":  &cv.conf.Upstream,
	}

	for name, section := range sections {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("invalid %s config: %s", name, v.Errors.One())
		}
	}
	return nil
}
