package providers

import (
	"fmt"
	"time"

	"github.com/gookit/validate"

	"dlb/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the struct tag rules plus the cross-field checks the tag
// language cannot express.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if cv.conf.Leaderboard.ResetHour < 0 || cv.conf.Leaderboard.ResetHour > 23 {
		return fmt.Errorf("leaderboard.resetHour must be within [0,23], got %d", cv.conf.Leaderboard.ResetHour)
	}
	if _, err := time.LoadLocation(cv.conf.Leaderboard.Timezone); err != nil {
		return fmt.Errorf("leaderboard.timezone: %w", err)
	}
	seen := make(map[string]struct{}, len(cv.conf.Creators))
	for _, c := range cv.conf.Creators {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate creator id %q in allow-list", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
