package guard

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/confguard/pkg/errors"
)

// rollback collects the failures of inverse steps. Every step runs even
// after an earlier one failed.
type rollback struct {
	logger zerolog.Logger
	failed []string
	errs   []string
}

func (r *rollback) step(name string, err error) {
	if err == nil {
		r.logger.Debug().Str("step", name).Msg("Rollback step done")
		return
	}
	r.logger.Error().Err(err).Str("step", name).Msg("Rollback step failed")
	r.failed = append(r.failed, name)
	r.errs = append(r.errs, err.Error())
}

func (r *rollback) err(failedAt Phase, cause error, bkpDir string) error {
	r.logger.Error().
		Strs("steps", r.failed).
		Str("backup", bkpDir).
		Msg("Rollback incomplete, backup kept for manual recovery")

	return errors.Wrapf(cause, errors.ErrRollback, "rollback after failed %s incomplete", failedAt).
		WithDetail("steps", r.failed).
		WithDetail("errors", r.errs).
		WithDetail("backup", bkpDir)
}
