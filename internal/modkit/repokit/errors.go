package repokit

import perr "eventcatalog/internal/platform/errors"

// Classify maps a storage failure to a coded error labeled with op
// coded errors keep their code; a missing relation means migrations have not run
func Classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := perr.As(err); ok {
		return perr.WithOp(err, op)
	}
	if perr.IsUndefinedTable(err) {
		return perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s: schema not applied", op), op)
	}
	return perr.WithOp(perr.FromPostgresf(err, "%s failed", op), op)
}
