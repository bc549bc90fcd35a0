package di

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Dispose removes all the Records from the Store and calls their Close function,
// starting with the most recently created one.
// The errors are combined, and the panics are logged and converted into errors.
func (s *Store) Dispose(logger *zap.Logger) error {
	s.m.Lock()
	records := sortRecords(s.records)
	s.records = map[ComponentID]Record{}
	s.m.Unlock()

	var errs error

	for i := len(records) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, closeRecord(logger, records[i]))
	}

	return errs
}

func closeRecord(logger *zap.Logger, r Record) (err error) {
	if r.Close == nil {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("could not close `%s`: close function panicked: %+v", r.ID.Name, rec)
			logger.Error("close function panicked",
				componentField(r.ID),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	if err = r.Close(r.Instance); err != nil {
		logger.Error("could not close object", componentField(r.ID), zap.Error(err))
		return fmt.Errorf("could not close `%s`: %w", r.ID.Name, err)
	}

	return nil
}
