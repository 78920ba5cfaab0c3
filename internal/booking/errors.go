package booking

import "errors"

var (
	ErrNotFound                  = errors.New("not found")
	ErrValidation                = errors.New("validation error")
	ErrDependencyUnavailable     = errors.New("room price lookup unavailable")
	ErrPriceReconciliationFailed = errors.New("price reconciliation failed")
)
