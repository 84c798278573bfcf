package service

import "errors"

// ErrNoData reports that no profile could be produced for a request. It is
// never fatal; callers render an empty "no data" state.
var ErrNoData = errors.New("no data available")
