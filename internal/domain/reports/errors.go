package reports

import "errors"

var ErrForbidden = errors.New("forbidden")
