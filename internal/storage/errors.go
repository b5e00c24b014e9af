package storage

import "errors"

// ErrStoreUnavailable means the backing storage is absent or unusable.
var ErrStoreUnavailable = errors.New("store unavailable")
