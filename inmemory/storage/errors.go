package storage

import "github.com/pkg/errors"

var ErrHandleNotFound = errors.New("storage: handle not found")
