package entity

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameExists       = errors.New("game already exists")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
