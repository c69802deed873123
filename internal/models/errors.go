package models

import (
	"errors"
)

var (
	ErrMissingAssetID = errors.New("missing asset_id")
	ErrNotFound       = errors.New("not found")
)
