package config

import "errors"

var (
	ErrReadList = errors.New("config: read pattern list")
)
