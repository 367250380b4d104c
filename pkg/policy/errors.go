package policy

import "errors"

var (
	ErrReadSelfExe = errors.New("policy: read self executable")
)
