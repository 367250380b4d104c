package discover

import "errors"

var (
	ErrReadClassDir = errors.New("discover: read device class directory")
	ErrReadVendor   = errors.New("discover: read vendor")
	ErrParseVendor  = errors.New("discover: parse vendor")
	ErrReadlink     = errors.New("discover: resolve device link")
	ErrNoLinkReader = errors.New("discover: filesystem cannot read links")
	ErrInvalidBDF   = errors.New("discover: link target is not a PCI address")
)
