package image

import "errors"

var (
	ErrInvalidImage = errors.New("invalid image")
	ErrFetch        = errors.New("firmware download failed")
)
