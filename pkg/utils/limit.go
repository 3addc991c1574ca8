package utils

import (
	"errors"
	"io"
)

var ErrTooLarge = errors.New("file too large")

const (
	MaxReceiptBytes = 5 << 20
	MaxPhotoBytes   = 2 << 20
)

// ReadAllLimit reads r fully, failing with ErrTooLarge past max bytes.
func ReadAllLimit(r io.Reader, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, ErrTooLarge
	}
	return b, nil
}
