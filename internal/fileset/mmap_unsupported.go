//go:build !linux && !darwin

package fileset

import "errors"

// mmapFile is unavailable on this platform; its caller, openOne, falls
// back to a buffered read automatically.
func mmapFile(path string, size int64) ([]byte, func() error, error) {
	return nil, nil, errors.New("fileset: mmap unsupported on this platform")
}
