package securestore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key was never stored or was cleared.
var ErrNotFound = errors.New("securestore: key not found")

// ErrDecrypt matches every DecryptError through errors.Is.
var ErrDecrypt = errors.New("securestore: cannot decrypt value")

// DecryptError means a value exists but cannot be opened: wrong secret,
// tampered ciphertext or a payload that no longer decodes.
type DecryptError struct {
	Key string
	Err error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("securestore: cannot decrypt %q: %v", e.Key, e.Err)
}

func (e *DecryptError) Unwrap() error { return e.Err }

func (e *DecryptError) Is(target error) bool { return target == ErrDecrypt }
