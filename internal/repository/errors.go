package repository

import "fmt"

// CorruptStoreError reports a backing file that exists but does not hold valid task records.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt task store %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// StoreWriteError reports a failure to write the backing file. The in-memory
// collection keeps the mutation that triggered the write.
type StoreWriteError struct {
	Path string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("write task store %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
