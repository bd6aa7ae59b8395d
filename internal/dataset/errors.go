package dataset

import "fmt"

// LoadError reports an unsupported or corrupt input file. A load either
// yields a whole dataset or fails with one of these; there is no partial
// load.
type LoadError struct {
	Filename string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Filename, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
