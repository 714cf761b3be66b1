package collector

import "fmt"

// DataLoadError is returned when the dataset cannot be fetched or parsed.
// Network, status and malformed-row failures all collapse into this one kind.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load data from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// NewDataLoadError creates a new DataLoadError.
func NewDataLoadError(source string, err error) *DataLoadError {
	return &DataLoadError{
		Source: source,
		Err:    err,
	}
}
