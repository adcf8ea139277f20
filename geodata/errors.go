package geodata

import "fmt"

// DataQualityError reports invalid input geometry or raster data,
// identified by dataset and feature so the offending input can be fixed.
type DataQualityError struct {
	Source  string // dataset name, e.g. "raions"
	Feature string // feature identifier, e.g. a raion name
	Detail  string
}

func (e *DataQualityError) Error() string {
	if e.Feature == "" {
		return fmt.Sprintf("geodata: bad %s data: %s", e.Source, e.Detail)
	}
	return fmt.Sprintf("geodata: bad %s data for %q: %s", e.Source, e.Feature, e.Detail)
}

// FetchError reports an external tile or raster fetch that failed after the
// retry budget was exhausted and no valid cache existed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("geodata: fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether retrying the whole operation could help.
// A FetchError is only returned once the retry budget is spent.
func (e *FetchError) Retryable() bool { return false }
