package risk

// EmptyResultsError is returned by any risk/optimizer report invoked on a
// zero-length result set; callers are expected to guard against it rather
// than treat it as a hard failure (§7 EmptyResults).
type EmptyResultsError struct{}

func (e *EmptyResultsError) Error() string {
	return "risk: no results to analyze"
}
