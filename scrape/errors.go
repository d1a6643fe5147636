package scrape

import "errors"

// Extraction failures are distinct sentinels so operators can tell "site
// structure changed" apart from "table missing" apart from "empty table".
var (
	ErrDateNotFound  = errors.New("Date not found in HTML")
	ErrTableNotFound = errors.New("Equity table not found")
	ErrNoDataRows    = errors.New("No data rows found")
)
