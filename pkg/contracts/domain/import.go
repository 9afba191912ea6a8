package domain

// WarningType classifies an import advisory
type WarningType string

const WarningDuplicate WarningType = "duplicate"

// ImportError describes a row that could not be normalized
type ImportError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Data    *Row   `json:"data,omitempty"`
}

// ImportWarning is an advisory attached to an otherwise successful import
type ImportWarning struct {
	Row     int         `json:"row"`
	Type    WarningType `json:"type"`
	Message string      `json:"message"`
	Data    *Row        `json:"data,omitempty"`
}

// ImportStatistics summarizes one import call
type ImportStatistics struct {
	TotalRows   int `json:"total_rows"`
	ValidTrades int `json:"valid_trades"`
	Duplicates  int `json:"duplicates"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	// SkippedRows counts lines dropped because their field count did not match the header.
	SkippedRows int `json:"skipped_rows"`
	// FilteredRows counts rows discarded by the platform row filter.
	FilteredRows int `json:"filtered_rows"`
}

// ImportResult is the outcome of importing one export file
type ImportResult struct {
	Success    bool             `json:"success"`
	Platform   string           `json:"platform"`
	Trades     []Trade          `json:"trades"`
	Errors     []ImportError    `json:"errors"`
	Warnings   []ImportWarning  `json:"warnings"`
	Statistics ImportStatistics `json:"statistics"`
}
