package platforms

// DASTrader is the DAS Trader Pro trade log. Rows carry a time of day only
// and one row per fill.
func DASTrader() Schema {
	return Schema{
		ID:              "das-trader",
		Name:            "DAS Trader Pro",
		Description:     "Import from DAS Trader Pro CSV export (Trade Log)",
		RequiresDate:    true,
		GroupExecutions: true,
		Columns: map[Field][]string{
			FieldSymbol:    {"Symb", "Symbol"},
			FieldSide:      {"Side"},
			FieldQuantity:  {"Qty", "Quantity"},
			FieldPrice:     {"Price", "Exec Price"},
			FieldTimestamp: {"Time"},
			FieldFees:      {"Commission", "Comm"},
			FieldAccount:   {"Account"},
			FieldOrderType: {"Type"},
		},
		Transforms: map[Field]string{
			FieldSide:      SideDAS,
			FieldTimestamp: TimestampTimeOfDay,
			FieldPrice:     PriceCurrency,
			FieldQuantity:  QuantityInteger,
			FieldFees:      FeesLenient,
		},
		RowFilter: FilterSkipNonFills,
	}
}

// PropReports is the PropReports detailed trade export. Each row is an
// already aggregated position with a full timestamp.
func PropReports() Schema {
	return Schema{
		ID:              "prop-reports",
		Name:            "PropReports",
		Description:     "Import from PropReports detailed trade export",
		RequiresDate:    false,
		GroupExecutions: false,
		Columns: map[Field][]string{
			FieldSymbol:    {"Symbol", "Ticker", "Instrument"},
			FieldSide:      {"Side", "Direction", "Type"},
			FieldQuantity:  {"Quantity", "Qty", "Shares", "Size"},
			FieldPrice:     {"Price", "Entry Price", "Avg Price", "Average Price"},
			FieldTimestamp: {"Date", "Time", "DateTime", "Timestamp", "Entry Time"},
			FieldFees:      {"Commission", "Comm", "Fees", "Total Fees"},
			FieldAccount:   {"Account", "Account Number"},
		},
		Transforms: map[Field]string{
			FieldSide:      SideDirection,
			FieldTimestamp: TimestampDateTime,
			FieldPrice:     PriceCurrency,
			FieldQuantity:  QuantityInteger,
			FieldFees:      FeesLenient,
		},
	}
}

// BuiltinSchemas returns the schemas compiled into every default registry.
func BuiltinSchemas() []Schema {
	return []Schema{DASTrader(), PropReports()}
}
