// Package shared holds code used across packages that belongs to no single
// layer. Today that is the testutil subpackage:
//
//	- NewTestLogger captures slog records for assertions
//	- DASTradeLog and PropReportsExport are sample platform exports
//	- WorkbookBytes and WriteWorkbook build xlsx fixtures with excelize
//
// Nothing here may import business packages, which keeps testutil usable
// from every test in the module.
package shared
