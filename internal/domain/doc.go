// Package domain turns a sales/returns extract into map layers.
//
// # Data Source
//
// The input is a spreadsheet export (usually ISO-8859-1, semicolon separated)
// with one row per customer. Numbers arrive in Brazilian locale formatting:
//
//	% DEV      "2,5%"         return percentage, decimal comma
//	VENDA      "R$ 1.234,56"  currency, dot thousands, decimal comma
//	LATITUDE   "-3.7319"      plain decimal, dot separator
//
// # Normalization
//
// Each numeric column has its own failure policy, see [NormalizeField]:
//
//	percent, plain   unparseable → missing, record later dropped
//	currency         unparseable → 0, record kept
//
// Currency must not drop records because a zero amount is meaningful: it
// drives the zero-activity rule below.
//
// # Classification
//
// Heat weight by CLASSE (trimmed, case-insensitive):
//
//	A 50000 | B 20000 | C 1000 | anything else 0
//
// Marker color by % DEV:
//
//	<3 green | 3 ≤ x < 5 orange | ≥5 red
//
// When the dataset carries VENDA and DEVOLUCAO (the extended variant), a record
// with both amounts equal to zero is gray regardless of its percentage.
//
// # Layers
//
// Records are grouped by a categorical key (PRODUTO by default). Groups keep
// the order in which keys first appear in the input. Each group carries the
// number of red records so the map can show a running total of red markers
// over the layers that are switched on; see [Counter] for the update contract.
package domain
