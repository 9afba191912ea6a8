// Package platforms describes the broker and prop-firm export formats the
// import pipeline understands.
//
// A Schema is plain configuration: which header aliases hold each logical
// field and which named transform turns the raw cell into a typed value.
// Registering a schema compiles it into a Platform whose function table is
// bound from the transform catalog, so schemas can live in YAML files next to
// the binary as well as in code.
//
// # Built-in platforms
//
//	das-trader    DAS Trader Pro trade log, time of day only, individual fills
//	prop-reports  PropReports detailed export, full timestamps, one row per position
//
// # Usage
//
//	reg := platforms.NewDefaultRegistry()
//	p, ok := reg.Resolve("das-trader")
//	if !ok {
//	    return ErrUnknownPlatform
//	}
//	side, err := p.Side("BOT")
package platforms
