// Package outcome maps HTTP status codes to declared response outcomes.
//
// An Interface definition registers an ordered list of cases (exact codes
// or closed ranges) that a Table compiles into lookup structures. The
// client's response resolver consults the table to decide whether a status
// means "decode the body", "no content", or one of two error shapes.
//
//	table := outcome.Build(
//	    outcome.Status(200, outcome.Decode()),
//	    outcome.Status(204, outcome.NoContent()),
//	    outcome.Status(404, outcome.Err(ErrNotFound)),
//	    outcome.Range(500, 599, outcome.ErrDecode(decodeServerFault)),
//	)
package outcome
