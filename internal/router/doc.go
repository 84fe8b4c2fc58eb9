// Package router maps request paths to named routes and route names
// back to URLs.
//
// A routes file is flattened into Definitions by Flatten. Each
// definition expands into up to four Variants, one per combination of
// its optional prefix and suffix. NewTable orders all variants by
// specificity, the pattern length with each <name> placeholder counted
// as three characters, so that literal patterns are tried before
// placeholder-heavy ones of the same length.
//
// Matcher and Reverser only read the Table:
//
//	reg, err := router.Flatten(routes)
//	if err != nil {
//	    return err
//	}
//	table, err := router.NewTable(reg)
//	if err != nil {
//	    return err
//	}
//
//	res, err := router.NewMatcher(table, logger).Resolve("/event/42")
//	// res.Params: {"module": "Event", "action": "show", "id": "42"}
//
//	url := router.NewReverser(table, logger).Reverse("event_show", router.Pairs("id", "42"))
//	// url: "/event/42"
//
// Table.Snapshot and RestoreTable move a built table through the table
// cache without repeating flatten and expand.
package router
