// Package routing bootstraps the route table.
//
// Provider reads the routes file, compiles it with package router and
// publishes the result atomically. With a TableStore configured, a table
// built by any process for the same routes file version is restored from
// the cache instead of being built again:
//
//	store := routing.NewTableStore(c, ttl, logger)
//	p := routing.NewProvider("routes.yaml",
//	    routing.WithStore(store, "routectl:"),
//	    routing.WithLogger(logger))
//	if err := p.Load(ctx); err != nil {
//	    logger.Fatal("cannot load routes", observability.Error(err))
//	}
//	matcher, _ := p.Matcher()
package routing
