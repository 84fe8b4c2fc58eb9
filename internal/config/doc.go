// Package config loads the routes file and the service configuration.
//
// Both files are YAML with ${VAR} and ${VAR:-default} environment
// substitution applied before parsing. Route groups, subroutes and
// static parameters keep their document order, which the router uses
// as the tie-breaker between equally specific patterns.
//
//	routes, err := config.LoadRoutes("routes.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// RouteWatcher reloads the routes file on change:
//
//	w, err := config.NewRouteWatcher(path, func(rs *config.RouteSet) {
//	    // rebuild the table
//	}, config.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = w.Start(ctx)
package config
