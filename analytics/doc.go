// Package analytics provides a unified facade over the resource
// registry, the search engine, and the analytics tool adapters.
//
// It is the recommended entry point: New constructs the registry state
// explicitly and hands one Analytics value to every caller, so there are
// no ambient singletons and each test can build an isolated instance.
//
// # Basic Usage
//
//	exec, err := sqlexec.Open("./data/analytics.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a, err := analytics.New(analytics.Options{
//	    Executor:  exec,
//	    Generator: sqlgen.NewClient(sqlgen.Config{APIKey: key}),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	result, err := a.CallTool(ctx, "execute_sql", map[string]any{
//	    "sql_query": "SELECT region, SUM(total) FROM orders GROUP BY region",
//	})
//
// # Components
//
// The facade integrates:
//   - registry.Store: URI allocation, TTL, access statistics
//   - search.Engine: structured and free-text resource search
//   - tool.Dispatcher: the data-described tool catalog and its handlers
//   - sqlgen / sqlexec / viz / predict: the tool adapters
//   - prompt.Manager: workflow templates
//
// Adapters store their outputs through the registry and translate their
// own failures; registry errors never wrap adapter internals.
package analytics
