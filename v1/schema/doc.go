// Package schema records the declared type and nullability of every column in a
// database catalog so values can be rendered as correctly typed SQL literals.
//
// A Cache is built once, either by restoring a persisted snapshot or by running
// introspection queries through an Introspector, and is never mutated afterwards.
// A forced rebuild produces a new Cache that replaces the old one wholesale.
//
// Lookups for unknown tables or columns are a normal outcome: callers fall back to
// heuristic rendering for that one column.
//
//	loader := schema.Loader{Introspector: db, Store: snapshot.NewFileStore(dir)}
//	cache, err := loader.Load(ctx, "sales", false)
//	if err != nil {
//	    // schema caching disabled, keep going without it
//	}
//	desc, ok := cache.Lookup("orders", "total")
package schema
