// Package database is a type-aware SQL client over a single connection.
//
// DB renders INSERT, UPDATE and DELETE statements from column/value pairs, runs
// raw statements, and keeps the state of the latest statement (its text, errors,
// row count and has-rows flag) in a Cycle. Literals are rendered by package
// coerce, guided by a schema cache when schema caching is enabled.
//
// # Basic Usage
//
//	db, err := database.Open(ctx, database.Config{
//	    Dialect: "sqlserver",
//	    Connection: database.Connection{
//	        Host:     "localhost",
//	        User:     "app",
//	        Password: "secret",
//	        DbName:   "shop",
//	    },
//	    SchemaCaching: database.SchemaCaching{Mode: database.SchemaCachingDefault},
//	}, database.WithLogger(log))
//	if err != nil {
//	    return err // configuration error only
//	}
//	defer db.Close()
//
//	if _, err := db.Insert(ctx, "users", builder.Fields{
//	    builder.F("name", "Jo"),
//	    builder.F("age", nil),
//	}); err != nil {
//	    return err
//	}
//	id, err := db.LastInsertID(ctx)
//
// # Errors
//
// Failures are returned as Errors and also kept in the current cycle until the
// next statement starts, so HasError can be consulted afterwards:
//
//	if errs, failed := db.HasError(); failed {
//	    for _, e := range errs {
//	        log.Error("statement failed", e, nil)
//	    }
//	}
//
// errors.Is(err, database.ErrConnect) and errors.Is(err, database.ErrStatement)
// tell the two failure kinds apart. A failed connect is not permanent: the next
// statement tries again.
//
// # Concurrency
//
// DB holds exactly one connection and one cycle and has no internal locking.
// Use one DB per worker or serialize access.
//
// # Using with Fx
//
//	app := fx.New(
//	    logger.FXModule,
//	    database.FXModule,
//	    fx.Provide(func() database.Config { return loadDatabaseConfig() }),
//	    fx.Invoke(func(db database.Client) { ... }),
//	)
package database
