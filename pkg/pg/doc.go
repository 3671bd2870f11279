// Package pg opens the pgx pool behind the template library and applies its
// embedded goose migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//	if cfg.AutoMigrate {
//		err = pg.Migrate(ctx, pool, migrations.FS, cfg, log)
//	}
//
// Connect retries with a linear back-off and gives up early when ctx ends.
// Migrate runs under an advisory lock so several replicas can start at once.
// Errors are joined with ErrConnect, ErrMigrate or ErrUnavailable.
package pg
