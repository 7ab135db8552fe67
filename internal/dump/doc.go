// Package dump loads the crates.io database dump into SQLite.
//
// A Loader resolves the dump archive through a fetch.Cache, extracts the
// requested CSV files into a destination directory, and exposes each file
// as a csv virtual table. With preload the virtual table is staged as
// temp_<table> and copied into a native table <table>, which is much
// faster to query repeatedly.
//
//	loader, err := dump.NewBuilder().Minimal().Preload(true).Build()
//	if err != nil {
//		return err
//	}
//	if _, err := loader.Update(ctx); err != nil {
//		return err
//	}
//	db, err := loader.OpenDB(ctx)
//
// Freshness is judged from modification times. Update extracts again unless
// every requested file exists and none is older than the archive. OpenDB
// rebuilds <destination>/db.sqlite when an extracted file is newer than it.
package dump
