// Package files discovers source tables on disk.
//
// Discovery lists the CSV and Excel files of a data directory. The check
// command uses it to warn about tables no descriptor references, and the
// template command uses it to draft one descriptor per table:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	tables, err := discovery.FindTables(paths.DataDir)
//	for _, f := range files.Unreferenced(tables, referenced) {
//	    logger.Warn("Table not referenced", slog.String("file", f.Name))
//	}
package files
