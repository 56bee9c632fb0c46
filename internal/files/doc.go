// Package files locates source files and reports on written outputs.
//
// Discovery resolves the four sources of a run from a single directory,
// matching file names without regard to case and preferring csv over
// workbook files when both exist.
//
// Manager stats the files a run produced and prints a size summary.
//
// Example usage:
//
//	inputs, err := files.NewDiscovery(logger).FindSources("data")
//	if err != nil {
//	    return err
//	}
//
//	written, _ := files.NewManager(logger).Describe(state.Written)
package files
