// Package dataprocessing turns per-project submission tables into the
// lateness aggregates.
//
// # Components
//
//  1. Table sources: FileOpener reads CSV files and Excel workbooks into a
//     Table with 1-based row numbers.
//  2. Classifier: assigns one row to the first tier whose threshold its
//     lateness strictly exceeds.
//  3. Extractor: runs the classifier over every dataset and builds the
//     project-indexed aggregate, collecting a Diagnostic per skipped row.
//  4. IndexBySID: transposes the project-indexed aggregate.
//  5. ResolveNames: reads the roster into a name map.
//  6. Summarizer: computes per-project and per-student counts.
//
// # Data Flow
//
//	descriptors → Extractor → ByProject → IndexBySID → BySID
//	                                 ↘ Summarizer ↙
//
// # Error Handling
//
// Row problems (bad identifier, unparseable lateness or score) never abort
// a run. They come back as Diagnostic values for the caller to print. A
// dataset that cannot be opened or lacks a configured column aborts the
// extraction, as does a repeated project name.
//
// Basic usage:
//
//	normalizer, _ := sid.NewNormalizer(cfg.Grading.SIDMask)
//	extractor := dataprocessing.NewExtractor(dataprocessing.NewFileOpener(dataDir),
//	    normalizer, cfg.Grading.Tiers, nil, logger)
//	result, err := extractor.Extract(ctx, descriptors)
//	if err != nil {
//	    return err
//	}
//	bySID := dataprocessing.IndexBySID(result.ByProject, cfg.Grading.Tiers)
package dataprocessing
