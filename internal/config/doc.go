// Package config provides centralized configuration management for latetrack.
// It loads the application configuration, resolves file system paths, and
// reads the dataset and roster descriptor files.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (latetrack.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LATETRACK_* for namespacing:
//
//	LATETRACK_LOGGING_LEVEL=debug
//	LATETRACK_PATHS_DATA_DIR=/srv/course/data
//	LATETRACK_GRADING_SID_MASK=81,01,95,000
//	LATETRACK_GRADING_TIERS=level2,level1
//	LATETRACK_METRICS_TEXTFILE_PATH=/var/lib/node_exporter/latetrack.prom
//
// # Descriptor Files
//
// The dataset list is a JSON array; tier thresholds sit next to the fixed
// fields as numeric keys named after the configured tiers:
//
//	[
//	    {
//	        "project_name": "Assignment 1",
//	        "file_name": "assign1.csv",
//	        "late_field": "Late",
//	        "sid_field": "Student ID",
//	        "original_score_field": "Score",
//	        "skip_rows": 0,
//	        "level2": 1.0,
//	        "level1": 1.1
//	    }
//	]
//
// Both descriptor files are checked against an embedded JSON Schema and then
// against struct validation rules (unique project names, non-negative
// skip_rows, thresholds for exactly the configured tiers).
package config
