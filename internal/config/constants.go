package config

// Application constants
const (
	AppName = "latetrack"

	// EnvPrefix namespaces every environment variable (LATETRACK_*).
	EnvPrefix = "LATETRACK"

	// File paths (relative to the base directory)
	DefaultDataDir      = "data"
	DefaultReportsDir   = "reports"
	DefaultLogsDir      = "logs"
	DefaultDatasetsFile = "data_list.json"
	DefaultLogFile      = "latetrack.log"

	// Report file names (inside the reports directory)
	ByProjectCSV   = "by_project.csv"
	BySIDCSV       = "by_sid.csv"
	ByProjectJSON  = "by_project.json"
	BySIDJSON      = "by_sid.json"
	SummaryJSON    = "summary.json"
	ChartsWorkbook = "charts.xlsx"
	DiagnosticsCSV = "diagnostics.csv"
	MetricsFile    = "latetrack.prom"

	// Config file locations searched in order
	DefaultConfigFile = "latetrack.yaml"
)

// DefaultSIDMask is the identifier prefix mask, oldest segment first.
var DefaultSIDMask = []string{"81", "01", "95", "000"}

// DefaultTiers is the tier check order; a row lands in the first tier whose
// threshold it exceeds.
var DefaultTiers = []string{"level2", "level1"}
