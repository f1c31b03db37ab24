package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "jsbundle"

	// ConfigFileName is the default config file name
	ConfigFileName = ".jsbundle.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "JSBUNDLE"
)

// Build phase constants
const (
	PhaseLoadAndParse = "load_and_parse"
	PhaseAnalyse      = "analyse"
	PhaseGenerate     = "generate"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatDOT  = "dot"
)

// Default cache settings
const (
	// DefaultCacheExpiry is the number of snapshots a plugin cache entry
	// survives without being read before it is evicted
	DefaultCacheExpiry = 10
)
