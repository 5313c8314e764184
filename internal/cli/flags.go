package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	EnvFile  []string `long:"env-file" description:"Path to a .env file (repeatable, default .env)"`
	Backend  string   `long:"backend" description:"Backend base URL (overrides RECORDS_BACKEND_SERVER)"`
	LogLevel string   `long:"log-level" description:"Log level: debug | info | warn | error"`
	LogFile  string   `long:"log-file" description:"Log file used by the interactive TUI"`
	Timezone string   `long:"timezone" description:"Zone local date-times are read in (e.g. UTC, Europe/Paris)"`
	NoFilter bool     `long:"no-filter" description:"Hide the optional search parameter filter"`
	Version  bool     `long:"version" description:"Show version and exit"`
}

// TUICommand runs the interactive search page.
type TUICommand struct {
	ExportDir string `long:"export-dir" description:"Directory for ctrl+s markdown exports" default:"."`

	globals *GlobalFlags
}

// SearchCommand runs one query and prints the results.
type SearchCommand struct {
	Start       string `long:"start" description:"Start time (YYYY-MM-DD HH:MM:SS local or epoch seconds)"`
	End         string `long:"end" description:"End time (YYYY-MM-DD HH:MM:SS local or epoch seconds)"`
	Field       string `long:"field" description:"Filter field: none | clusterId | userId | phone | voicemail"`
	Value       string `long:"value" description:"Filter value"`
	Format      string `long:"format" description:"Output format" choice:"table" choice:"json" choice:"markdown" default:"table"`
	Interactive bool   `short:"i" long:"interactive" description:"Prompt for the search criteria and offer a markdown export"`
	Output      string `short:"o" long:"output" description:"Also write a markdown export into this directory"`
	NoSpinner   bool   `long:"no-spinner" description:"Do not show a spinner while fetching"`

	globals *GlobalFlags
}

// ServeCommand runs the web front end.
type ServeCommand struct {
	Listen string `long:"listen" description:"Listen address (overrides RECORDS_LISTEN)"`

	globals *GlobalFlags
}
