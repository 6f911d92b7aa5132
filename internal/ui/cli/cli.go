package cli

import "flag"

const versionString = "1.0.0"
const defaultConfigPath = "./depscan.toml"

type cliOptions struct {
	configPath string
	deps       bool
	scc        bool
	recursive  bool
	types      bool
	aliases    bool
	metrics    bool
	watch      bool
	chain      bool
	impact     string
	history    bool
	since      string
	format     string
	output     string
	logFile    string
	workers    int
	verbose    bool
	version    bool
	args       []string

	// set records which flags appeared on the command line so they can
	// override the config file only when given.
	set map[string]bool
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("depscan", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.deps, "deps", true, "Print each file's dependencies")
	fs.BoolVar(&opts.scc, "scc", true, "Print strongly connected components")
	fs.BoolVar(&opts.recursive, "recursive", false, "Descend into subdirectories")
	fs.BoolVar(&opts.types, "types", false, "Print the type table")
	fs.BoolVar(&opts.aliases, "aliases", false, "Print the alias table")
	fs.BoolVar(&opts.metrics, "metrics", false, "Print declaration and file metrics")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and re-analyze on change")
	fs.BoolVar(&opts.chain, "chain", false, "Print the shortest dependency chain between two files: --chain <from> <to>")
	fs.StringVar(&opts.impact, "impact", "", "List files that depend on the given file")
	fs.BoolVar(&opts.history, "history", false, "Print recorded analysis snapshots (requires [db] enabled)")
	fs.StringVar(&opts.since, "since", "", "Only show snapshots at/after this time (RFC3339 or YYYY-MM-DD)")
	fs.StringVar(&opts.format, "format", "", "Report format: text, yaml or json")
	fs.StringVar(&opts.output, "output", "", "Write the report to this file instead of stdout")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this rotating file")
	fs.IntVar(&opts.workers, "workers", 0, "Type-pass workers")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.args = fs.Args()
	return opts, nil
}
