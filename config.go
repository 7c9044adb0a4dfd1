package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Options struct {
	ConfigPath      string        `yaml:"-"`
	ServerAddr      string        `yaml:"server-addr"`
	SourceURL       string        `yaml:"source-url"`
	SourceField     string        `yaml:"source-field"`
	PollInterval    time.Duration `yaml:"poll-interval"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout"`
	HistorySize     int           `yaml:"history-size"`
	WindowSize      int           `yaml:"window-size"`
	SnapshotPath    string        `yaml:"snapshot-path"`
	Verbose         bool          `yaml:"verbose"`
}

func parseOptions(fs *flag.FlagSet, args []string) (Options, error) {
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Optional YAML config file. Flags set on the command line take precedence")
	fs.StringVar(&opts.ServerAddr, "server-addr", "localhost:8080", "Server addr to serve the http server on")
	fs.StringVar(&opts.SourceURL, "source-url", "", "The HTTP endpoint polled for samples")
	fs.StringVar(&opts.SourceField, "source-field", "value", "Dotted path of the numeric field in the endpoint's JSON response")
	fs.DurationVar(&opts.PollInterval, "poll-interval", time.Second*5, "Source polling interval")
	fs.DurationVar(&opts.ShutdownTimeout, "shutdown-timeout", time.Second*3, "How long in-flight api requests may take to finish on shutdown")
	fs.IntVar(&opts.HistorySize, "history-size", 100, "Number of most recent samples kept in the history. Cannot be less than 1")
	fs.IntVar(&opts.WindowSize, "window-size", 10, "Number of most recent samples the window stats are computed over. Cannot be less than 1")
	fs.StringVar(&opts.SnapshotPath, "snapshot-path", "", "SQLite file the history is saved to on shutdown and restored from on start. Disabled if empty")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose output")

	err := fs.Parse(args)
	if err != nil {
		return Options{}, err
	}
	if opts.ConfigPath == "" {
		return opts, nil
	}

	// flags given explicitly win over the config file
	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	err = loadConfigFile(opts.ConfigPath, &opts)
	if err != nil {
		return Options{}, err
	}

	for name, value := range explicit {
		err = fs.Set(name, value)
		if err != nil {
			return Options{}, fmt.Errorf("reapply flag %q: %w", name, err)
		}
	}

	return opts, nil
}

func loadConfigFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(data, opts)
	if err != nil {
		return fmt.Errorf("unmarshal config file %q: %w", path, err)
	}
	return nil
}

func validateOpts(opts Options) error {
	switch {
	case opts.ServerAddr == "":
		return fmt.Errorf("--server-addr is required")
	case opts.SourceURL == "":
		return fmt.Errorf("--source-url is required")
	case opts.SourceField == "":
		return fmt.Errorf("--source-field is required")
	case opts.PollInterval < time.Millisecond*100:
		return fmt.Errorf("--poll-interval is too small, it cannot be less than 100ms")
	case opts.ShutdownTimeout <= 0:
		return fmt.Errorf("--shutdown-timeout must be positive")
	case opts.HistorySize < 1:
		return fmt.Errorf("--history-size is too small, it cannot be less than 1")
	case opts.WindowSize < 1:
		return fmt.Errorf("--window-size is too small, it cannot be less than 1")
	case opts.WindowSize > opts.HistorySize:
		return fmt.Errorf("--window-size cannot be larger than --history-size")
	}
	return nil
}
