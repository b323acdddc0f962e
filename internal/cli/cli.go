package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/propgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// actionList collects every -action flag in order.
type actionList []string

func (l *actionList) String() string {
	return strings.Join(*l, ", ")
}

func (l *actionList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("propgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
propgraph - A reactive document engine.

Usage:
  propgraph [options] [DOC_PATH]

Arguments:
  DOC_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Examples:
  propgraph -action '{"name": "ti", "action": "updateImmediateValue", "args": {"text": "hi"}}' doc.hcl
  propgraph -serve-port 8080 -watch ./docs
  propgraph -remote http://localhost:8080 -action '{"name": "flag", "action": "updateBoolean", "args": {"boolean": true}}'

Options:
`)
		flagSet.PrintDefaults()
	}

	var actions actionList
	docFlag := flagSet.String("doc", "", "Path to the document file or directory.")
	dFlag := flagSet.String("d", "", "Path to the document file or directory (shorthand).")
	flagSet.Var(&actions, "action", "JSON action request to apply. Repeatable; applied in order.")
	formatFlag := flagSet.String("format", "json", "Report output format. Options: 'json' or 'yaml'.")
	servePortFlag := flagSet.Int("serve-port", 0, "Serve the document over Socket.IO on this port. 0 runs once and exits.")
	watchFlag := flagSet.Bool("watch", false, "Reload the document when its files change. Requires -serve-port.")
	remoteFlag := flagSet.String("remote", "", "URL of a running propgraph server to drive instead of a local document.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *docFlag != "" {
		path = *docFlag
	} else if *dFlag != "" {
		path = *dFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Document path determined.", "path", path)

	if path == "" && *remoteFlag == "" {
		slog.Debug("No document path or remote provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		DocPath:         path,
		Remote:          *remoteFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		OutputFormat:    strings.ToLower(*formatFlag),
		Actions:         actions,
		ServePort:       *servePortFlag,
		HealthcheckPort: *healthPortFlag,
		Watch:           *watchFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
