// Package base holds what every docusign CLI command shares: logging, UI,
// common flags, config loading and client construction.
package base

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/docusign-adapter/internal/archive"
	"github.com/hashicorp-forge/docusign-adapter/internal/config"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign/jwtauth"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign/transport"
)

// Output formats accepted by -format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Out receives raw document bytes. Defaults to os.Stdout.
	Out io.Writer

	// Fs is where configs and keys are read and archives written. Defaults
	// to the OS filesystem.
	Fs afero.Fs

	// HostRewrite, when set, maps every host login resolves before a
	// transport is created for it.
	HostRewrite func(host string) string

	// Registry receives request metrics. Without it metrics are only kept
	// when -metrics-file is set.
	Registry prometheus.Registerer

	flagConfig      string
	flagFormat      string
	flagLogLevel    string
	flagMetricsFile string

	cfg      *config.Config
	metrics  *transport.Metrics
	gatherer prometheus.Gatherer
}

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned instead of printed.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults as an Options section.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.SetOutput(&buf)
	f.PrintDefaults()
	f.SetOutput(io.Discard)

	if buf.Len() == 0 {
		return ""
	}
	return "\n\nOptions:\n\n" + strings.TrimRight(buf.String(), "\n")
}

// FlagSet returns a flag set for name carrying the shared flags.
func (c *Command) FlagSet(name string) *FlagSet {
	f := NewFlagSet(flag.NewFlagSet(name, flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to the docusign config file.",
	)
	f.StringVar(
		&c.flagFormat, "format", FormatJSON, "Output format: json or yaml.",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "", "Override the configured log level.",
	)
	f.StringVar(
		&c.flagMetricsFile, "metrics-file", "",
		"Write request metrics to this path in the Prometheus text format "+
			"when the command finishes.",
	)

	return f
}

// Parse parses args into f and checks the shared flags.
func (c *Command) Parse(f *FlagSet, args []string) error {
	if err := f.Parse(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	if c.flagConfig == "" {
		return errors.New("config flag is required")
	}
	if c.flagFormat != FormatJSON && c.flagFormat != FormatYAML {
		return fmt.Errorf("unsupported format %q, expected json or yaml", c.flagFormat)
	}
	return nil
}

// Config loads the file named by -config once and applies the log level.
func (c *Command) Config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg, err := config.Load(c.fs(), c.flagConfig)
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if c.flagLogLevel != "" {
		level = hclog.LevelFromString(c.flagLogLevel)
		if level == hclog.NoLevel {
			return nil, fmt.Errorf("invalid log level %q", c.flagLogLevel)
		}
	}
	c.Log.SetLevel(level)

	c.cfg = cfg
	return cfg, nil
}

// Client logs in with the loaded configuration.
func (c *Command) Client(ctx context.Context) (*docusign.Client, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}

	auth, err := cfg.Authenticator(ctx, c.fs(), c.Log)
	if err != nil {
		return nil, fmt.Errorf("error configuring authentication: %w", err)
	}

	tcfg, err := cfg.TransportConfig(c.requestMetrics())
	if err != nil {
		return nil, err
	}
	dialer := docusign.HTTPDialer(tcfg, c.Log)
	if rewrite := c.HostRewrite; rewrite != nil {
		dial := dialer
		dialer = func(host string) (docusign.Transport, error) {
			return dial(rewrite(host))
		}
	}

	return docusign.New(ctx, cfg.ClientConfig(auth),
		docusign.WithDialer(dialer),
		docusign.WithLogger(c.Log),
	)
}

// JWTSource builds the configured JWT grant source.
func (c *Command) JWTSource(ctx context.Context) (*jwtauth.Source, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	return cfg.JWTSource(ctx, c.fs(), c.Log)
}

// Sink returns the configured archive, or nil when none is configured.
func (c *Command) Sink(ctx context.Context) (archive.Sink, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	return cfg.Sink(ctx, c.fs(), c.Log)
}

// Output writes v in the selected format.
func (c *Command) Output(v any) error {
	var (
		out []byte
		err error
	)
	switch c.flagFormat {
	case FormatYAML:
		out, err = yaml.Marshal(v)
	default:
		out, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error encoding output: %w", err)
	}

	c.UI.Output(strings.TrimRight(string(out), "\n"))
	return nil
}

// Keys returns the members of a set in sorted order.
func Keys(set map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(set))
}

// Stdout returns Out or os.Stdout.
func (c *Command) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Command) fs() afero.Fs {
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return c.Fs
}

func (c *Command) requestMetrics() *transport.Metrics {
	if c.metrics != nil {
		return c.metrics
	}

	reg := c.Registry
	if reg == nil && c.flagMetricsFile != "" {
		reg = prometheus.NewRegistry()
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	}
	c.metrics = transport.NewMetrics(reg)
	return c.metrics
}

// WriteMetrics writes the gathered request metrics to -metrics-file. It does
// nothing when the flag is unset or no client was created.
func (c *Command) WriteMetrics() {
	if c.flagMetricsFile == "" || c.gatherer == nil {
		return
	}
	if err := prometheus.WriteToTextfile(c.flagMetricsFile, c.gatherer); err != nil {
		c.UI.Warn(fmt.Sprintf("error writing metrics: %v", err))
		return
	}
	c.Log.Debug("wrote request metrics", "path", c.flagMetricsFile)
}
