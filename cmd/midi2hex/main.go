// Package main is the entry point for the midi2hex CLI
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksmedia/midi2hex/pkg/api"
	"github.com/jacksmedia/midi2hex/pkg/config"
	"github.com/jacksmedia/midi2hex/pkg/converter"
	"github.com/jacksmedia/midi2hex/pkg/converter/engines"
	"github.com/jacksmedia/midi2hex/pkg/logger"
	"github.com/jacksmedia/midi2hex/pkg/translator"
	"github.com/jacksmedia/midi2hex/pkg/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds flag values shared by the subcommands
type cli struct {
	cfg *config.Config

	engineName string
	verbose    bool

	outputFile   string
	schemaPath   string
	order        string
	insertRests  bool
	separator    string
	outputFormat string
	serverPort   string
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	c := &cli{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "midi2hex",
		Short: "Translate MIDI note data into sound-engine byte code",
		Long: `midi2hex translates the notes of a standard MIDI file (or a JSON event
list) into the hex byte-code tokens a retro sound driver plays.

Durations are split into the driver's canonical note lengths, octave changes
become relative shift commands, and anything the schema cannot express is
written as a "??" placeholder instead of failing the run.

Examples:
  midi2hex translate song.mid
  midi2hex translate song.mid -o song.bin
  midi2hex translate events.json --schema custom.yaml -o song.txt
  midi2hex schema --format yaml -o akao.yaml
  midi2hex tui
  midi2hex serve --port 8080`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&c.engineName, "engine", "e", cfg.Engine, "Target engine (akao)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log every degraded position")

	translateCmd := &cobra.Command{
		Use:   "translate <input>",
		Short: "Translate a MIDI or events JSON file",
		Long: `Translates the input file. The output encoding follows the -o extension:
.json for JSON with diagnostics, .bin for raw bytes, anything else for text.
Without -o the tokens are written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: c.runTranslate,
	}
	translateCmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Output file path")
	translateCmd.Flags().StringVar(&c.schemaPath, "schema", cfg.SchemaPath, "Schema file (JSON or YAML) overriding the engine schema")
	translateCmd.Flags().StringVar(&c.order, "order", cfg.EventOrder, "Track event order: track or time")
	translateCmd.Flags().BoolVar(&c.insertRests, "rests", cfg.InsertRests, "Insert rests for silent gaps")
	translateCmd.Flags().StringVar(&c.separator, "sep", converter.DefaultSeparator, "Token separator for text output")
	translateCmd.Flags().StringVarP(&c.outputFormat, "format", "f", "text", "Stdout format when -o is not set: text or json")

	eventsCmd := &cobra.Command{
		Use:   "events <input.mid>",
		Short: "Print the note events parsed from a MIDI file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runEvents,
	}
	eventsCmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Output .json file path")
	eventsCmd.Flags().StringVar(&c.order, "order", cfg.EventOrder, "Track event order: track or time")
	eventsCmd.Flags().BoolVar(&c.insertRests, "rests", cfg.InsertRests, "Insert rests for silent gaps")

	renderCmd := &cobra.Command{
		Use:   "render <events.json>",
		Short: "Write a JSON event list back to a MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runRender,
	}
	renderCmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Output .mid file path")

	enginesCmd := &cobra.Command{
		Use:   "engines",
		Short: "List supported engines",
		Args:  cobra.NoArgs,
		RunE:  c.runEngines,
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Export the engine schema",
		Args:  cobra.NoArgs,
		RunE:  c.runSchema,
	}
	schemaCmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Output file path (format from extension)")
	schemaCmd.Flags().StringVarP(&c.outputFormat, "format", "f", "", "json or yaml")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE:  c.runTUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
	serveCmd.Flags().StringVarP(&c.serverPort, "port", "p", cfg.Port, "Server port")

	rootCmd.AddCommand(translateCmd, eventsCmd, renderCmd, enginesCmd, schemaCmd, tuiCmd, serveCmd)
	return rootCmd
}

func (c *cli) newLogger() *zap.Logger {
	level := c.cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	if c.verbose {
		level = "debug"
	}
	return logger.Must(c.cfg.Environment, level)
}

func (c *cli) parseOptions() (converter.ParseOptions, error) {
	opts := converter.DefaultParseOptions()
	order, err := converter.ParseEventOrder(c.order)
	if err != nil {
		return opts, err
	}
	opts.Order = order
	opts.InsertRests = c.insertRests
	return opts, nil
}

func (c *cli) newConverter() (*converter.Converter, error) {
	engine, err := engines.Lookup(c.engineName)
	if err != nil {
		return nil, err
	}
	conv := converter.New(engine)
	conv.SetLogger(c.newLogger())

	if c.schemaPath != "" {
		schema, err := translator.LoadSchema(c.schemaPath)
		if err != nil {
			return nil, err
		}
		conv.SetSchema(schema)
	}
	return conv, nil
}

func (c *cli) runTranslate(cmd *cobra.Command, args []string) error {
	input := args[0]

	conv, err := c.newConverter()
	if err != nil {
		return err
	}
	opts, err := c.parseOptions()
	if err != nil {
		return err
	}
	conv.SetParseOptions(opts)

	if c.outputFile != "" {
		result, err := conv.ConvertFile(input, c.outputFile, c.separator)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Translated %s -> %s (%d tokens, %d placeholders)\n",
			input, c.outputFile, len(result.Tokens), result.PlaceholderCount())
		return nil
	}

	format, err := converter.ParseOutputFormat(c.outputFormat)
	if err != nil {
		return err
	}
	if format == converter.OutputBinary {
		return fmt.Errorf("binary output needs -o")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	result, err := conv.Translate(data, converter.DetectFormat(input))
	if err != nil {
		return err
	}
	out, err := converter.Encode(result, format, c.separator)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, _ = io.WriteString(w, "\n")

	if result.HasPlaceholders() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d placeholder(s) in output\n", result.PlaceholderCount())
	}
	return nil
}

func (c *cli) runEvents(cmd *cobra.Command, args []string) error {
	opts, err := c.parseOptions()
	if err != nil {
		return err
	}
	events, err := converter.NewMIDIConverter(opts).ParseMIDIFile(args[0])
	if err != nil {
		return err
	}
	data, err := converter.EncodeEventsJSON(events)
	if err != nil {
		return err
	}

	if c.outputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(c.outputFile, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d events to %s\n", len(events), c.outputFile)
	return nil
}

func (c *cli) runRender(cmd *cobra.Command, args []string) error {
	input := args[0]
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	events, err := converter.ParseEventsJSON(data)
	if err != nil {
		return err
	}

	output := c.outputFile
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".mid"
	}
	if err := converter.NewMIDIConverter(converter.DefaultParseOptions()).WriteMIDIFile(events, output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Rendered %s -> %s\n", input, output)
	return nil
}

func (c *cli) runEngines(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, e := range engines.All() {
		fmt.Fprintf(w, "%-8s %s\n", e.ID(), e.Name())
		fmt.Fprintf(w, "         %s\n", e.Description())
	}
	return nil
}

func (c *cli) runSchema(cmd *cobra.Command, args []string) error {
	engine, err := engines.Lookup(c.engineName)
	if err != nil {
		return err
	}

	format := translator.SchemaFormat(strings.ToLower(c.outputFormat))
	if format == "" {
		format = translator.SchemaJSON
		if c.outputFile != "" {
			format = translator.DetectSchemaFormat(c.outputFile)
		}
	}

	data, err := engine.Schema().Encode(format)
	if err != nil {
		return err
	}

	if c.outputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(c.outputFile, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d keys to %s\n", len(engine.Schema()), c.outputFile)
	return nil
}

func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	conv, err := c.newConverter()
	if err != nil {
		return err
	}
	// keep log lines off the alternate screen
	conv.SetLogger(zap.NewNop())
	return tui.Run(conv)
}

func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	cfg := *c.cfg
	cfg.Port = c.serverPort
	cfg.Engine = c.engineName

	log := logger.Must(cfg.Environment, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	flush, err := api.InitSentry(&cfg, version)
	if err != nil {
		log.Warn("Sentry disabled", zap.Error(err))
	}
	defer flush()

	fmt.Printf("Starting API server on port %s...\n", cfg.Port)
	fmt.Printf("Swagger docs available at http://localhost:%s/swagger/index.html\n", cfg.Port)
	return api.StartServer(&cfg, log)
}
