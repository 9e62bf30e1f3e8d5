package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	modeCopy    = "copy"
	modeInPlace = "inplace"
)

// args holds the command-line arguments
var args struct {
	SourceDir       string `arg:"positional,required" help:"Directory with images and videos"`
	OutputDir       string `arg:"--output" help:"Output directory (copy mode)"`
	ConfigFile      string `arg:"--config" help:"Path to config file"`
	Mode            string `arg:"--mode" help:"copy (originals untouched) or inplace (originals renamed)"`
	DryRun          bool   `arg:"--dry-run" help:"Show the planned names without changing anything"`
	AssumeYes       bool   `arg:"-y,--yes" help:"Apply the new names without asking"`
	Verbose         bool   `arg:"-v,--verbose" help:"Enable verbose output"`
	VerifyCopies    bool   `arg:"--verify" help:"Compare checksums of source and copy (copy mode)"`
	MetadataBackend string `arg:"--metadata" help:"Metadata reader: native or exiftool"`
}

// config holds the application configuration
type config struct {
	SourceDir       string   `yaml:"source_directory"`
	OutputDir       string   `yaml:"output_directory"`
	ConfigFile      string   `yaml:"-"`
	Mode            string   `yaml:"mode"`
	DryRun          bool     `yaml:"dry_run"`
	AssumeYes       bool     `yaml:"assume_yes"`
	Verbose         bool     `yaml:"verbose"`
	VerifyCopies    bool     `yaml:"verify_copies"`
	MetadataBackend string   `yaml:"metadata_backend"`
	StripTokens     []string `yaml:"strip_tokens"`
}

// setDefaults initializes the config with default values
func setDefaults(cfg *config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %v", err)
	}

	cfg.ConfigFile = filepath.Join(homeDir, ".gomediarenamerc")
	cfg.Mode = modeInPlace
	cfg.DryRun = false
	cfg.AssumeYes = false
	cfg.Verbose = false
	cfg.VerifyCopies = false
	cfg.MetadataBackend = backendNative
	cfg.StripTokens = append([]string(nil), defaultStripTokens...)
	return nil
}

// parseConfigFile reads and parses the YAML configuration file
func parseConfigFile(cfg *config) error {
	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, just return without an error
			return nil
		}
		return fmt.Errorf("failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	return nil
}

// validateConfig checks if the configuration is valid
func validateConfig(cfg *config) error {
	if cfg.SourceDir == "" {
		return fmt.Errorf("source directory is not specified")
	}

	info, err := os.Stat(cfg.SourceDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s", cfg.SourceDir)
	}
	if err != nil {
		return fmt.Errorf("cannot access source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", cfg.SourceDir)
	}

	switch cfg.Mode {
	case modeInPlace:
	case modeCopy:
		if cfg.OutputDir == "" {
			return fmt.Errorf("output directory is required in copy mode")
		}
		absSource, err := filepath.Abs(cfg.SourceDir)
		if err != nil {
			return fmt.Errorf("resolving source directory: %w", err)
		}
		absOutput, err := filepath.Abs(cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("resolving output directory: %w", err)
		}
		if absOutput == absSource {
			return fmt.Errorf("output directory must differ from source directory in copy mode, use inplace instead")
		}
		outParent := filepath.Dir(filepath.Clean(cfg.OutputDir))
		if _, err := os.Stat(outParent); os.IsNotExist(err) {
			return fmt.Errorf("output parent directory does not exist: %s", outParent)
		}
	default:
		return fmt.Errorf("unknown mode: %q (must be copy or inplace)", cfg.Mode)
	}

	if cfg.MetadataBackend != backendNative && cfg.MetadataBackend != backendExiftool {
		return fmt.Errorf("unknown metadata backend: %q (must be native or exiftool)", cfg.MetadataBackend)
	}

	return nil
}

// wasFlagProvided checks if a CLI flag was explicitly provided
func wasFlagProvided(flagName string) bool {
	for _, a := range os.Args[1:] {
		if a == flagName || strings.HasPrefix(a, flagName+"=") {
			return true
		}
	}
	return false
}

func setupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func run() error {
	cfg := config{}

	if err := setDefaults(&cfg); err != nil {
		return fmt.Errorf("setting defaults: %w", err)
	}

	arg.MustParse(&args)

	if args.ConfigFile != "" {
		cfg.ConfigFile = args.ConfigFile
	}

	if err := parseConfigFile(&cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	// Command-line arguments win over the config file
	if args.SourceDir != "" {
		cfg.SourceDir = args.SourceDir
	}
	if args.OutputDir != "" {
		cfg.OutputDir = args.OutputDir
	}
	if args.Mode != "" {
		cfg.Mode = args.Mode
	}
	if args.MetadataBackend != "" {
		cfg.MetadataBackend = args.MetadataBackend
	}
	if wasFlagProvided("--dry-run") {
		cfg.DryRun = args.DryRun
	}
	if wasFlagProvided("-y") || wasFlagProvided("--yes") {
		cfg.AssumeYes = args.AssumeYes
	}
	if wasFlagProvided("-v") || wasFlagProvided("--verbose") {
		cfg.Verbose = args.Verbose
	}
	if wasFlagProvided("--verify") {
		cfg.VerifyCopies = args.VerifyCopies
	}

	setupLogging(cfg.Verbose)

	if err := validateConfig(&cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := renameMedia(cfg, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("renaming media: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, errAborted) {
			fmt.Fprintln(os.Stderr, "Stopping without renaming...")
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
