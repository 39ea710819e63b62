// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/openubf/ubf/lib/version"
)

// genConfig mirrors the optional YAML configuration file. Values from
// flags explicitly set on the command line win over config values.
type genConfig struct {
	// Tag is the struct tag key carrying field references.
	Tag string `yaml:"tag"`

	// Output is the name of the generated file, written into each
	// scanned directory.
	Output string `yaml:"output"`

	// Dirs lists the package directories to scan. Replaces --dir.
	Dirs []string `yaml:"dirs"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dir        string
		output     string
		tag        string
		configPath string
		verbose    bool
	)

	flagSet := pflag.NewFlagSet("ubfgen", pflag.ContinueOnError)
	flagSet.StringVar(&dir, "dir", ".", "package directory to scan")
	flagSet.StringVar(&output, "output", "ubf_gen.go", "name of the generated file")
	flagSet.StringVar(&tag, "tag", "ubf", "struct tag key carrying field references")
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file (its dirs replace --dir)")
	flagSet.BoolVar(&verbose, "verbose", false, "log each generated struct")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("ubfgen")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	dirs := []string{dir}
	if configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Tag != "" && !flagSet.Changed("tag") {
			tag = cfg.Tag
		}
		if cfg.Output != "" && !flagSet.Changed("output") {
			output = cfg.Output
		}
		if len(cfg.Dirs) > 0 && !flagSet.Changed("dir") {
			dirs = cfg.Dirs
		}
	}

	for _, d := range dirs {
		if err := generate(d, output, tag, logger); err != nil {
			return err
		}
	}
	return nil
}

// generate scans one package directory and writes its generated file.
// A directory with no marked structs is not an error: the tool runs
// under go:generate across whole trees.
func generate(dir, output, tag string, logger *slog.Logger) error {
	pkgName, structs, err := scanPackage(dir, output, tag)
	if err != nil {
		return err
	}
	if len(structs) == 0 {
		logger.Info("no marked structs", "dir", dir)
		return nil
	}
	for _, s := range structs {
		logger.Debug("generating mapping", "struct", s.Name, "fields", len(s.Fields))
	}

	code, err := emit(pkgName, structs)
	if err != nil {
		return err
	}
	target := filepath.Join(dir, output)
	if err := os.WriteFile(target, code, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	logger.Info("wrote generated mappings", "file", target, "structs", len(structs))
	return nil
}

func loadConfig(path string) (genConfig, error) {
	var cfg genConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
