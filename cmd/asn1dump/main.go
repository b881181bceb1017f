// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// asn1dump prints the TLV structure of a BER, CER or DER encoding.
//
// The input is read from the file named on the command line or from standard
// input. It may be binary, hexadecimal (--hex) or base64 (--base64). Every
// data value is printed with its offset, tag and length. Primitive values of
// universal types are decoded and printed in a readable form.
//
// Usage:
//
//	asn1dump [flags] [file]
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/asn1kit/asn1/ber"
	"github.com/asn1kit/asn1/tlv"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// config holds the parsed command line.
type config struct {
	hex      bool
	base64   bool
	format   string
	rules    string
	maxDepth int
	verbose  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config
	flagSet := pflag.NewFlagSet("asn1dump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&cfg.hex, "hex", false, "input is hexadecimal; white space is ignored")
	flagSet.BoolVar(&cfg.base64, "base64", false, "input is base64; white space is ignored")
	flagSet.StringVarP(&cfg.format, "format", "f", "text", "output format: text or yaml")
	flagSet.StringVarP(&cfg.rules, "rules", "r", "ber", "encoding rules for primitive values: ber, cer or der")
	flagSet.IntVar(&cfg.maxDepth, "max-depth", tlv.DefaultMaxDepth, "maximum nesting depth of constructed values")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "log debug information to standard error")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  asn1dump [flags] [file]\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(1))
	}
	if cfg.hex && cfg.base64 {
		return errors.New("--hex and --base64 are mutually exclusive")
	}
	if cfg.format != "text" && cfg.format != "yaml" {
		return fmt.Errorf("unknown output format %q", cfg.format)
	}
	rules, err := parseRules(cfg.rules)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	data, err := readInput(flagSet.Arg(0), stdin, cfg)
	if err != nil {
		return err
	}
	logger.Debug("read input", "size", len(data), "rules", rules)

	opts := ber.Options{Rules: rules, MaxDepth: cfg.maxDepth, Logger: logger}
	nodes, scanErr := scan(data, opts)
	if cfg.format == "yaml" {
		err = writeYAML(stdout, nodes)
	} else {
		err = writeText(stdout, nodes)
	}
	return errors.Join(scanErr, err)
}

// parseRules returns the rule set called name.
func parseRules(name string) (ber.Rules, error) {
	for _, r := range []ber.Rules{ber.BER, ber.CER, ber.DER} {
		if strings.EqualFold(r.String(), name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown encoding rules %q", name)
}

// readInput reads the file at path or stdin if path is empty or "-" and
// removes the textual encoding selected in cfg.
func readInput(path string, stdin io.Reader, cfg config) ([]byte, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.hex:
		data, err = hex.DecodeString(string(stripSpace(data)))
	case cfg.base64:
		data, err = base64.StdEncoding.DecodeString(string(stripSpace(data)))
	}
	if err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return data, nil
}

func stripSpace(b []byte) []byte {
	return bytes.Join(bytes.Fields(b), nil)
}
