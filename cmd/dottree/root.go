package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/calumari/dottree"
)

var (
	rootKey     string
	formatName  string
	inputFormat string
	charset     string
	outputPath  string
	verbose     bool
)

func init() {
	rootCmd.Flags().StringVarP(&rootKey, "root", "r", "en", "Top-level key, usually the locale")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format (default from --output extension, else yaml)")
	rootCmd.Flags().StringVarP(&inputFormat, "input-format", "i", "", "Input format: json or yaml (default from input extension, else json)")
	rootCmd.Flags().StringVarP(&charset, "encoding", "e", "", "Output character encoding, e.g. iso-8859-1 (default utf-8)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug records to stderr")
}

var rootCmd = &cobra.Command{
	Use:   "dottree [input]",
	Short: "Nest flat dotted translation keys into YAML or JSON",
	Long: `dottree reads a JSON or YAML document of dotted keys, for example

  {"greeting.hello": "Bonjour", "days.0": "lundi", "days.1": "mardi"}

and writes the nested document under a root key:

  fr:
    greeting:
      hello: Bonjour
    days:
      - lundi
      - mardi`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		registry, err := dottree.NewRegistry(dottree.Builtin())
		if err != nil {
			return err
		}
		format, err := resolveFormat(registry)
		if err != nil {
			return err
		}

		in, inName, err := openInput(args)
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()

		decode, err := resolveDecoder(inName)
		if err != nil {
			return err
		}

		opts := []dottree.Option{dottree.WithFormat(format), dottree.WithLogger(logger)}
		if charset != "" {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return fmt.Errorf("encoding %q: %w", charset, err)
			}
			opts = append(opts, dottree.WithEncoding(enc))
		}

		out := cmd.OutOrStdout()
		var file *os.File
		if outputPath != "" {
			file, err = os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			// Closed explicitly on success; this only covers error returns.
			defer func() { _ = file.Close() }()
			out = file
		}

		s, err := dottree.New(out, rootKey, opts...)
		if err != nil {
			return err
		}
		logger.Debug("reading", "input", inName, "format", format.Name)
		if err := decode(in, s); err != nil {
			return fmt.Errorf("read %s: %w", inName, err)
		}
		if err := s.Flush(); err != nil {
			return err
		}
		if file != nil {
			if err := file.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
		}
		return nil
	},
}

func resolveFormat(r *dottree.Registry) (dottree.Format, error) {
	if formatName != "" {
		return r.Lookup(formatName)
	}
	if ext := filepath.Ext(outputPath); ext != "" {
		if f, err := r.ByExtension(ext); err == nil {
			return f, nil
		}
		if strings.EqualFold(ext, ".yaml") {
			return r.Lookup("yaml")
		}
	}
	return r.Lookup("yaml")
}

func resolveDecoder(inName string) (func(io.Reader, dottree.KeyValueWriter) error, error) {
	name := strings.ToLower(inputFormat)
	if name == "" {
		switch strings.ToLower(filepath.Ext(inName)) {
		case ".yml", ".yaml":
			name = "yaml"
		default:
			name = "json"
		}
	}
	switch name {
	case "json":
		return dottree.DecodeJSON, nil
	case "yaml", "yml":
		return dottree.DecodeYAML, nil
	default:
		return nil, fmt.Errorf("input format %q: %w", inputFormat, dottree.ErrUnknownFormat)
	}
}

func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("open input: %w", err)
		}
		return f, args[0], nil
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, "", errors.New("no input: pass a file or pipe a document on stdin")
	}
	return io.NopCloser(os.Stdin), "<stdin>", nil
}
