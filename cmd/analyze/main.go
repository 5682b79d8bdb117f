package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spacesedan/tweetsense/config"
	"github.com/spacesedan/tweetsense/internal/logging"
	"github.com/spacesedan/tweetsense/internal/models"
	"github.com/spacesedan/tweetsense/internal/normalize"
	"github.com/spacesedan/tweetsense/internal/pipeline"
	"github.com/spacesedan/tweetsense/internal/searchlog"
	"github.com/spacesedan/tweetsense/internal/sentiment"
)

func main() {
	language := flag.String("lang", pipeline.DEFAULT_LANGUAGE, "language of the input")
	exportPath := flag.String("export", "", "write the search log as CSV to this file")
	stripMarkup := flag.Bool("strip-markup", false, "render markdown and drop links before analysis")
	flag.Parse()

	config.LoadEnv(config.AppEnv())
	cfg := config.FromEnv()
	logging.InitLogger(cfg.LogLevel)

	if err := run(context.Background(), os.Stdout, os.Stdin, flag.Args(), *language, *exportPath, *stripMarkup || cfg.StripMarkup); err != nil {
		slog.Error("[Analyze] Failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, in io.Reader, args []string, language, exportPath string, stripMarkup bool) error {
	lemmatizer, err := normalize.NewGolemLemmatizer()
	if err != nil {
		return err
	}
	analyzer := pipeline.NewAnalyzer(
		normalize.New(lemmatizer, normalize.Options{StripMarkup: stripMarkup}),
		sentiment.NewVaderScorer(),
	)

	log := searchlog.New()
	analyze := func(text string) error {
		res, err := analyzer.Analyze(ctx, log, models.AnalyzeRequest{Text: text, Language: language})
		if errors.Is(err, pipeline.ErrEmptyInput) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\tpolarity=%.2f\tsubjectivity=%.2f\tcleaned=%q\n",
			res.Record.Label, res.Record.Polarity, res.Record.Subjectivity, res.Cleaned)
		return nil
	}

	if len(args) > 0 {
		for _, arg := range args {
			if err := analyze(arg); err != nil {
				return err
			}
		}
	} else {
		scan := bufio.NewScanner(in)
		for scan.Scan() {
			if err := analyze(strings.TrimRight(scan.Text(), "\r")); err != nil {
				return err
			}
		}
		if err := scan.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}

	if exportPath == "" {
		return nil
	}
	if log.IsEmpty() {
		slog.Warn("[Analyze] Nothing analyzed, skipping export")
		return nil
	}

	f, err := os.Create(exportPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := log.Export(f); err != nil {
		return err
	}
	slog.Info("[Analyze] Exported search log",
		slog.String("path", exportPath),
		slog.Int("records", log.Len()))
	return f.Close()
}
