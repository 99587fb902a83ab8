package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"moviecatalog/bootstrap"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/logger"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Columns expected in the seed file. genre and cast hold "|" separated lists;
// poster is the stored relative path, e.g. public/images/inception.jpg.
var seedColumns = []string{"title", "synopsis", "releasedDate", "rating", "trailer", "genre", "director", "cast", "poster"}

type movieCreator interface {
	Create(ctx context.Context, m movie.Movie) error
}

type importResult struct {
	Created int
	Skipped int
}

func main() {
	var (
		csvPath string
		limit   int
	)

	flag.StringVar(&csvPath, "csv", "", "Path to the movies CSV file")
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config failed:", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{AppEnv: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if csvPath == "" {
		log.Fatal("-csv is required")
	}

	res, err := run(context.Background(), cfg, csvPath, limit, log)
	if err != nil {
		log.Fatal("import failed", zap.Error(err), zap.Int("created", res.Created))
	}
	log.Info("import completed", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
}

// run imports the file and releases the stores before returning, so the
// caller may exit on error.
func run(ctx context.Context, cfg *config.Config, csvPath string, limit int, log *zap.Logger) (importResult, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return importResult{}, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		return importResult{}, fmt.Errorf("open stores: %w", err)
	}
	defer func() { _ = stores.Close(ctx) }()

	// posters are stored relative; the decorator only matters for reads
	uc := movie.NewUsecase(stores.Movies, movie.NewPosterDecorator(""))
	return importMovies(ctx, uc, file, limit, log)
}

func importMovies(ctx context.Context, svc movieCreator, r io.Reader, limit int, log *zap.Logger) (importResult, error) {
	var res importResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idx, err := parseHeader(reader)
	if err != nil {
		return res, err
	}

	for line := 2; limit <= 0 || res.Created < limit; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}

		m, err := parseRecord(record, idx)
		if err == nil {
			err = svc.Create(ctx, m)
		}
		if err != nil {
			res.Skipped++
			log.Warn("skipping row", zap.Int("line", line), zap.Error(err))
			continue
		}
		res.Created++
	}

	return res, nil
}

func parseHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range seedColumns {
		if col == "rating" || col == "trailer" {
			continue
		}
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q in csv header", col)
		}
	}
	return idx, nil
}

func parseRecord(record []string, idx map[string]int) (movie.Movie, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	released, err := time.Parse("2006-01-02", get("releasedDate"))
	if err != nil {
		return movie.Movie{}, movie.ErrInvalidDate
	}

	m := movie.Movie{
		Title:        get("title"),
		Synopsis:     get("synopsis"),
		ReleasedDate: released,
		Poster:       get("poster"),
		Trailer:      get("trailer"),
		Genre:        splitList(get("genre")),
		Director:     get("director"),
		Cast:         splitList(get("cast")),
	}
	if raw := get("rating"); raw != "" {
		rating, err := movie.ParseRating(raw)
		if err != nil {
			return movie.Movie{}, err
		}
		m.Rating = &rating
	}
	return m, nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, "|") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
