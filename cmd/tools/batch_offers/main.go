package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"offer-automation/internal/config"
	"offer-automation/internal/document"
	"offer-automation/internal/intake"
	"offer-automation/internal/llm"
	"offer-automation/internal/offer"
	"offer-automation/internal/templates"
)

// result is one line of the JSON report written to stdout.
type result struct {
	Brief    string       `json:"brief"`
	Name     string       `json:"name,omitempty"`
	Company  string       `json:"company,omitempty"`
	Template templates.ID `json:"template,omitempty"`
	Offer    string       `json:"offer,omitempty"`
	Error    string       `json:"error,omitempty"`
}

func main() {
	var dir, out string
	var render bool
	var limit int
	var pause time.Duration
	flag.StringVar(&dir, "dir", "briefs", "Directory of candidate briefs (txt, docx, pdf, doc, odt, rtf)")
	flag.BoolVar(&render, "render", false, "If true, write offer letters; otherwise only report the routing")
	flag.StringVar(&out, "out", "output/batch", "Directory for rendered offer letters")
	flag.IntVar(&limit, "limit", 50, "Max number of briefs to process in one run")
	flag.DurationVar(&pause, "pause", 300*time.Millisecond, "Delay between model calls")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	catalog := templates.DefaultCatalog()
	if cfg.TemplateCatalog != "" {
		var err error
		if catalog, err = templates.LoadCatalog(cfg.TemplateCatalog); err != nil {
			log.Fatal().Err(err).Msg("template catalog")
		}
	}

	llmSvc, err := llm.NewService(llm.Options{
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		SiteURL:  cfg.SiteURL,
		SiteName: cfg.SiteName,
		Timeout:  cfg.LLMTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("LLM service")
	}

	resolver := offer.NewResolver(llmSvc, catalog)
	generator := document.NewGenerator(catalog, templates.NewSelector(cfg.TemplatesDir, cfg.DefaultTemplateFile), cfg.DefaultCompany)
	parser := intake.NewParser()

	briefs, err := listBriefs(dir, limit)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("read briefs")
	}
	log.Info().Int("briefs", len(briefs)).Int("limit", limit).Bool("render", render).Msg("batch started")

	if render {
		if err := os.MkdirAll(out, 0o755); err != nil {
			log.Fatal().Err(err).Msg("create output dir")
		}
	}

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	failed := 0

	for i, path := range briefs {
		res := process(ctx, path, parser, resolver, generator, render, out)
		if res.Error != "" {
			failed++
			log.Warn().Str("brief", path).Str("error", res.Error).Msg("brief skipped")
		} else {
			log.Info().Str("brief", path).Str("template", string(res.Template)).Msg("brief resolved")
		}
		if err := enc.Encode(res); err != nil {
			log.Fatal().Err(err).Msg("write report")
		}

		if i < len(briefs)-1 {
			time.Sleep(pause)
		}
	}

	log.Info().Int("processed", len(briefs)).Int("failed", failed).Msg("batch complete")
	if failed > 0 {
		os.Exit(1)
	}
}

func listBriefs(dir string, limit int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !intake.Supported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	return paths, nil
}

func process(ctx context.Context, path string, parser *intake.Parser, resolver *offer.Resolver,
	generator *document.Generator, render bool, out string) result {
	res := result{Brief: path}

	f, err := os.Open(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	brief, err := parser.ParseFile(path, f)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	rec, err := resolver.Resolve(ctx, brief.FullText)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Name, res.Company, res.Template = rec.Name, rec.Company, rec.Template

	if !render {
		return res
	}

	o, err := generator.Generate(*rec, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	name := offerPath(out, path, o.FileName)
	if err := os.WriteFile(name, o.Data, 0o644); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Offer = name
	return res
}

// offerPath places an offer under out as <brief>_<file>. The brief prefix
// keeps two briefs for the same candidate from overwriting each other.
func offerPath(out, brief, fileName string) string {
	stem := strings.TrimSuffix(filepath.Base(brief), filepath.Ext(brief))
	return filepath.Join(out, stem+"_"+filepath.Base(fileName))
}
