package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"git.fiblab.net/sim/autoownership/ownership"
	"git.fiblab.net/sim/autoownership/store"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	log = logrus.WithField("module", "main")
)

type runConfig struct {
	Input    string
	Output   string
	MongoURI string
	Postgres string
	DebugIDs []int64
	Options  ownership.RunOptions
}

// loadProperties reads a flat yaml mapping of property names to values.
// An empty path yields an empty set.
func loadProperties(path string) (map[string]string, error) {
	props := make(map[string]string)
	if path == "" {
		return props, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return props, nil
}

func overrideProperties(props map[string]string, projectDir, uecFile string) {
	if projectDir != "" {
		props[ownership.PROPERTIES_PROJECT_DIRECTORY] = projectDir
	}
	if uecFile != "" {
		props[ownership.AO_CONTROL_FILE_TARGET] = uecFile
	}
}

func parseHouseholdIDs(s string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("household id %q: %w", field, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func openStore(ctx context.Context, s string, cfg runConfig) (store.Store, error) {
	if s == "" {
		s = cfg.Postgres
	}
	path, err := store.NewPath(s)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return nil, fmt.Errorf("no households given, use -households or -postgres")
	}
	log.Infof("households at %s", path)
	return store.Open(ctx, path, cfg.MongoURI)
}

// run loads the households, applies the auto ownership model and writes the
// results back.
func run(ctx context.Context, setup *ownership.Setup, cfg runConfig) error {
	input, err := openStore(ctx, cfg.Input, cfg)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close(context.Background())

	households, err := input.Load(ctx)
	if err != nil {
		return err
	}
	for _, hh := range households {
		if lo.Contains(cfg.DebugIDs, hh.ID) {
			hh.Debug = true
		}
	}

	start := time.Now()
	report, err := ownership.Run(ctx, setup, households, cfg.Options)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Infof("auto ownership of %d households in %v, %d skipped",
		report.Processed, time.Since(start), len(report.Skipped))
	for _, s := range report.Skipped {
		log.Warnf("skipped household %d: %v", s.HouseholdID, s.Err)
	}

	output := input
	if cfg.Output != "" {
		output, err = openStore(ctx, cfg.Output, cfg)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer output.Close(context.Background())
	}
	return output.Save(ctx, households)
}
