// SPDX-License-Identifier: MIT

// Command holodeck evolves a synthetic MBHB population, synthesizes its
// gravitational-wave background and optionally archives the run.
//
//	holodeck -config run.yaml -db runs.db
//
// HOLODECK_CONFIG and HOLODECK_DB, from the environment or a .env file,
// supply defaults for -config and -db.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/jaedmunt/holodeck/config"
	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/gwb"
	"github.com/jaedmunt/holodeck/internal/archive"
	"github.com/jaedmunt/holodeck/rng"
	"github.com/jaedmunt/holodeck/universe"
)

// Random streams derived from the configured seed.
const (
	streamPopulation = iota + 1
	streamSynthesis
	streamResample
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "holodeck: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("holodeck", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "optional dotenv file with HOLODECK_* defaults")
	cfgPath := fs.String("config", "", "YAML run configuration (default $HOLODECK_CONFIG, else built-in defaults)")
	dbPath := fs.String("db", "", "SQLite archive to store the run in (default $HOLODECK_DB, else none)")
	quiet := fs.Bool("quiet", false, "suppress progress logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}
	if *cfgPath == "" {
		*cfgPath = os.Getenv("HOLODECK_CONFIG")
	}
	if *dbPath == "" {
		*dbPath = os.Getenv("HOLODECK_DB")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}

	logf := log.Printf
	if *quiet {
		logf = func(string, ...any) {}
	}
	logf("holodeck: config %s (fingerprint %s)", displayPath(*cfgPath), cfg.Fingerprint())

	base := rng.FromSeed(cfg.Seed)
	track, err := evolve(cfg, rng.Derive(base, streamPopulation), logf, *quiet)
	if err != nil {
		return err
	}

	edges, err := cfg.Edges()
	if err != nil {
		return err
	}
	gwOpts := append(cfg.GWBOptions(), gwb.WithLogf(logf))
	if !*quiet && isTerminal() {
		gwOpts = append(gwOpts, gwb.WithProgress(progressBar("gwb")))
	}
	sp, err := gwb.Synthesize(rng.Derive(base, streamSynthesis), track, edges, gwOpts...)
	if err != nil {
		return err
	}

	var catSpec *gwb.Spectrum
	if uo := cfg.UniverseOptions(); uo != nil {
		orbEdges := make([]float64, len(edges))
		for k, e := range edges {
			orbEdges[k] = e / 2
		}
		cat, _, err := universe.Sample(rng.Derive(base, streamResample), track, orbEdges, append(uo, universe.WithLogf(logf))...)
		if err != nil {
			return err
		}
		logf("holodeck: resampled catalog of %s binaries", humanize.Comma(int64(cat.Len())))
		if catSpec, err = gwb.FromCatalog(cat, edges, track.Cosmology(), gwb.WithLoudest(cfg.GWB.Loudest)); err != nil {
			return err
		}
	}

	coalesced := countTrue(track.Coalesced())
	summarize(stdout, track, coalesced, sp, catSpec)

	if *dbPath == "" {
		return nil
	}
	store, err := archive.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.Save(ctx, archive.Run{
		Fingerprint: cfg.Fingerprint(),
		Config:      string(cfg.Marshal()),
		Binaries:    track.Size(),
		Coalesced:   coalesced,
		Spectrum:    sp,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "archived run %s in %s\n", id, *dbPath)
	return nil
}

func evolve(cfg *config.Config, r *rand.Rand, logf func(string, ...any), quiet bool) (*evolution.Track, error) {
	pop, err := cfg.BuildPopulation(r)
	if err != nil {
		return nil, err
	}
	models, err := cfg.BuildHardening(pop)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.EvolutionOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, evolution.WithLogf(logf))
	if !quiet && isTerminal() {
		opts = append(opts, evolution.WithProgress(progressBar("evolve")))
	}
	logf("holodeck: evolving %s binaries (%s mode)", humanize.Comma(int64(pop.Size())), cfg.Evolution.Mode)
	if cfg.Adaptive() {
		return evolution.EvolveAdaptive(pop, models, opts...)
	}
	return evolution.Evolve(pop, models, opts...)
}

func summarize(w io.Writer, t *evolution.Track, coalesced int, sp, catSpec *gwb.Spectrum) {
	fmt.Fprintf(w, "binaries: %s (%s coalesced), %s stored steps\n",
		humanize.Comma(int64(t.Size())), humanize.Comma(int64(coalesced)), humanize.Comma(int64(t.TotalSteps())))
	fmt.Fprintf(w, "harmonics: %d..%d, realizations: %d\n",
		sp.Harmonics[0], sp.Harmonics[len(sp.Harmonics)-1], sp.NReals())
	fmt.Fprintf(w, "%12s %12s %12s %12s", "f_gw", "hc analytic", "hc median", "hc fg median")
	if sp.Single != nil {
		fmt.Fprintf(w, " %12s", "hc single")
	}
	if catSpec != nil {
		fmt.Fprintf(w, " %12s", "hc catalog")
	}
	fmt.Fprintln(w)
	for j, f := range sp.Freqs {
		fmt.Fprintf(w, "%12s %12.3e %12.3e %12.3e", humanize.SIWithDigits(f, 2, "Hz"),
			sp.Analytic[j], median(sp.Total.Row(j)), median(sp.Foreground.Row(j)))
		if sp.Single != nil {
			fmt.Fprintf(w, " %12.3e", sp.Single[j])
		}
		if catSpec != nil {
			fmt.Fprintf(w, " %12.3e", catSpec.Total.Row(j)[0])
		}
		fmt.Fprintln(w)
	}
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return s[n/2]
	}
	return 0.5 * (s[n/2-1] + s[n/2])
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func displayPath(p string) string {
	if p == "" {
		return "<defaults>"
	}
	return p
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// progressBar redraws "label done/total" in place on stdout.
func progressBar(label string) func(done, total int) {
	return func(done, total int) {
		fmt.Printf("\r%s %s/%s", label, humanize.Comma(int64(done)), humanize.Comma(int64(total)))
		if done >= total {
			fmt.Println()
		}
	}
}
