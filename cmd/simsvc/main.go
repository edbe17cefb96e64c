package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"opening_ai/internal/api"
	"opening_ai/internal/config"
	"opening_ai/internal/opening"
	"opening_ai/internal/util"
)

func main() {
	var cfgDir, out, mode, addr string
	var tick, verbosity, workers int
	var percent float64
	flag.StringVar(&cfgDir, "config", "assets", "config dir (rules.yaml, scenario.yaml)")
	flag.StringVar(&out, "out", "out.json", "output file")
	flag.StringVar(&mode, "mode", "optimize", "optimize | simulate | sweep | serve")
	flag.StringVar(&addr, "addr", ":8080", "listen address for serve")
	flag.IntVar(&tick, "tick", 0, "manual/sweep attack tick (default: scenario manual tick)")
	flag.Float64Var(&percent, "percent", -1, "manual attack percent (default: scenario manual percent)")
	flag.IntVar(&verbosity, "v", -1, "trace verbosity 0..2 (default: scenario)")
	flag.IntVar(&workers, "workers", 8, "sweep workers")
	flag.Parse()

	rulesCfg, sc, err := config.LoadAll(cfgDir)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	rules := opening.NewRules(rulesCfg)
	base := opening.FromConfig(sc.Base).Sorted()
	chainOpts := opening.ChainOptionsFrom(sc.Chain)
	if tick == 0 {
		tick = sc.Manual.Tick
	}
	if percent < 0 {
		percent = sc.Manual.Percent
	}

	switch mode {
	case "optimize":
		if verbosity < 0 {
			verbosity = sc.Verbosity
		}
		res := runOptimize(rules, base, sc, chainOpts, verbosity)
		write(out, res)
		if !res.Chain.OK {
			fmt.Printf("Chain failed at tick %d -> %s\n", res.Chain.FailedTick, out)
			os.Exit(1)
		}
		fmt.Printf("Chain optimized. Land=%d Troops=%d Success=%v -> %s\n",
			res.Verify.Land, res.Verify.Troops, res.Verify.Success, out)
	case "simulate":
		if tick < 1 {
			log.Fatalf("simulate: no manual tick (set -tick or scenario manual.tick)")
		}
		res := runManual(rules, base, opening.Attack{Tick: tick, Percent: percent}, sc.VerifyTicks, verbosity)
		write(out, res)
		fmt.Printf("Success: %v | Final Land: %d -> %s\n", res.Result.Success, res.Result.Land, out)
	case "sweep":
		res := runSweep(rules, base, sc, chainOpts, tick, workers)
		write(out, res)
		fmt.Printf("Sweep tick %d horizon %d: min step %d (%d/%d sustained) -> %s\n",
			res.Tick, res.Horizon, res.MinStep, res.Sustained, len(res.Rows), filepath.Base(out))
	case "serve":
		serve(addr, &api.Server{Rules: rules, Chain: chainOpts, VerifyTicks: sc.VerifyTicks})
	default:
		log.Fatalf("unknown mode %q", mode)
	}
}

type optimizeOutput struct {
	Scenario string              `json:"scenario"`
	Chain    opening.ChainResult `json:"chain"`
	Verify   *opening.Result     `json:"verify,omitempty"`
}

func runOptimize(rules opening.Rules, base opening.Opening, sc *config.ScenarioConfig, opts opening.ChainOptions, verbosity int) optimizeOutput {
	chain, err := opening.NewSimulator(rules).OptimizeChain(base, sc.DecisionTicks, opts)
	if err != nil {
		log.Fatalf("optimize: %v", err)
	}
	outp := optimizeOutput{Scenario: sc.ID, Chain: chain}
	if !chain.OK {
		return outp
	}
	for _, st := range chain.Steps {
		fmt.Printf("tick %4d -> %6.2f%% (step %d, sustained to %d)\n", st.Tick, st.Percent, st.Step, st.Horizon)
	}
	if verbosity < 1 {
		verbosity = 1
	}
	sim := opening.NewSimulator(rules, opening.WithTrace(opening.TextSink(os.Stdout), verbosity))
	res, err := sim.Run(chain.Opening, sc.VerifyTicks)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	outp.Verify = &res
	return outp
}

type manualOutput struct {
	Opening opening.Opening `json:"opening"`
	Result  opening.Result  `json:"result"`
	Events  []opening.Event `json:"events,omitempty"`
}

func runManual(rules opening.Rules, base opening.Opening, extra opening.Attack, maxTicks, verbosity int) manualOutput {
	if verbosity < 0 {
		verbosity = 2
	}
	rec := &opening.Recorder{}
	sink := opening.TextSink(os.Stdout)
	emit := func(ev opening.Event) {
		rec.Emit(ev)
		sink(ev)
	}
	attacks := base.Insert(extra)
	res, err := opening.NewSimulator(rules, opening.WithTrace(emit, verbosity)).Run(attacks, maxTicks)
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}
	return manualOutput{Opening: attacks, Result: res, Events: rec.Events}
}

type sweepRow struct {
	Step      int     `json:"step"`
	Percent   float64 `json:"percent"`
	Sustained bool    `json:"sustained"`
	Land      int     `json:"land"`
	Troops    int     `json:"troops"`
}

type sweepOutput struct {
	Tick      int        `json:"tick"`
	Horizon   int        `json:"horizon"`
	MinStep   int        `json:"min_step"`
	Sustained int        `json:"sustained"`
	Rows      []sweepRow `json:"rows"`
}

// runSweep probes every step at one tick on the worker pool. The horizon is
// the one the chain would use for that tick.
func runSweep(rules opening.Rules, base opening.Opening, sc *config.ScenarioConfig, opts opening.ChainOptions, tick, workers int) sweepOutput {
	if tick < 1 {
		log.Fatalf("sweep: no tick (set -tick or scenario manual.tick)")
	}
	horizon := opts.Horizon(tick)
	for _, t := range sc.DecisionTicks {
		if t > tick {
			horizon = t - 1
			break
		}
	}
	if horizon < tick {
		log.Fatalf("sweep: horizon %d is before tick %d", horizon, tick)
	}
	steps := make([]int, rules.SearchResolution)
	for i := range steps {
		steps[i] = i + 1
	}
	sim := opening.NewSimulator(rules)
	rows := util.ParallelMap(steps, workers, func(step int) sweepRow {
		res, ok, err := sim.Probe(base, tick, horizon, step)
		if err != nil {
			log.Fatalf("sweep: %v", err)
		}
		return sweepRow{
			Step:      step,
			Percent:   opening.StepPercent(step, rules.SearchResolution),
			Sustained: ok,
			Land:      res.Land,
			Troops:    res.Troops,
		}
	})
	outp := sweepOutput{Tick: tick, Horizon: horizon, Rows: rows}
	for _, r := range rows {
		if !r.Sustained {
			continue
		}
		if outp.MinStep == 0 {
			outp.MinStep = r.Step
		}
		outp.Sustained++
	}
	return outp
}

func serve(addr string, s *api.Server) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: api.NewRouter(s)}
	go func() {
		log.Printf("simsvc listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func write(path string, v any) {
	if err := os.WriteFile(path, opening.MarshalPretty(v), 0644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
}
