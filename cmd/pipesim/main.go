// Package main provides the entry point for pipesim.
// pipesim is a five-stage in-order pipeline simulator with forwarding
// and hazard detection, a pair of parameterized caches, and an I/O
// device/controller demo contrasting polling with interrupts.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/greywind-labs/pipesim/cache"
	"github.com/greywind-labs/pipesim/ioctl"
	"github.com/greywind-labs/pipesim/isa"
	"github.com/greywind-labs/pipesim/pipeline"
)

var (
	configPath = flag.String("config", "", "path to a YAML workload config")
	verbose    = flag.Bool("v", false, "verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	logger := newLogger(*verbose)
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var runErr error
	switch flag.Arg(0) {
	case "run":
		runErr = runPipeline(flag.Args()[1:], logger)
	case "cache-replay":
		runErr = runCacheReplay(flag.Args()[1:], cfg, logger)
	case "io-demo":
		runErr = runIODemo(flag.Args()[1:], cfg, logger)
	default:
		usage()
		os.Exit(1)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: pipesim [-config path.yaml] [-v] <command> [args]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  run <program.asm>                       assemble and run the pipeline, print stats")
	fmt.Fprintln(os.Stderr, "  cache-replay <trace-file>                drive a cache with a newline-delimited address trace")
	fmt.Fprintln(os.Stderr, "  io-demo                                  compare polling vs. interrupt drain of a sensor")
}

func newLogger(verbose bool) logr.Logger {
	level := 0
	if verbose {
		level = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: level})
}

func runPipeline(args []string, logger logr.Logger) error {
	if len(args) < 1 {
		return fmt.Errorf("pipesim run: expected a program path")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("pipesim run: %w", err)
	}
	defer f.Close()

	program, err := isa.AssembleProgram(f)
	if err != nil {
		return fmt.Errorf("pipesim run: %w", err)
	}

	pipe := pipeline.NewPipeline(pipeline.WithLogger(logger))
	pipe.LoadProgram(program)
	cycles := pipe.Run(0)

	stats := pipe.Stats()
	fmt.Printf("cycles run:           %d\n", cycles)
	fmt.Printf("cycles:               %d\n", stats.Cycles)
	fmt.Printf("instructions complete: %d\n", stats.InstructionsCompleted)
	fmt.Printf("stalls inserted:      %d\n", stats.StallsInserted)
	fmt.Printf("branches taken:       %d\n", stats.BranchesTaken)
	fmt.Printf("CPI:                  %.3f\n", stats.CPI())
	return nil
}

func runCacheReplay(args []string, cfg Config, logger logr.Logger) error {
	fs := flag.NewFlagSet("cache-replay", flag.ExitOnError)
	blockSize := fs.Int("block-size", cfg.Cache.BlockSize, "words per cache line")
	lines := fs.Int("lines", cfg.Cache.Lines, "number of sets (direct-mapped) or sets (2-way)")
	ways := fs.Int("ways", cfg.Cache.Ways, "associativity: 1 for direct-mapped, 2 for set-associative")
	memSize := fs.Int("memory-size", cfg.Cache.MemorySize, "backing memory size in words")
	seed := fs.Int64("seed", 1, "seed for the pseudo-random backing memory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("pipesim cache-replay: expected a trace file path")
	}

	backing := cache.NewRandomMemory(*memSize, *seed)
	var c *cache.Cache
	if *ways >= 2 {
		c = cache.NewTwoWaySetAssociative(*blockSize, *lines, *memSize, backing)
	} else {
		c = cache.NewDirectMapped(*blockSize, *lines, *memSize, backing)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("pipesim cache-replay: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		addr, err := strconv.Atoi(line)
		if err != nil {
			logger.Info("skipping malformed trace line", "line", line)
			continue
		}
		c.Read(addr)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("pipesim cache-replay: %w", err)
	}

	stats := c.Stats()
	fmt.Printf("accesses: %d\n", stats.Accesses)
	fmt.Printf("hits:     %d\n", stats.Hits)
	fmt.Printf("misses:   %d\n", stats.Misses)
	fmt.Printf("hit rate: %.3f\n", stats.HitRate())
	return nil
}

func runIODemo(args []string, cfg Config, logger logr.Logger) error {
	fs := flag.NewFlagSet("io-demo", flag.ExitOnError)
	duration := fs.Duration("duration", cfg.IODemo.Duration, "how long to run each drain strategy")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("-- polling --")
	pollSensor := ioctl.NewTemperatureSensor("temp-poll", 15, 35, 50*time.Millisecond, 1)
	pollCtx, pollCancel := context.WithCancel(context.Background())
	pollSensor.Start(pollCtx)

	poller := ioctl.NewPollingController(logger)
	poller.Register(pollSensor)

	polled := 0
	deadline := time.Now().Add(*duration)
	for time.Now().Before(deadline) {
		if _, err := poller.Read("temp-poll"); err == nil {
			polled++
		}
		time.Sleep(10 * time.Millisecond)
	}
	pollCancel()
	_ = pollSensor.Stop(time.Second)
	fmt.Printf("polling drained %d readings in %s\n", polled, *duration)

	fmt.Println("-- interrupts --")
	intSensor := ioctl.NewTemperatureSensor("temp-int", 15, 35, 50*time.Millisecond, 1)
	var interruptCount int64
	controller := ioctl.NewInterruptController(32, logger)
	controller.Register(intSensor, func(ioctl.Interrupt) {
		atomic.AddInt64(&interruptCount, 1)
	})

	intCtx, intCancel := context.WithCancel(context.Background())
	intSensor.Start(intCtx)
	controller.Start(intCtx)

	time.Sleep(*duration)
	intCancel()
	_ = intSensor.Stop(time.Second)
	_ = controller.Stop(time.Second)
	fmt.Printf("interrupts dispatched %d readings in %s\n", interruptCount, *duration)

	return nil
}
