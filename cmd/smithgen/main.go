// Command smithgen is a thin runnable example wiring the generation
// engine to the domain stack: a single-shot mode that emits one compile
// unit from a config file and a seed, and a batch mode that pulls seeds
// off a seedqueue.Queue, throttled by a rate.Limiter, recording every
// attempt to a corpus.Store and an OTel span via telemetry.Recorder.
// Both modes are peripheral to the core generation engine, which never
// imports this package.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/time/rate"

	"smithgen.dev/smithgen/config"
	"smithgen.dev/smithgen/corpus"
	"smithgen.dev/smithgen/emit"
	"smithgen.dev/smithgen/generator"
	"smithgen.dev/smithgen/seedqueue"
	"smithgen.dev/smithgen/telemetry"
)

func main() {
	mode := flag.String("mode", "generate", "generate | batch")
	configPath := flag.String("config", "", "path to a generation config YAML document")
	seedPath := flag.String("seed", "", "path to an entropy seed file (generate mode)")
	out := flag.String("out", "", "output path for emitted source (generate mode, default stdout)")

	redisAddr := flag.String("redis", "localhost:6379", "Redis address (batch mode)")
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB URI (batch mode)")
	mongoDB := flag.String("mongo-db", "smithgen", "MongoDB database name (batch mode)")
	configName := flag.String("config-name", "default", "config name batch jobs are tagged with")
	workers := flag.Int("workers", 1, "number of concurrent batch workers")
	ratePerSec := flag.Float64("rate", 5, "max generation attempts per second, per worker")
	popTimeout := flag.Duration("pop-timeout", 5*time.Second, "how long a worker blocks waiting for a job")

	flag.Parse()

	if *configPath == "" {
		log.Fatal("smithgen: -config is required")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("smithgen: %v", err)
	}

	switch *mode {
	case "generate":
		runGenerate(cfg, *seedPath, *out)
	case "batch":
		runBatch(cfg, *configName, *redisAddr, *mongoURI, *mongoDB, *workers, *ratePerSec, *popTimeout)
	default:
		log.Fatalf("smithgen: unknown mode %q", *mode)
	}
}

func runGenerate(cfg *config.Config, seedPath, out string) {
	var seed []byte
	var err error
	if seedPath != "" {
		seed, err = os.ReadFile(seedPath)
		if err != nil {
			log.Fatalf("smithgen: read seed: %v", err)
		}
	} else {
		seed = make([]byte, 8192)
		_, _ = os.Stdin.Read(seed)
	}

	g := generator.New(cfg, seed)
	unit, err := g.Generate()
	if err != nil {
		log.Fatalf("smithgen: generate: %v", err)
	}

	source := emit.CompileUnit(g.Arena, unit)
	if out == "" {
		fmt.Println(source)
		return
	}
	if err := os.WriteFile(out, []byte(source), 0o644); err != nil {
		log.Fatalf("smithgen: write %s: %v", out, err)
	}
}

func runBatch(cfg *config.Config, configName, redisAddr, mongoURI, mongoDB string, workers int, ratePerSec float64, popTimeout time.Duration) {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	queue, err := seedqueue.New(seedqueue.Options{Redis: rdb})
	if err != nil {
		log.Fatalf("smithgen: %v", err)
	}

	mongoClient, err := mongodriver.Connect(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("smithgen: connect mongo: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	store, err := corpus.New(corpus.Options{Client: mongoClient, Database: mongoDB})
	if err != nil {
		log.Fatalf("smithgen: %v", err)
	}

	recorder, err := telemetry.NewRecorder()
	if err != nil {
		log.Fatalf("smithgen: %v", err)
	}

	digest := configDigest(configName, cfg)

	done := make(chan struct{})
	for i := 0; i < workers; i++ {
		go batchWorker(ctx, cfg, digest, queue, store, recorder, ratePerSec, popTimeout, done)
	}
	for i := 0; i < workers; i++ {
		<-done
	}
}

func batchWorker(ctx context.Context, cfg *config.Config, digest string, queue seedqueue.Queue, store corpus.Store, recorder *telemetry.Recorder, ratePerSec float64, popTimeout time.Duration, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	limiter := rate.NewLimiter(rate.Limit(ratePerSec), 1)
	for {
		job, ok, err := queue.Pop(ctx, popTimeout)
		if err != nil {
			log.Printf("smithgen: pop: %v", err)
			return
		}
		if !ok {
			return
		}
		if err := limiter.Wait(ctx); err != nil {
			log.Printf("smithgen: rate limiter: %v", err)
			return
		}

		runID := job.RunID
		if runID == "" {
			runID = uuid.New().String()
		}

		g := generator.New(cfg, job.Seed)
		unit, genErr := recorder.Generate(ctx, g, len(job.Seed))

		entry := &corpus.Entry{
			ConfigDigest: digest,
			Seed:         job.Seed,
			RunID:        runID,
			Outcome:      outcomeFor(genErr),
		}
		if genErr == nil {
			entry.Source = emit.CompileUnit(g.Arena, unit)
		}
		if err := store.Put(ctx, entry); err != nil {
			log.Printf("smithgen: corpus put: %v", err)
		}
	}
}

func outcomeFor(err error) corpus.Outcome {
	switch {
	case err == nil:
		return corpus.OutcomeOK
	case errors.Is(err, generator.ErrEntropyExhausted):
		return corpus.OutcomeEntropyExhausted
	case errors.Is(err, generator.ErrBudgetExceeded):
		return corpus.OutcomeBudgetExceeded
	default:
		var inv *generator.InvariantViolation
		if errors.As(err, &inv) {
			return corpus.OutcomeInvariantViolated
		}
		return corpus.OutcomeRunnerCrash
	}
}

// configDigest derives a stable identifier for cfg under the given
// name, used as corpus.Entry.ConfigDigest so replaying a seed against
// the config it was recorded with is unambiguous.
func configDigest(name string, cfg *config.Config) string {
	h := sha256.New()
	h.Write([]byte(name))
	fmt.Fprintf(h, "%+v", cfg.Generation)
	return hex.EncodeToString(h.Sum(nil))
}
