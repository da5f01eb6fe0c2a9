package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/number-reader-mcp/internal/config"
	"github.com/ironsheep/number-reader-mcp/internal/imaging"
	"github.com/ironsheep/number-reader-mcp/internal/logging"
	"github.com/ironsheep/number-reader-mcp/internal/ocr"
	"github.com/ironsheep/number-reader-mcp/internal/roi"
	"github.com/ironsheep/number-reader-mcp/internal/server"
	"github.com/ironsheep/number-reader-mcp/internal/session"
	"github.com/ironsheep/number-reader-mcp/internal/sink"
	"github.com/ironsheep/number-reader-mcp/internal/stabilize"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("number-reader-mcp - MCP server that reads numbers from camera frames")
	fmt.Println()
	fmt.Println("Usage: number-reader-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c <path>   YAML configuration file")
	fmt.Println("  --env-file <path>     .env file (default .env, ignored if missing)")
	fmt.Println("  --version, -v         Print version information")
	fmt.Println("  --help, -h            Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  NUMBER_READER_LOG_LEVEL=debug        Enable debug logging")
	fmt.Println("  NUMBER_READER_OCR_LANGUAGE           Tesseract language (default eng)")
	fmt.Println("  NUMBER_READER_TESSDATA_PREFIX        Tesseract language data directory")
	fmt.Println("  NUMBER_READER_AGING_WINDOW           Frames before an unseen string is dropped")
	fmt.Println("  NUMBER_READER_CONFIRM_THRESHOLD      Sightings needed to confirm a string")
	fmt.Println("  NUMBER_READER_MAX_HOPS               Character substitution hops")
	fmt.Println("  NUMBER_READER_ORIENTATION            UI orientation for every region")
	fmt.Println("  NUMBER_READER_REDIS_URL              Publish confirmations to Redis")
	fmt.Println("  NUMBER_READER_REDIS_CHANNEL          Redis pub/sub channel")
	fmt.Println("  NUMBER_READER_REDIS_LIST             Redis list to LPUSH onto")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	configPath := ""
	envFile := ".env"

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("number-reader-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		case "--config", "-c", "--env-file":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s needs a path\n", args[i])
				os.Exit(2)
			}
			if args[i] == "--env-file" {
				envFile = args[i+1]
			} else {
				configPath = args[i+1]
			}
			i++
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s (see --help)\n", args[i])
			os.Exit(2)
		}
	}

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "number-reader-mcp: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr; stdout is for MCP protocol
	log := logging.NewLogger("number-reader", cfg.Debug() || logging.DebugFromEnv())
	log.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	sinks := sink.Multi{sink.NewLog(log.With("confirmed"))}
	if cfg.Sink.RedisEnabled() {
		r, err := sink.NewRedis(ctx, sink.RedisConfig{
			URL:     cfg.Sink.RedisURL,
			Channel: cfg.Sink.RedisChannel,
			List:    cfg.Sink.RedisList,
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, r)
		log.Info("publishing confirmations to redis", "channel", cfg.Sink.RedisChannel, "list", cfg.Sink.RedisList)
	}

	oracle := ocr.New(ocr.Config{
		Language:       cfg.OCR.Language,
		TessdataPrefix: cfg.OCR.TessdataPrefix,
		Preprocess:     cfg.OCR.Preprocess,
		PreprocessOptions: imaging.PreprocessOptions{
			ContrastBoost: cfg.OCR.ContrastBoost,
			MinHeight:     cfg.OCR.MinHeight,
			AutoInvert:    true,
		},
		MinEdgeDensity: cfg.OCR.MinEdgeDensity,
	}, log.With("ocr"))

	sess := session.New(session.Options{
		Oracle: oracle,
		Sink:   sinks,
		Logger: log.With("session"),
	})
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("failed to close sinks", "error", err)
		}
	}()

	normalizer := stabilize.NewNormalizer(cfg.Normalizer.MaxHops)
	for _, rc := range cfg.Regions {
		preset, err := roi.LookupPreset(rc.Preset)
		if err != nil {
			return err
		}
		err = sess.AddRegion(session.RegionSpec{
			Name:        rc.Name,
			Preset:      preset,
			Orientation: rc.Orientation,
			Reference:   rc.Reference(),
			Tracker:     cfg.Tracker,
			Normalizer:  normalizer,
		})
		if err != nil {
			return err
		}
	}
	log.Info("ready", "regions", len(cfg.Regions), "threshold", cfg.Tracker.ConfirmThreshold, "aging_window", cfg.Tracker.AgingWindow)

	srv := server.New(server.Options{
		Session: sess,
		Logger:  log.With("server"),
		Version: Version,
		Info:    func() interface{} { return oracle.Info() },
	})
	return srv.Run(ctx)
}
