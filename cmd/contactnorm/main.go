// Command contactnorm reads contact records, keeps the ones with a contact
// and writes the normalized e-mails.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/vortex-fintech/contactnorm/config"
	"github.com/vortex-fintech/contactnorm/contact"
	"github.com/vortex-fintech/contactnorm/data/postgres"
	"github.com/vortex-fintech/contactnorm/data/redis"
	"github.com/vortex-fintech/contactnorm/foundation/idutil"
	"github.com/vortex-fintech/contactnorm/foundation/logger"
	"github.com/vortex-fintech/contactnorm/pipeline"
	"github.com/vortex-fintech/contactnorm/runtime/metrics"
	"github.com/vortex-fintech/contactnorm/sink"
	"github.com/vortex-fintech/contactnorm/source"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], nil, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without process globals. environ == nil means the real environment.
func run(ctx context.Context, args []string, environ map[string]string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(environ)
	if err != nil {
		fmt.Fprintf(stderr, "contactnorm: %v\n", err)
		return exitUsage
	}

	fs := pflag.NewFlagSet("contactnorm", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.BindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "contactnorm: %v\n", err)
		return exitUsage
	}

	log, err := logger.New("contactnorm", cfg.Env)
	if err != nil {
		fmt.Fprintf(stderr, "contactnorm: %v\n", err)
		return exitError
	}
	defer log.SafeSync()

	ctx = logger.ContextWithBatchID(ctx, idutil.NewBatchID())
	if err := execute(ctx, cfg, log, stdin, stdout); err != nil {
		log.ErrorwCtx(ctx, "run failed", "error", err)
		return exitError
	}
	return exitOK
}

func execute(ctx context.Context, cfg config.Config, log *logger.Logger, stdin io.Reader, stdout io.Writer) error {
	src, closeSrc, err := openSource(ctx, cfg, stdin)
	if err != nil {
		return err
	}
	defer closeSrc()

	dst, commit, closeDst, err := openSink(ctx, cfg, stdout)
	if err != nil {
		return err
	}
	defer closeDst()

	policy, err := cfg.Policy.Policy()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	reg := prometheus.NewRegistry()
	if err := collector.Register(reg); err != nil {
		return err
	}

	n, err := contact.New(policy, contact.WithLogger(log), contact.WithObserver(collector))
	if err != nil {
		return err
	}

	if _, err := pipeline.New(src, n, dst, log).Run(ctx); err != nil {
		return err
	}
	if err := commit(); err != nil {
		return err
	}
	return metrics.WriteTextfile(cfg.MetricsFile, reg)
}

func openSource(ctx context.Context, cfg config.Config, stdin io.Reader) (source.Source, func(), error) {
	if cfg.Source == config.SourcePostgres {
		db, err := postgres.Open(ctx, cfg.Postgres, cfg.RetryPolicy())
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return postgres.NewContactSource(db, cfg.Query), func() { _ = db.Close() }, nil
	}

	r, closeFn := stdin, func() {}
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return nil, nil, err
		}
		r, closeFn = f, func() { _ = f.Close() }
	}

	if cfg.InputFormat() == config.FormatCSV {
		return source.NewCSV(r, source.CSVOptions{
			NameColumn:    cfg.CSV.NameColumn,
			ContactColumn: cfg.CSV.ContactColumn,
			Comma:         cfg.CSVComma(),
			KeepEmpty:     cfg.CSV.KeepEmpty,
		}), closeFn, nil
	}
	return source.NewJSON(r), closeFn, nil
}

// openSink returns the sink, a commit step to run after a successful pipeline
// and a cleanup that is always deferred.
func openSink(ctx context.Context, cfg config.Config, stdout io.Writer) (sink.Sink, func() error, func(), error) {
	noCommit := func() error { return nil }
	if cfg.Sink == config.SinkRedis {
		rdb, err := redis.NewClient(ctx, cfg.Redis, cfg.RetryPolicy())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open redis: %w", err)
		}
		s, err := redis.NewListSink(rdb, cfg.RedisKey, cfg.RedisTTL)
		if err != nil {
			_ = rdb.Close()
			return nil, nil, nil, err
		}
		return s, noCommit, func() { _ = rdb.Close() }, nil
	}

	if cfg.Output == "-" {
		return sink.NewLines(stdout), noCommit, func() {}, nil
	}
	f, err := sink.CreateFile(cfg.Output)
	if err != nil {
		return nil, nil, nil, err
	}
	return f, f.Commit, f.Abort, nil
}
