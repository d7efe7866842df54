package config

import "github.com/spf13/pflag"

// BindFlags registers flags on fs using the current cfg values as defaults,
// so anything set in the environment is overridden only by explicit flags.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Env, "env", cfg.Env, "logging environment: development, debug or production")

	fs.StringVar(&cfg.Source, "source", cfg.Source, "record source: file or postgres")
	fs.StringVarP(&cfg.Input, "input", "i", cfg.Input, "input file, - for stdin")
	fs.StringVarP(&cfg.Format, "format", "f", cfg.Format, "input format: json or csv (default: by extension)")
	fs.StringVar(&cfg.CSV.ContactColumn, "csv-contact-column", cfg.CSV.ContactColumn, "CSV column holding the contact")
	fs.StringVar(&cfg.CSV.NameColumn, "csv-name-column", cfg.CSV.NameColumn, "CSV column holding the name")
	fs.StringVar(&cfg.CSV.Comma, "csv-comma", cfg.CSV.Comma, "CSV field separator")
	fs.BoolVar(&cfg.CSV.KeepEmpty, "csv-keep-empty", cfg.CSV.KeepEmpty, "treat empty CSV contact cells as empty strings instead of missing")

	fs.StringVar(&cfg.Postgres.URL, "pg-url", cfg.Postgres.URL, "Postgres URL for --source=postgres")
	fs.StringVar(&cfg.Query.Table, "pg-table", cfg.Query.Table, "table holding contacts")

	fs.StringVar(&cfg.Sink, "sink", cfg.Sink, "output: stdout or redis")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output file for --sink=stdout, - for stdout")
	fs.StringVar(&cfg.Redis.Addr, "redis-addr", cfg.Redis.Addr, "Redis address for --sink=redis")
	fs.StringVar(&cfg.RedisKey, "redis-key", cfg.RedisKey, "Redis list receiving the e-mails")
	fs.DurationVar(&cfg.RedisTTL, "redis-ttl", cfg.RedisTTL, "expiry of the Redis list, 0 keeps it")

	fs.StringVar(&cfg.Policy.Case, "case", cfg.Policy.Case, "lower, upper, title or keep")
	fs.BoolVar(&cfg.Policy.Trim, "trim", cfg.Policy.Trim, "trim surrounding whitespace")
	fs.StringVar(&cfg.Policy.Missing, "missing", cfg.Policy.Missing, "missing contacts: drop or fill")
	fs.StringVar(&cfg.Policy.Fill, "fill", cfg.Policy.Fill, "value used with --missing=fill")
	fs.BoolVar(&cfg.Policy.DropEmpty, "drop-empty", cfg.Policy.DropEmpty, "drop empty values")
	fs.BoolVar(&cfg.Policy.Dedupe, "dedupe", cfg.Policy.Dedupe, "keep only the first occurrence of each value")
	fs.BoolVar(&cfg.Policy.Validate, "validate", cfg.Policy.Validate, "report values that are not e-mail addresses")
	fs.BoolVar(&cfg.Policy.DropInvalid, "drop-invalid", cfg.Policy.DropInvalid, "drop values that are not e-mail addresses")

	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile")
}
