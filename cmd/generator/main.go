package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"partition-generation/internal/app"
	"partition-generation/internal/domain"
	"partition-generation/internal/infrastructure"
	"partition-generation/pkg/partition"
)

func main() {
	configPath := pflag.String("config", "", "Path to YAML config file")
	numPrimes := pflag.Int("num-primes", 0, "Number of primes to process, starting from 2")
	batchSize := pflag.Int("batch-size", 0, "Number of primes to process in each batch")
	workers := pflag.Int("num-processes", 0, "Number of parallel workers")
	backend := pflag.String("backend", "", "Computation backend: auto, interpreted or compiled")
	outputFile := pflag.String("output-file", "", "Path to the output CSV file")
	failureThreshold := pflag.Float64("failure-threshold", 0, "Tolerated fraction of failed units before the run is reported as failed")
	logLevel := pflag.String("log-level", "", "Log level")
	logFile := pflag.String("log-file", "", "Log file path")
	pflag.Parse()

	// Инициализация логгера; после чтения конфигурации уровень
	// и файл обновляются
	logger := initLogger("info", "")
	defer logger.Sync()

	// В слой командной строки попадают только реально переданные флаги
	flags := infrastructure.FlagOverrides{}
	changed := pflag.CommandLine.Changed
	if changed("num-primes") {
		flags.NumPrimes = numPrimes
	}
	if changed("batch-size") {
		flags.BatchSize = batchSize
	}
	if changed("num-processes") {
		flags.Workers = workers
	}
	if changed("backend") {
		flags.Backend = backend
	}
	if changed("output-file") {
		flags.OutputFile = outputFile
	}
	if changed("failure-threshold") {
		flags.FailureThreshold = failureThreshold
	}
	if changed("log-level") {
		flags.LogLevel = logLevel
	}
	if changed("log-file") {
		flags.LogFile = logFile
	}

	resolver := infrastructure.NewConfigResolver(logger)
	config, err := resolver.Resolve(*configPath, flags)
	if err != nil {
		fatal(logger, 2, "failed to resolve configuration", err)
	}

	logger = initLogger(config.LogLevel, config.LogFile)

	handle, err := partition.Select(config.Backend, logger)
	if err != nil {
		fatal(logger, 2, "failed to select backend", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := infrastructure.NewProgressWriter(os.Stderr, config.NumPrimes)
	generator := app.NewPartitionGenerator(logger, config, handle, progress)

	logger.Info("starting partition generation",
		zap.Int("num_primes", config.NumPrimes),
		zap.Int("batch_size", config.BatchSize),
		zap.Int("workers", config.Workers),
		zap.Stringer("backend", handle.Kind),
		zap.String("output_file", config.OutputFile))

	result, runErr := generator.Run(ctx)

	// Результаты завершённых батчей сохраняются и при прерывании
	writer := infrastructure.NewCSVResultWriter(logger)
	if err := writer.WriteRecords(config.OutputFile, result.Records); err != nil {
		fatal(logger, 1, "failed to write results", err)
	}

	app.LogSummary(logger, config, app.Summarize(result))

	if runErr != nil {
		if errors.Is(runErr, domain.ErrRunCanceled) {
			fatal(logger, 1, "run interrupted", runErr)
		}
		fatal(logger, 1, "run failed", runErr)
	}

	if err := generator.CheckFailureBudget(result); err != nil {
		fatal(logger, 1, "failure threshold exceeded", err)
	}

	logger.Info("partition generation completed successfully")
}

func fatal(logger *zap.Logger, code int, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	os.Exit(code)
}

// initLogger initializes the logger with the specified level and log file name.
func initLogger(level string, logfileName string) *zap.Logger {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputs := []string{"stderr"}
	if logfileName != "" {
		outputs = append(outputs, logfileName)
	}
	config.OutputPaths = outputs
	config.ErrorOutputPaths = outputs
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	logger, _ := config.Build()
	return logger
}
