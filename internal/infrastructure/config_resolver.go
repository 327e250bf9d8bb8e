package infrastructure

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"partition-generation/internal/domain"
)

// Имена слоёв конфигурации, от низшего приоритета к высшему
const (
	LayerDefault = "default"
	LayerFile    = "file"
	LayerEnv     = "environment"
	LayerFlag    = "command-line"
)

// Переменные окружения, образующие слой environment
const (
	envNumPrimes        = "PARTGEN_NUM_PRIMES"
	envBatchSize        = "PARTGEN_BATCH_SIZE"
	envWorkers          = "PARTGEN_WORKERS"
	envBackend          = "PARTGEN_BACKEND"
	envOutputFile       = "PARTGEN_OUTPUT_FILE"
	envFailureThreshold = "PARTGEN_FAILURE_THRESHOLD"
	envLogLevel         = "PARTGEN_LOG_LEVEL"
	envLogFile          = "PARTGEN_LOG_FILE"
)

// fileConfig частичная конфигурация из YAML-файла; nil = поле не задано
type fileConfig struct {
	NumPrimes        *int     `yaml:"num_primes"`
	BatchSize        *int     `yaml:"batch_size"`
	Workers          *int     `yaml:"workers"`
	Backend          *string  `yaml:"backend"`
	OutputFile       *string  `yaml:"output_file"`
	FailureThreshold *float64 `yaml:"failure_threshold"`
	LogLevel         *string  `yaml:"log_level"`
	LogFile          *string  `yaml:"log_file"`
}

// FlagOverrides значения флагов командной строки; nil = флаг не передан
type FlagOverrides struct {
	NumPrimes        *int
	BatchSize        *int
	Workers          *int
	Backend          *string
	OutputFile       *string
	FailureThreshold *float64
	LogLevel         *string
	LogFile          *string
}

// rawConfig промежуточное состояние слияния: бэкенд ещё строкой
type rawConfig struct {
	numPrimes        int
	batchSize        int
	workers          int
	backend          string
	outputFile       string
	failureThreshold float64
	logLevel         string
	logFile          string
}

type ConfigResolver struct {
	logger *zap.Logger
}

func NewConfigResolver(logger *zap.Logger) *ConfigResolver {
	return &ConfigResolver{logger: logger}
}

// Resolve сливает слои default < file < environment < command-line и
// валидирует итог до начала любой работы. Для каждого поля отдельно
// запоминается слой, давший значение, чтобы ошибка валидации называла
// и поле, и источник. Слияние чистое, без побочных эффектов.
func (r *ConfigResolver) Resolve(path string, flags FlagOverrides) (*domain.Config, error) {
	cfg := rawConfig{
		numPrimes:        1000,
		batchSize:        250,
		workers:          max(1, runtime.NumCPU()-1),
		backend:          "auto",
		outputFile:       "partition_data.csv",
		failureThreshold: 0.05,
		logLevel:         "info",
	}
	origin := map[string]string{
		"num_primes":        LayerDefault,
		"batch_size":        LayerDefault,
		"workers":           LayerDefault,
		"backend":           LayerDefault,
		"output_file":       LayerDefault,
		"failure_threshold": LayerDefault,
		"log_level":         LayerDefault,
		"log_file":          LayerDefault,
	}

	if path != "" {
		if err := r.applyFile(path, &cfg, origin); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg, origin); err != nil {
		return nil, err
	}
	applyFlags(flags, &cfg, origin)

	resolved, err := validate(cfg, origin)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("configuration resolved",
		zap.Int("num_primes", resolved.NumPrimes),
		zap.Int("batch_size", resolved.BatchSize),
		zap.Int("workers", resolved.Workers),
		zap.Stringer("backend", resolved.Backend),
		zap.String("num_primes_layer", origin["num_primes"]),
		zap.String("batch_size_layer", origin["batch_size"]))
	return resolved, nil
}

func (r *ConfigResolver) applyFile(path string, cfg *rawConfig, origin map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setInt := func(field string, dst *int, src *int) {
		if src != nil {
			*dst = *src
			origin[field] = LayerFile
		}
	}
	setStr := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			origin[field] = LayerFile
		}
	}
	setInt("num_primes", &cfg.numPrimes, fc.NumPrimes)
	setInt("batch_size", &cfg.batchSize, fc.BatchSize)
	setInt("workers", &cfg.workers, fc.Workers)
	setStr("backend", &cfg.backend, fc.Backend)
	setStr("output_file", &cfg.outputFile, fc.OutputFile)
	setStr("log_level", &cfg.logLevel, fc.LogLevel)
	setStr("log_file", &cfg.logFile, fc.LogFile)
	if fc.FailureThreshold != nil {
		cfg.failureThreshold = *fc.FailureThreshold
		origin["failure_threshold"] = LayerFile
	}
	return nil
}

func applyEnv(cfg *rawConfig, origin map[string]string) error {
	setInt := func(field, name string, dst *int) error {
		v, ok := os.LookupEnv(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &domain.ConfigError{Field: field, Layer: LayerEnv, Reason: fmt.Sprintf("cannot parse %q as integer", v)}
		}
		*dst = n
		origin[field] = LayerEnv
		return nil
	}
	setStr := func(field, name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
			origin[field] = LayerEnv
		}
	}

	if err := setInt("num_primes", envNumPrimes, &cfg.numPrimes); err != nil {
		return err
	}
	if err := setInt("batch_size", envBatchSize, &cfg.batchSize); err != nil {
		return err
	}
	if err := setInt("workers", envWorkers, &cfg.workers); err != nil {
		return err
	}
	setStr("backend", envBackend, &cfg.backend)
	setStr("output_file", envOutputFile, &cfg.outputFile)
	setStr("log_level", envLogLevel, &cfg.logLevel)
	setStr("log_file", envLogFile, &cfg.logFile)

	if v, ok := os.LookupEnv(envFailureThreshold); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &domain.ConfigError{Field: "failure_threshold", Layer: LayerEnv, Reason: fmt.Sprintf("cannot parse %q as float", v)}
		}
		cfg.failureThreshold = f
		origin["failure_threshold"] = LayerEnv
	}
	return nil
}

func applyFlags(flags FlagOverrides, cfg *rawConfig, origin map[string]string) {
	setInt := func(field string, dst *int, src *int) {
		if src != nil {
			*dst = *src
			origin[field] = LayerFlag
		}
	}
	setStr := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			origin[field] = LayerFlag
		}
	}
	setInt("num_primes", &cfg.numPrimes, flags.NumPrimes)
	setInt("batch_size", &cfg.batchSize, flags.BatchSize)
	setInt("workers", &cfg.workers, flags.Workers)
	setStr("backend", &cfg.backend, flags.Backend)
	setStr("output_file", &cfg.outputFile, flags.OutputFile)
	setStr("log_level", &cfg.logLevel, flags.LogLevel)
	setStr("log_file", &cfg.logFile, flags.LogFile)
	if flags.FailureThreshold != nil {
		cfg.failureThreshold = *flags.FailureThreshold
		origin["failure_threshold"] = LayerFlag
	}
}

func validate(cfg rawConfig, origin map[string]string) (*domain.Config, error) {
	if cfg.numPrimes <= 0 {
		return nil, &domain.ConfigError{Field: "num_primes", Layer: origin["num_primes"],
			Reason: fmt.Sprintf("must be positive, got %d", cfg.numPrimes)}
	}
	if cfg.batchSize <= 0 || cfg.batchSize > cfg.numPrimes {
		return nil, &domain.ConfigError{Field: "batch_size", Layer: origin["batch_size"],
			Reason: fmt.Sprintf("must be in [1, num_primes=%d], got %d", cfg.numPrimes, cfg.batchSize)}
	}
	maxWorkers := max(1, runtime.NumCPU())
	if cfg.workers < 1 || cfg.workers > maxWorkers {
		return nil, &domain.ConfigError{Field: "workers", Layer: origin["workers"],
			Reason: fmt.Sprintf("must be in [1, %d], got %d", maxWorkers, cfg.workers)}
	}
	pref, err := domain.ParseBackendPreference(cfg.backend)
	if err != nil {
		return nil, &domain.ConfigError{Field: "backend", Layer: origin["backend"], Reason: err.Error()}
	}
	if cfg.failureThreshold < 0 || cfg.failureThreshold > 1 {
		return nil, &domain.ConfigError{Field: "failure_threshold", Layer: origin["failure_threshold"],
			Reason: fmt.Sprintf("must be in [0, 1], got %g", cfg.failureThreshold)}
	}
	if cfg.outputFile == "" {
		return nil, &domain.ConfigError{Field: "output_file", Layer: origin["output_file"], Reason: "must not be empty"}
	}

	return &domain.Config{
		NumPrimes:        cfg.numPrimes,
		BatchSize:        cfg.batchSize,
		Workers:          cfg.workers,
		Backend:          pref,
		OutputFile:       cfg.outputFile,
		FailureThreshold: cfg.failureThreshold,
		LogLevel:         cfg.logLevel,
		LogFile:          cfg.logFile,
	}, nil
}
