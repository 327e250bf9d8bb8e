package infrastructure

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"partition-generation/internal/domain"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

// clearEnv изолирует тест от окружения запуска
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		envNumPrimes, envBatchSize, envWorkers, envBackend,
		envOutputFile, envFailureThreshold, envLogLevel, envLogFile,
	} {
		if _, ok := os.LookupEnv(name); ok {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveDefaults(t *testing.T) {
	clearEnv(t)
	resolver := NewConfigResolver(zaptest.NewLogger(t))

	cfg, err := resolver.Resolve("", FlagOverrides{})
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.NumPrimes)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.LessOrEqual(t, cfg.Workers, max(1, runtime.NumCPU()))
	assert.Equal(t, domain.BackendAuto, cfg.Backend)
	assert.Equal(t, "partition_data.csv", cfg.OutputFile)
	assert.Equal(t, 0.05, cfg.FailureThreshold)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestResolveFileLayer(t *testing.T) {
	clearEnv(t)
	resolver := NewConfigResolver(zaptest.NewLogger(t))
	path := writeConfigFile(t, "num_primes: 4000\nbatch_size: 100\nbackend: interpreted\nlog_level: debug\n")

	cfg, err := resolver.Resolve(path, FlagOverrides{})
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.NumPrimes)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, domain.BackendForceInterpreted, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Незатронутые поля остаются на умолчаниях
	assert.Equal(t, "partition_data.csv", cfg.OutputFile)
}

func TestResolveMissingFile(t *testing.T) {
	clearEnv(t)
	resolver := NewConfigResolver(zaptest.NewLogger(t))

	_, err := resolver.Resolve(filepath.Join(t.TempDir(), "nope.yaml"), FlagOverrides{})
	require.Error(t, err)
}

func TestResolveEnvLayer(t *testing.T) {
	clearEnv(t)
	t.Setenv(envNumPrimes, "2000")
	t.Setenv(envBackend, "compiled")
	resolver := NewConfigResolver(zaptest.NewLogger(t))

	cfg, err := resolver.Resolve("", FlagOverrides{})
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.NumPrimes)
	assert.Equal(t, domain.BackendForceCompiled, cfg.Backend)
}

func TestResolvePrecedence(t *testing.T) {
	t.Run("command-line over environment over file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, "num_primes: 2000\nbatch_size: 40\noutput_file: from_file.csv\n")
		t.Setenv(envNumPrimes, "3000")
		t.Setenv(envBatchSize, "60")
		resolver := NewConfigResolver(zaptest.NewLogger(t))

		cfg, err := resolver.Resolve(path, FlagOverrides{NumPrimes: intPtr(4000)})
		require.NoError(t, err)

		// Каждое поле разрешается независимо
		assert.Equal(t, 4000, cfg.NumPrimes)           // флаг бьёт env и файл
		assert.Equal(t, 60, cfg.BatchSize)             // env бьёт файл
		assert.Equal(t, "from_file.csv", cfg.OutputFile) // файл бьёт умолчание
	})

	t.Run("environment over file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, "backend: interpreted\n")
		t.Setenv(envBackend, "auto")
		resolver := NewConfigResolver(zaptest.NewLogger(t))

		cfg, err := resolver.Resolve(path, FlagOverrides{})
		require.NoError(t, err)
		assert.Equal(t, domain.BackendAuto, cfg.Backend)
	})
}

func TestResolveValidation(t *testing.T) {
	requireConfigErr := func(t *testing.T, err error, field, layer string) {
		t.Helper()
		var cerr *domain.ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, field, cerr.Field)
		assert.Equal(t, layer, cerr.Layer)
	}

	t.Run("num_primes must be positive", func(t *testing.T) {
		clearEnv(t)
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve("", FlagOverrides{NumPrimes: intPtr(0)})
		requireConfigErr(t, err, "num_primes", LayerFlag)
	})

	t.Run("batch_size cannot exceed num_primes", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, "num_primes: 10\nbatch_size: 20\n")
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve(path, FlagOverrides{})
		requireConfigErr(t, err, "batch_size", LayerFile)
	})

	t.Run("unparseable environment value names the env layer", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envBatchSize, "many")
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve("", FlagOverrides{})
		requireConfigErr(t, err, "batch_size", LayerEnv)
	})

	t.Run("workers capped by cores", func(t *testing.T) {
		clearEnv(t)
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve("", FlagOverrides{Workers: intPtr(runtime.NumCPU() + 1)})
		requireConfigErr(t, err, "workers", LayerFlag)
	})

	t.Run("workers from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envWorkers, strconv.Itoa(-1))
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve("", FlagOverrides{})
		requireConfigErr(t, err, "workers", LayerEnv)
	})

	t.Run("unknown backend names the file layer", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, "backend: cython\n")
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve(path, FlagOverrides{})
		requireConfigErr(t, err, "backend", LayerFile)
	})

	t.Run("failure threshold range", func(t *testing.T) {
		clearEnv(t)
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve("", FlagOverrides{FailureThreshold: floatPtr(1.5)})
		requireConfigErr(t, err, "failure_threshold", LayerFlag)
	})

	t.Run("empty output file", func(t *testing.T) {
		clearEnv(t)
		resolver := NewConfigResolver(zaptest.NewLogger(t))
		_, err := resolver.Resolve("", FlagOverrides{OutputFile: strPtr("")})
		requireConfigErr(t, err, "output_file", LayerFlag)
	})
}
