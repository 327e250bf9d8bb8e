package app

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"partition-generation/internal/domain"
)

// Summary итоговая статистика запуска
type Summary struct {
	Units          int
	Failed         int
	ZeroPartition  int
	MeanPartitions float64
	MeanRate       float64
	StdRate        float64
	MinRate        float64
	MaxRate        float64
}

// Summarize агрегирует результаты завершённого запуска: распределение
// числа разложений по простым и пропускную способность по батчам.
func Summarize(res *RunResult) Summary {
	s := Summary{Units: len(res.Records)}

	var values []float64
	for _, rec := range res.Records {
		if rec.Failed {
			s.Failed++
			continue
		}
		if rec.ComputedValue == 0 {
			s.ZeroPartition++
		}
		values = append(values, float64(rec.ComputedValue))
	}
	if len(values) > 0 {
		s.MeanPartitions = stat.Mean(values, nil)
	}

	var rates []float64
	for _, ev := range res.Events {
		rates = append(rates, ev.Rate)
	}
	if len(rates) > 0 {
		s.MeanRate = stat.Mean(rates, nil)
		s.MinRate = floats.Min(rates)
		s.MaxRate = floats.Max(rates)
	}
	if len(rates) > 1 {
		s.StdRate = stat.StdDev(rates, nil)
	}
	return s
}

// LogSummary печатает сводку в том же стиле, что и остальные логи
func LogSummary(logger *zap.Logger, config *domain.Config, s Summary) {
	logger.Info("run summary",
		zap.Int("units", s.Units),
		zap.Int("failed", s.Failed),
		zap.Int("zero_partition_primes", s.ZeroPartition),
		zap.Float64("mean_partitions_per_prime", s.MeanPartitions),
		zap.Int("batch_size", config.BatchSize),
		zap.Int("workers", config.Workers),
		zap.Float64("mean_rate", s.MeanRate),
		zap.Float64("std_rate", s.StdRate),
		zap.Float64("min_rate", s.MinRate),
		zap.Float64("max_rate", s.MaxRate))
}
