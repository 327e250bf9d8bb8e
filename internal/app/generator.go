package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"partition-generation/internal/domain"
	"partition-generation/pkg/partition"
)

// PartitionGenerator планирует батчи по фиксированному пулу воркеров и
// собирает результаты обратно в порядке индексов. Воркеры ничего не
// разделяют между собой: общими остаются только неизменяемые Config и
// BackendHandle.
type PartitionGenerator struct {
	logger   *zap.Logger
	config   *domain.Config
	backend  domain.BackendHandle
	progress domain.ProgressSink
}

func NewPartitionGenerator(logger *zap.Logger, config *domain.Config, backend domain.BackendHandle, progress domain.ProgressSink) *PartitionGenerator {
	return &PartitionGenerator{
		logger:   logger,
		config:   config,
		backend:  backend,
		progress: progress,
	}
}

// RunResult итог одного запуска. Records отсортированы по индексу;
// при прерывании содержат только единицы завершённых батчей.
type RunResult struct {
	Records []domain.ResultRecord
	Events  []domain.ProgressEvent
}

// FailedIndices индексы отказавших единиц по возрастанию
func (r *RunResult) FailedIndices() []int {
	var failed []int
	for _, rec := range r.Records {
		if rec.Failed {
			failed = append(failed, rec.Index)
		}
	}
	return failed
}

type batchResult struct {
	batch   domain.Batch
	records []domain.ResultRecord
	elapsed time.Duration
}

// Run выполняет все батчи. Отмена контекста останавливает отправку
// новых батчей; уже отправленные дорабатываются до конца (drain), их
// результаты сохраняются, а Run возвращает ErrRunCanceled.
func (g *PartitionGenerator) Run(ctx context.Context) (*RunResult, error) {
	batches := domain.PartitionUnits(g.config.NumPrimes, g.config.BatchSize)
	records := make([]domain.ResultRecord, g.config.NumPrimes)

	tasks := make(chan domain.Batch)
	results := make(chan batchResult, len(batches))

	// Запускаем воркеры
	var grp errgroup.Group
	for i := 0; i < g.config.Workers; i++ {
		i := i
		grp.Go(func() error {
			g.worker(i, tasks, results)
			return nil
		})
	}

	// Отправляем батчи; незаполненный слот воркера — единственная
	// точка блокировки координатора
	go func() {
		defer close(tasks)
		for _, b := range batches {
			select {
			case tasks <- b:
			case <-ctx.Done():
				g.logger.Warn("interrupt received, draining in-flight batches",
					zap.Int("remaining_batches", len(batches)-b.Index))
				return
			}
		}
	}()

	go func() {
		grp.Wait()
		close(results)
	}()

	// Собираем результаты; порядок прихода батчей не гарантирован
	res := &RunResult{Events: make([]domain.ProgressEvent, 0, len(batches))}
	completed := 0
	for br := range results {
		copy(records[br.batch.Start:br.batch.End], br.records)
		completed += br.batch.Len()

		ev := domain.ProgressEvent{
			BatchIndex:          br.batch.Index,
			BatchSize:           br.batch.Len(),
			Elapsed:             br.elapsed,
			CumulativeCompleted: completed,
		}
		if secs := br.elapsed.Seconds(); secs > 0 {
			ev.Rate = float64(br.batch.Len()) / secs
		}
		res.Events = append(res.Events, ev)
		if err := g.progress.Emit(ev); err != nil {
			g.logger.Error("failed to emit progress event",
				zap.Int("batch", ev.BatchIndex), zap.Error(err))
		}
	}

	if ctx.Err() != nil {
		// Отправка шла по порядку, а отправленные батчи доработаны,
		// поэтому завершённые единицы образуют непрерывный префикс
		res.Records = records[:completed]
		return res, fmt.Errorf("%w: %d of %d units done", domain.ErrRunCanceled, completed, g.config.NumPrimes)
	}
	res.Records = records
	return res, nil
}

func (g *PartitionGenerator) worker(id int, tasks <-chan domain.Batch, results chan<- batchResult) {
	for b := range tasks {
		g.logger.Debug("processing batch",
			zap.Int("worker", id),
			zap.Int("batch", b.Index),
			zap.Int("size", b.Len()))

		started := time.Now()
		recs := g.processBatch(b)
		results <- batchResult{batch: b, records: recs, elapsed: time.Since(started)}
	}
}

// processBatch вычисляет все единицы батча. Воркер сам восстанавливает
// простые числа своего диапазона по индексам, общий список простых в
// координаторе не строится.
func (g *PartitionGenerator) processBatch(b domain.Batch) []domain.ResultRecord {
	inputs := partition.PrimesByIndex(b.Start, b.End)
	recs := make([]domain.ResultRecord, b.Len())
	for i := range recs {
		recs[i] = g.computeUnit(domain.WorkUnit{
			Index:      b.Start + i,
			InputValue: inputs[i],
		})
	}
	return recs
}

// computeUnit считает одну единицу. Ошибка или паника вычисления
// помечает единицу как отказавшую и не прерывает ни батч, ни запуск.
func (g *PartitionGenerator) computeUnit(unit domain.WorkUnit) (rec domain.ResultRecord) {
	rec = domain.ResultRecord{Index: unit.Index, InputValue: unit.InputValue}
	started := time.Now()
	defer func() {
		rec.Elapsed = time.Since(started)
		if p := recover(); p != nil {
			g.logger.Error("panic during unit computation",
				zap.Int("index", unit.Index),
				zap.Int64("input", unit.InputValue),
				zap.Any("panic", p))
			rec.ComputedValue = 0
			rec.Failed = true
		}
	}()

	value, err := g.backend.Backend.Compute(unit.InputValue)
	if err != nil {
		g.logger.Warn("unit computation failed",
			zap.Int("index", unit.Index),
			zap.Int64("input", unit.InputValue),
			zap.Error(err))
		rec.Failed = true
		return rec
	}
	rec.ComputedValue = value
	return rec
}

// CheckFailureBudget применяет порог отказов к готовым результатам.
// Превышение доли — фатальная ошибка конца запуска; ненулевое число
// отказов в пределах порога только логируется.
func (g *PartitionGenerator) CheckFailureBudget(res *RunResult) error {
	failed := res.FailedIndices()
	if len(failed) == 0 || len(res.Records) == 0 {
		return nil
	}

	ratio := float64(len(failed)) / float64(len(res.Records))
	if ratio > g.config.FailureThreshold {
		return &domain.AggregateFailureError{
			Failed:    len(failed),
			Total:     len(res.Records),
			Threshold: g.config.FailureThreshold,
			Indices:   failed,
		}
	}

	g.logger.Warn("some units failed, within failure threshold",
		zap.Int("failed", len(failed)),
		zap.Float64("ratio", ratio),
		zap.Float64("threshold", g.config.FailureThreshold),
		zap.Ints("indices", failed))
	return nil
}
