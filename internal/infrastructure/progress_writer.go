package infrastructure

import (
	"fmt"
	"io"

	"partition-generation/internal/domain"
)

// flusher опциональная способность потока вывода
type flusher interface {
	Flush() error
}

// ProgressWriter пишет одну строку на завершённый батч. Формат строки —
// внешний контракт: его разбирает шаг построения графиков, тасующий
// поток во время работы генератора. Токены и их порядок менять нельзя.
//
//	batch=7 size=250 completed=2000/4000 elapsed=1.234s rate=202.59prime/s
//
// Строки идут в порядке завершения батчей, не в порядке их индексов;
// потребитель пересортировывает по batch=. Каждая строка сбрасывается
// сразу, буферизация недопустима.
type ProgressWriter struct {
	out   io.Writer
	total int
}

func NewProgressWriter(out io.Writer, totalUnits int) *ProgressWriter {
	return &ProgressWriter{out: out, total: totalUnits}
}

func (w *ProgressWriter) Emit(ev domain.ProgressEvent) error {
	_, err := fmt.Fprintf(w.out, "batch=%d size=%d completed=%d/%d elapsed=%.3fs rate=%.2fprime/s\n",
		ev.BatchIndex, ev.BatchSize, ev.CumulativeCompleted, w.total, ev.Elapsed.Seconds(), ev.Rate)
	if err != nil {
		return err
	}
	if f, ok := w.out.(flusher); ok {
		return f.Flush()
	}
	return nil
}
