package domain

import (
	"errors"
	"fmt"
)

// ConfigError ошибка валидации конфигурации. Всегда называет поле и слой,
// из которого пришло некорректное значение.
type ConfigError struct {
	Field  string
	Layer  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: field %q (from %s layer): %s", e.Field, e.Layer, e.Reason)
}

// BackendUnavailableError запрошенный бэкенд не может быть загружен.
// Фатальна только когда бэкенд затребован явно.
type BackendUnavailableError struct {
	Requested BackendKind
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend %q requested but not available in this build", e.Requested)
}

// AggregateFailureError доля отказавших единиц превысила порог.
// Выставляется в конце запуска, после записи результатов.
type AggregateFailureError struct {
	Failed    int
	Total     int
	Threshold float64
	Indices   []int
}

func (e *AggregateFailureError) Error() string {
	return fmt.Sprintf("%d of %d units failed (%.2f%%), above threshold %.2f%%: indices %v",
		e.Failed, e.Total, 100*float64(e.Failed)/float64(e.Total), 100*e.Threshold, e.Indices)
}

// ErrRunCanceled запуск прерван снаружи; завершённые батчи сохранены.
var ErrRunCanceled = errors.New("run canceled before all batches were submitted")
