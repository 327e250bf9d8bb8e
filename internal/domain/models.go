package domain

import (
	"fmt"
	"time"
)

// Config представляет разрешённую конфигурацию запуска.
// Собирается один раз на запуск и больше не изменяется.
type Config struct {
	NumPrimes        int
	BatchSize        int
	Workers          int
	Backend          BackendPreference
	OutputFile       string
	FailureThreshold float64
	LogLevel         string
	LogFile          string
}

// BackendPreference задаёт способ выбора вычислительного бэкенда
type BackendPreference int

const (
	BackendAuto BackendPreference = iota
	BackendForceInterpreted
	BackendForceCompiled
)

// ParseBackendPreference parses the textual form used in config files,
// environment variables and command-line flags.
func ParseBackendPreference(s string) (BackendPreference, error) {
	switch s {
	case "auto":
		return BackendAuto, nil
	case "interpreted":
		return BackendForceInterpreted, nil
	case "compiled":
		return BackendForceCompiled, nil
	default:
		return BackendAuto, fmt.Errorf("unknown backend preference %q (want auto, interpreted or compiled)", s)
	}
}

func (p BackendPreference) String() string {
	switch p {
	case BackendForceInterpreted:
		return "interpreted"
	case BackendForceCompiled:
		return "compiled"
	default:
		return "auto"
	}
}

// BackendKind метка фактически выбранного бэкенда
type BackendKind int

const (
	KindInterpreted BackendKind = iota
	KindCompiled
)

func (k BackendKind) String() string {
	if k == KindCompiled {
		return "compiled"
	}
	return "interpreted"
}

// BackendHandle держит выбранный бэкенд; выбирается один раз на запуск
// и дальше только читается.
type BackendHandle struct {
	Kind    BackendKind
	Backend Backend
}

// WorkUnit одна единица работы: позиция в домене и входное значение
// (простое число с этим индексом).
type WorkUnit struct {
	Index      int
	InputValue int64
}

// Batch непрерывный диапазон индексов [Start, End), отправляемый воркеру
// как одна единица планирования.
type Batch struct {
	Index int
	Start int
	End   int
}

func (b Batch) Len() int {
	return b.End - b.Start
}

// ResultRecord результат вычисления одной единицы работы
type ResultRecord struct {
	Index         int
	InputValue    int64
	ComputedValue int64
	Elapsed       time.Duration
	Failed        bool
}

// ProgressEvent телеметрия по завершённому батчу. Rate считается по
// этому батчу, не накопительно.
type ProgressEvent struct {
	BatchIndex          int
	BatchSize           int
	Elapsed             time.Duration
	CumulativeCompleted int
	Rate                float64
}
