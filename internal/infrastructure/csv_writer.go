package infrastructure

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"partition-generation/internal/domain"
)

// resultHeader стабильная схема выходного файла; порядок колонок —
// внешний контракт.
var resultHeader = []string{"index", "input_value", "computed_value", "elapsed", "failed"}

type CSVResultWriter struct {
	logger *zap.Logger
}

func NewCSVResultWriter(logger *zap.Logger) *CSVResultWriter {
	return &CSVResultWriter{logger: logger}
}

// WriteRecords записывает результаты строго по возрастанию index.
// У отказавших единиц колонка computed_value пустая.
func (w *CSVResultWriter) WriteRecords(filename string, records []domain.ResultRecord) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(resultHeader); err != nil {
		return err
	}

	for _, rec := range records {
		computed := ""
		if !rec.Failed {
			computed = strconv.FormatInt(rec.ComputedValue, 10)
		}
		row := []string{
			strconv.Itoa(rec.Index),
			strconv.FormatInt(rec.InputValue, 10),
			computed,
			strconv.FormatFloat(rec.Elapsed.Seconds(), 'f', 6, 64),
			strconv.FormatBool(rec.Failed),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	w.logger.Info("results written",
		zap.String("file", filename),
		zap.Int("rows", len(records)))
	return nil
}
