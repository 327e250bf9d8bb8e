package domain

// ResultWriter интерфейс для записи итоговых результатов
type ResultWriter interface {
	WriteRecords(filename string, records []ResultRecord) error
}

// ProgressSink интерфейс для вывода телеметрии по батчам.
// Emit обязан сбрасывать буфер сразу: поток читается внешним
// потребителем во время работы.
type ProgressSink interface {
	Emit(ev ProgressEvent) error
}
