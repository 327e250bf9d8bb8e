package domain

// PartitionUnits детерминированно разбивает [0, numUnits) на
// ceil(numUnits/batchSize) непрерывных батчей в порядке возрастания.
// Последний батч может быть короче batchSize.
func PartitionUnits(numUnits, batchSize int) []Batch {
	if numUnits <= 0 || batchSize <= 0 {
		return nil
	}

	batches := make([]Batch, 0, (numUnits+batchSize-1)/batchSize)
	for start := 0; start < numUnits; start += batchSize {
		end := min(start+batchSize, numUnits)
		batches = append(batches, Batch{
			Index: len(batches),
			Start: start,
			End:   end,
		})
	}
	return batches
}
