package partition

import "math"

// PrimesByIndex возвращает простые числа с индексами [start, end),
// нумерация с нуля: 0 -> 2, 1 -> 3, 2 -> 5. Каждый воркер генерирует
// простые для своего диапазона сам, общий список не материализуется.
func PrimesByIndex(start, end int) []int64 {
	if start < 0 || end <= start {
		return nil
	}

	limit := nthPrimeUpperBound(end)
	for {
		primes := collectPrimes(limit, start, end)
		if len(primes) == end-start {
			return primes
		}
		// Оценка границы оказалась тесной, расширяем
		limit *= 2
	}
}

func collectPrimes(limit int64, start, end int) []int64 {
	sieve := newBitSieve(limit)
	primes := make([]int64, 0, end-start)
	idx := 0
	for v := int64(2); v <= limit; v++ {
		if sieve.composite(v) {
			continue
		}
		if idx >= start {
			primes = append(primes, v)
			if len(primes) == end-start {
				break
			}
		}
		idx++
	}
	return primes
}

// nthPrimeUpperBound верхняя оценка count-го простого:
// p_k < k(ln k + ln ln k) при k >= 6
func nthPrimeUpperBound(count int) int64 {
	if count < 6 {
		return 13
	}
	k := float64(count)
	return int64(k*(math.Log(k)+math.Log(math.Log(k)))) + 1
}
