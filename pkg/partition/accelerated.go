//go:build !purego

package partition

import "partition-generation/internal/domain"

// Accelerated ускоренный бэкенд: одно решето на вызов, перебор идёт
// только по степеням простых p^j <= n/2, дополнение проверяется по
// решету. Состояние не разделяется между вызовами.
type Accelerated struct{}

func (Accelerated) Compute(n int64) (int64, error) {
	if err := checkInput(n); err != nil {
		return 0, err
	}

	sieve := newBitSieve(n)
	seen := make(map[partitionTuple]struct{})
	half := n / 2

	for p := int64(2); p <= half; p++ {
		if !sieve.isPrime(p) {
			continue
		}
		pw := p
		for j := 1; pw <= half; j++ {
			if q, k, ok := primePowerBySieve(n-pw, sieve); ok {
				seen[canonicalTuple(p, j, q, k)] = struct{}{}
			}
			if pw > half/p {
				break
			}
			pw *= p
		}
	}
	return int64(len(seen)), nil
}

func compiledBackend() (domain.Backend, bool) {
	return Accelerated{}, true
}
