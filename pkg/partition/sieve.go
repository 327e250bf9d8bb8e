package partition

import "math"

// bitSieve решето Эратосфена на битовой карте: бит = составное число
type bitSieve struct {
	limit int64
	bits  []uint64
}

func newBitSieve(limit int64) *bitSieve {
	s := &bitSieve{limit: limit, bits: make([]uint64, limit/64+1)}
	for i := int64(2); i*i <= limit; i++ {
		if s.composite(i) {
			continue
		}
		for m := i * i; m <= limit; m += i {
			s.setComposite(m)
		}
	}
	return s
}

func (s *bitSieve) isPrime(v int64) bool {
	return v >= 2 && v <= s.limit && !s.composite(v)
}

func (s *bitSieve) composite(v int64) bool {
	return s.bits[v>>6]&(1<<(uint64(v)&63)) != 0
}

func (s *bitSieve) setComposite(v int64) {
	s.bits[v>>6] |= 1 << (uint64(v) & 63)
}

// primePowerBySieve то же, что primePowerByDivision, но простота
// проверяется по решету, а показатель подбирается через целочисленные
// корни. Требует v в пределах решета.
func primePowerBySieve(v int64, s *bitSieve) (base int64, exp int, ok bool) {
	if v < 2 {
		return 0, 0, false
	}
	if s.isPrime(v) {
		return v, 1, true
	}
	for k := 2; ; k++ {
		r := iroot(v, k)
		if r < 2 {
			return 0, 0, false
		}
		if powEquals(r, k, v) && s.isPrime(r) {
			return r, k, true
		}
	}
}

// iroot возвращает floor(v^(1/k)). Плавающая оценка только как
// стартовая точка, результат корректируется точной арифметикой.
func iroot(v int64, k int) int64 {
	if k == 1 || v < 2 {
		return v
	}
	r := int64(math.Pow(float64(v), 1/float64(k)))
	for r > 1 && !powLeq(r, k, v) {
		r--
	}
	for powLeq(r+1, k, v) {
		r++
	}
	return r
}

// powLeq проверяет r^k <= v без переполнения
func powLeq(r int64, k int, v int64) bool {
	if r <= 1 {
		return true
	}
	p := int64(1)
	for i := 0; i < k; i++ {
		if p > v/r {
			return false
		}
		p *= r
	}
	return p <= v
}

func powEquals(r int64, k int, v int64) bool {
	if r < 2 {
		return false
	}
	p := int64(1)
	for i := 0; i < k; i++ {
		if p > v/r {
			return false
		}
		p *= r
	}
	return p == v
}
