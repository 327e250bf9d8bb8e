package partition

// Interpreted эталонный бэкенд: прямой перебор слагаемых a в [2, n/2]
// с классификацией a и n-a пробными делениями. Медленный, но очевидно
// корректный; служит опорой для проверки ускоренного бэкенда.
type Interpreted struct{}

func (Interpreted) Compute(n int64) (int64, error) {
	if err := checkInput(n); err != nil {
		return 0, err
	}

	seen := make(map[partitionTuple]struct{})
	for a := int64(2); a <= n/2; a++ {
		p, j, ok := primePowerByDivision(a)
		if !ok {
			continue
		}
		q, k, ok := primePowerByDivision(n - a)
		if !ok {
			continue
		}
		seen[canonicalTuple(p, j, q, k)] = struct{}{}
	}
	return int64(len(seen)), nil
}

// primePowerByDivision раскладывает v как base^exp с простым base,
// либо сообщает, что v не является степенью простого.
func primePowerByDivision(v int64) (base int64, exp int, ok bool) {
	if v < 2 {
		return 0, 0, false
	}
	for f := int64(2); f*f <= v; f++ {
		if v%f != 0 {
			continue
		}
		r := v
		for r%f == 0 {
			r /= f
			exp++
		}
		if r != 1 {
			return 0, 0, false
		}
		return f, exp, true
	}
	return v, 1, true
}
