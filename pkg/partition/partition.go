// Package partition реализует вычисление числа разложений n в сумму
// двух степеней простых: n = p^j + q^k, j, k >= 1. Представления
// каноничны (p <= q) и считаются без повторов. Арифметика точная,
// целочисленная.
//
// Пакет содержит два взаимозаменяемых бэкенда: эталонный (Interpreted)
// и ускоренный (Accelerated, собирается без тега purego). Для любого
// допустимого n оба обязаны возвращать один и тот же результат.
package partition

import (
	"errors"

	"partition-generation/internal/domain"
)

// MaxInput верхняя граница входа для обоих бэкендов. Ограничение общее,
// иначе нарушается эквивалентность бэкендов на краях диапазона.
const MaxInput int64 = 1 << 31

var (
	ErrInputTooSmall = errors.New("partition: input must be >= 2")
	ErrInputTooLarge = errors.New("partition: input exceeds supported range")
)

func checkInput(n int64) error {
	if n < 2 {
		return ErrInputTooSmall
	}
	if n > MaxInput {
		return ErrInputTooLarge
	}
	return nil
}

// partitionTuple каноническое представление (p, j, q, k), p <= q
type partitionTuple struct {
	p int64
	j int
	q int64
	k int
}

func canonicalTuple(p int64, j int, q int64, k int) partitionTuple {
	if p > q || (p == q && j > k) {
		p, j, q, k = q, k, p, j
	}
	return partitionTuple{p: p, j: j, q: q, k: k}
}

var _ domain.Backend = Interpreted{}
