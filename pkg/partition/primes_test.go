package partition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPrimesByIndex(t *testing.T) {
	t.Run("first primes", func(t *testing.T) {
		want := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
		if diff := cmp.Diff(want, PrimesByIndex(0, 10)); diff != "" {
			t.Errorf("first primes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("interior range", func(t *testing.T) {
		assert.Equal(t, []int64{7, 11, 13}, PrimesByIndex(3, 6))
	})

	t.Run("ranges stitch together", func(t *testing.T) {
		// Воркеры режут домен на диапазоны; конкатенация диапазонов
		// обязана совпадать со сплошным списком
		whole := PrimesByIndex(0, 120)
		var stitched []int64
		for start := 0; start < 120; start += 37 {
			end := min(start+37, 120)
			stitched = append(stitched, PrimesByIndex(start, end)...)
		}
		if diff := cmp.Diff(whole, stitched); diff != "" {
			t.Errorf("stitched ranges mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("larger index sanity", func(t *testing.T) {
		// 1000-е простое (индекс 999) равно 7919
		got := PrimesByIndex(999, 1000)
		assert.Equal(t, []int64{7919}, got)
	})

	t.Run("degenerate ranges", func(t *testing.T) {
		assert.Nil(t, PrimesByIndex(-1, 5))
		assert.Nil(t, PrimesByIndex(5, 5))
		assert.Nil(t, PrimesByIndex(5, 3))
	})
}
