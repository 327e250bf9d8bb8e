package domain

// Backend вычисляет f(n) — число разложений n в сумму двух степеней
// простых чисел. Реализации обязаны давать в точности одинаковый
// результат для любого допустимого n.
type Backend interface {
	Compute(n int64) (int64, error)
}

// BackendFunc адаптер функции к интерфейсу Backend
type BackendFunc func(n int64) (int64, error)

func (f BackendFunc) Compute(n int64) (int64, error) {
	return f(n)
}
