package partition

import (
	"go.uber.org/zap"

	"partition-generation/internal/domain"
)

// compiledProbe подменяется в тестах для имитации сборки без
// ускоренного бэкенда
var compiledProbe = compiledBackend

// CompiledAvailable сообщает, доступен ли ускоренный бэкенд в этой
// сборке.
func CompiledAvailable() bool {
	_, ok := compiledProbe()
	return ok
}

// Select выбирает бэкенд один раз на запуск. Явно затребованный, но
// недоступный compiled — фатальная ошибка; в режиме auto происходит
// откат на эталонный бэкенд с предупреждением.
func Select(pref domain.BackendPreference, logger *zap.Logger) (domain.BackendHandle, error) {
	switch pref {
	case domain.BackendForceInterpreted:
		return domain.BackendHandle{Kind: domain.KindInterpreted, Backend: Interpreted{}}, nil

	case domain.BackendForceCompiled:
		b, ok := compiledProbe()
		if !ok {
			return domain.BackendHandle{}, &domain.BackendUnavailableError{Requested: domain.KindCompiled}
		}
		return domain.BackendHandle{Kind: domain.KindCompiled, Backend: b}, nil

	default:
		b, ok := compiledProbe()
		if !ok {
			logger.Warn("compiled backend not available, falling back to interpreted")
			return domain.BackendHandle{Kind: domain.KindInterpreted, Backend: Interpreted{}}, nil
		}
		return domain.BackendHandle{Kind: domain.KindCompiled, Backend: b}, nil
	}
}
