//go:build purego

package partition

import "partition-generation/internal/domain"

func compiledBackend() (domain.Backend, bool) {
	return nil, false
}
