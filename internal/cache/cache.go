package cache

import (
	"time"

	"github.com/kitbuilder587/decision-engine/internal/domain"
)

// Cache хранит готовые результаты скоринга по ключу опция+параметры
type Cache interface {
	Get(key string) (domain.Evaluation, bool)
	Set(key string, ev domain.Evaluation, ttl time.Duration)
	Delete(key string)
	Stop()
}
