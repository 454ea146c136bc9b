package worldlaw

import "sync"

var (
	defaultLaws *Laws
	defaultOnce sync.Once
)

// Default возвращает общий для процесса реестр законов с зарегистрированной эрозией
func Default() *Laws {
	defaultOnce.Do(func() {
		defaultLaws = New()
		Init(defaultLaws)
	})
	return defaultLaws
}
