package worldlaw

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Erosion разрешает проход эрозии
const Erosion = "world_erosion"

// ErrUnknownLaw возвращается при обращении к незарегистрированному закону
var ErrUnknownLaw = errors.New("неизвестный закон мира")

// Law описывает именованный булев переключатель мира
type Law struct {
	Name    string
	Default bool
	value   atomic.Bool
}

// IsEnabled возвращает текущее значение закона
func (l *Law) IsEnabled() bool {
	return l.value.Load()
}

// Set задаёт значение закона
func (l *Law) Set(v bool) {
	l.value.Store(v)
}

// Laws хранит реестр законов мира. Значения меняет внешняя конфигурация,
// читают их тиковые проходы.
type Laws struct {
	mu   sync.RWMutex
	laws map[string]*Law
}

// New создаёт пустой реестр
func New() *Laws {
	return &Laws{laws: make(map[string]*Law)}
}

// Add регистрирует закон со значением по умолчанию. Повторная регистрация
// возвращает уже существующий закон.
func (ls *Laws) Add(name string, def bool) *Law {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if law, exists := ls.laws[name]; exists {
		return law
	}
	law := &Law{Name: name, Default: def}
	law.value.Store(def)
	ls.laws[name] = law
	return law
}

// Get возвращает закон по имени
func (ls *Laws) Get(name string) (*Law, bool) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	law, exists := ls.laws[name]
	return law, exists
}

// IsEnabled возвращает значение закона; незарегистрированный закон выключен
func (ls *Laws) IsEnabled(name string) bool {
	law, exists := ls.Get(name)
	return exists && law.IsEnabled()
}

// Set меняет значение зарегистрированного закона
func (ls *Laws) Set(name string, v bool) error {
	law, exists := ls.Get(name)
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownLaw, name)
	}
	law.Set(v)
	return nil
}

// Apply применяет набор значений (например, из конфигурации)
func (ls *Laws) Apply(values map[string]bool) error {
	for name, v := range values {
		if err := ls.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Names возвращает отсортированные имена законов
func (ls *Laws) Names() []string {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	names := make([]string, 0, len(ls.laws))
	for name := range ls.laws {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init регистрирует законы, которыми управляет этот модуль
func Init(ls *Laws) {
	ls.Add(Erosion, false)
}
