package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/world-resilience/internal/erosion"
	"gopkg.in/yaml.v3"
)

// ConfigEnv содержит путь к YAML-конфигу
const ConfigEnv = "EROSION_CONFIG"

// Config корневая структура конфигурации симулятора.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Noise     NoiseConfig     `yaml:"noise"`
	Erosion   ErosionConfig   `yaml:"erosion"`
	Laws      map[string]bool `yaml:"laws"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type WorldConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

type NoiseConfig struct {
	Backend string `yaml:"backend"` // perlin | simplex
	Seed    int64  `yaml:"seed"`
}

// ErosionConfig выбирает пресет и переопределяет отдельные параметры.
// Нулевые указатели означают «как в пресете».
type ErosionConfig struct {
	Variant               string   `yaml:"variant"`
	MaxTilesInList        *int     `yaml:"max_tiles_in_list"`
	SamplingMultiplier    *int     `yaml:"sampling_multiplier"`
	ExpansionNoiseLow     *float64 `yaml:"expansion_noise_low"`
	ExpansionNoiseHigh    *float64 `yaml:"expansion_noise_high"`
	ShallowNoiseThreshold *float64 `yaml:"shallow_noise_threshold"`
	DirtNoiseSplit        *float64 `yaml:"dirt_noise_split"`
	BiomeGrowth           *bool    `yaml:"biome_growth"`
	BiomeGrowthChance     *float64 `yaml:"biome_growth_chance"`
	BiomeGrowthDistance   *int     `yaml:"biome_growth_distance"`
	Effect                *string  `yaml:"effect"`
	Seed                  int64    `yaml:"seed"`
}

type SchedulerConfig struct {
	TickMillis int    `yaml:"tick_ms"`
	MaxTicks   uint64 `yaml:"max_ticks"`
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пустой URL означает in-memory шину
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Source    string `yaml:"source"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World:     WorldConfig{Width: 128, Height: 96, Seed: 42},
		Noise:     NoiseConfig{Backend: "perlin", Seed: 42},
		Erosion:   ErosionConfig{Variant: erosion.VariantResilience},
		Laws:      map[string]bool{"world_erosion": true},
		Scheduler: SchedulerConfig{TickMillis: 200},
		EventBus:  EventBusConfig{Stream: "TERRAIN", Retention: 24, Source: "erosion-sim"},
		Telemetry: TelemetryConfig{ServiceName: "world-resilience"},
		Logging:   LoggingConfig{Level: "INFO"},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV EROSION_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
		if path == "" {
			return nil, nil // конфиг не задан, используем дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфига %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML поверх значений по умолчанию
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфига: %w", err)
	}
	return cfg, nil
}

// OrDefault возвращает cfg или конфигурацию по умолчанию для nil
func OrDefault(cfg *Config) *Config {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// TickInterval возвращает интервал тика планировщика
func (s SchedulerConfig) TickInterval() time.Duration {
	if s.TickMillis <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(s.TickMillis) * time.Millisecond
}

// RetentionDuration возвращает срок хранения стрима
func (e EventBusConfig) RetentionDuration() time.Duration {
	return time.Duration(e.Retention) * time.Hour
}

// GetMetricsPort возвращает порт Prometheus-метрик с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "EROSION_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return defaultPort
}

// Params собирает параметры эрозии: пресет варианта плюс переопределения
func (e ErosionConfig) Params() (erosion.Params, error) {
	p, err := erosion.ParamsForVariant(e.Variant)
	if err != nil {
		return erosion.Params{}, err
	}
	setInt(&p.MaxTilesInList, e.MaxTilesInList)
	setInt(&p.SamplingMultiplier, e.SamplingMultiplier)
	setFloat(&p.ExpansionNoiseLow, e.ExpansionNoiseLow)
	setFloat(&p.ExpansionNoiseHigh, e.ExpansionNoiseHigh)
	setFloat(&p.ShallowNoiseThreshold, e.ShallowNoiseThreshold)
	setFloat(&p.DirtNoiseSplit, e.DirtNoiseSplit)
	setFloat(&p.BiomeGrowthChance, e.BiomeGrowthChance)
	setInt(&p.BiomeGrowthDistance, e.BiomeGrowthDistance)
	if e.BiomeGrowth != nil {
		p.BiomeGrowth = *e.BiomeGrowth
	}
	if e.Effect != nil {
		p.Effect = *e.Effect
	}
	if err := p.Validate(); err != nil {
		return erosion.Params{}, err
	}
	return p, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
