package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/annel0/world-resilience/internal/changefeed"
	"github.com/annel0/world-resilience/internal/config"
	"github.com/annel0/world-resilience/internal/engine"
	"github.com/annel0/world-resilience/internal/erosion"
	"github.com/annel0/world-resilience/internal/eventbus"
	"github.com/annel0/world-resilience/internal/logging"
	"github.com/annel0/world-resilience/internal/metrics"
	"github.com/annel0/world-resilience/internal/observability"
	"github.com/annel0/world-resilience/internal/util"
	"github.com/annel0/world-resilience/internal/world"
	"github.com/annel0/world-resilience/internal/worldlaw"
)

func main() {
	var (
		configPath = flag.String("config", "", "Путь к YAML-конфигу (по умолчанию $EROSION_CONFIG)")
		ticks      = flag.Uint64("ticks", 0, "Ограничить число тиков (0: из конфига)")
		variant    = flag.String("variant", "", "Вариант правил: resilience | classic")
		printMap   = flag.Bool("print", false, "Вывести карту до и после симуляции")
		noMetrics  = flag.Bool("no-metrics", false, "Не поднимать /metrics")
	)
	flag.Parse()

	if err := logging.InitDefaultLogger("erosion-sim"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	cfg = config.OrDefault(cfg)
	if *ticks > 0 {
		cfg.Scheduler.MaxTicks = *ticks
	}
	if *variant != "" {
		cfg.Erosion.Variant = *variant
	}
	if level, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
		logging.Default().SetLevels(level, logging.TRACE)
	} else {
		logging.Warn("Неизвестный уровень логирования %q, оставляем INFO", cfg.Logging.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *printMap, !*noMetrics); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, printMap, serveMetrics bool) error {
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	// === МИР ===
	logging.Info("🌍 Генерация мира %dx%d (seed=%d)", cfg.World.Width, cfg.World.Height, cfg.World.Seed)
	w, err := world.NewWorldGenerator(cfg.World.Seed).Generate(cfg.World.Width, cfg.World.Height)
	if err != nil {
		return fmt.Errorf("генерация мира: %w", err)
	}
	islands := world.NewIslandsCalculator(w)
	logging.Info("🏝️ Найдено %d островов", len(islands.Islands()))

	if printMap {
		printGrid(w)
	}

	laws := worldlaw.Default()
	if err := laws.Apply(cfg.Laws); err != nil {
		return fmt.Errorf("законы мира: %w", err)
	}
	for _, name := range laws.Names() {
		logging.Debug("⚖️ Закон %s: %v", name, laws.IsEnabled(name))
	}

	src, err := util.NewNoise(cfg.Noise.Backend, cfg.Noise.Seed)
	if err != nil {
		return err
	}
	params, err := cfg.Erosion.Params()
	if err != nil {
		return fmt.Errorf("параметры эрозии: %w", err)
	}

	// === ИНФРАСТРУКТУРА ===
	bus, err := newBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer bus.Close()

	if _, err := eventbus.StartLoggingListener(bus, logging.GetComponentLogger("eventbus")); err != nil {
		return fmt.Errorf("logging listener: %w", err)
	}

	codec, err := changefeed.NewCodec()
	if err != nil {
		return err
	}
	defer codec.Close()
	publisher := changefeed.NewPublisher(bus, codec, cfg.EventBus.Source, logging.GetComponentLogger("changefeed"))

	erosionMetrics := metrics.NewErosionMetrics(nil)
	busMetrics := eventbus.NewMetricsExporter(bus, nil, time.Second)
	busMetrics.Start()
	defer busMetrics.Stop()

	if serveMetrics {
		addr := fmt.Sprintf(":%d", cfg.Metrics.GetMetricsPort())
		srv := metrics.StartHTTP(addr, nil)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	seed := cfg.Erosion.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}
	eroder, err := erosion.NewEroder(params, w, islands, util.NewTileNoise(src), laws,
		erosion.WithRand(rand.New(rand.NewSource(seed))),
		erosion.WithMetrics(erosionMetrics),
		erosion.WithObserver(publisher),
		erosion.WithLogger(logging.GetErosionLogger()),
	)
	if err != nil {
		return err
	}

	eng, err := engine.New(eroder, islands, cfg.Scheduler.TickInterval(), cfg.Scheduler.MaxTicks, logging.GetEngineLogger())
	if err != nil {
		return err
	}

	logging.Info("✅ Симуляция запущена: вариант=%s, эрозия=%v, шина=%s",
		variantName(cfg.Erosion.Variant), laws.IsEnabled(worldlaw.Erosion), busName(cfg.EventBus))

	if err := eng.Run(ctx); err != nil {
		return err
	}

	stats := eng.Stats()
	logging.Info("📊 Тиков: %d (пропущено %d), изменений: %d, пересчётов островов: %d",
		stats.Ticks, stats.Skipped, stats.Changes, stats.Recomputes)
	logCounts(w)

	if printMap {
		printGrid(w)
	}
	return nil
}

func newBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		return eventbus.NewMemoryBus(256), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, cfg.RetentionDuration())
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return bus, nil
}

func busName(cfg config.EventBusConfig) string {
	if cfg.URL == "" {
		return "memory"
	}
	return cfg.URL
}

func variantName(v string) string {
	if v == "" {
		return erosion.VariantResilience
	}
	return v
}

func logCounts(w *world.World) {
	counts := w.CountByType()
	names := make([]string, 0, len(counts))
	byName := make(map[string]int, len(counts))
	for id, n := range counts {
		name := id.String()
		names = append(names, name)
		byName[name] = n
	}
	sort.Strings(names)
	for _, name := range names {
		logging.Info("   %-16s %d", name, byName[name])
	}
}

func printGrid(w *world.World) {
	for _, row := range world.RenderTypeGrid(w, world.DefaultLegend) {
		fmt.Println(row)
	}
	fmt.Println()
}
