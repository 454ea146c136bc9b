package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/annel0/world-resilience/internal/changefeed"
	"github.com/annel0/world-resilience/internal/eventbus"
	"github.com/annel0/world-resilience/internal/logging"
)

const defaultNATSURL = "nats://127.0.0.1:4222"

func main() {
	var (
		natsURL = flag.String("nats", defaultNATSURL, "NATS server URL")
		stream  = flag.String("stream", eventbus.DefaultStream, "JetStream stream name")
		sources = flag.String("sources", "", "Sources filter (comma-separated)")
		kinds   = flag.String("kinds", "", "Change kinds filter: terraform,growth")
		limit   = flag.Int("limit", 0, "Stop after N batches (0: follow forever)")
		verbose = flag.Bool("v", false, "Print every change, not only batch summary")
	)
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	codec, err := changefeed.NewCodec()
	if err != nil {
		log.Fatalf("❌ Codec init failed: %v", err)
	}
	defer codec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printer := &batchPrinter{
		out:     os.Stdout,
		sources: parseStringList(*sources),
		kinds:   parseStringList(*kinds),
		verbose: *verbose,
		limit:   *limit,
		done:    stop,
	}

	quiet := logging.NewWriterLogger("feed-cli", os.Stderr, logging.WARN)
	consumer, err := changefeed.NewConsumer(ctx, bus, codec, printer.handle, quiet)
	if err != nil {
		log.Fatalf("❌ Subscribe failed: %v", err)
	}
	defer consumer.Stop()

	fmt.Printf("🎬 Tailing %s on %s (stream %s)\n", eventbus.Subject(changefeed.EventType), *natsURL, *stream)
	<-ctx.Done()
	fmt.Printf("👋 %d batches, %d changes\n", printer.batches.Load(), printer.changes.Load())
}

// batchPrinter печатает пакеты изменений. handle вызывается из горутины подписки,
// счётчики читает main после остановки.
type batchPrinter struct {
	out     io.Writer
	sources []string
	kinds   []string
	verbose bool
	limit   int
	done    func()

	batches atomic.Int64
	changes atomic.Int64
}

func (p *batchPrinter) handle(ev *eventbus.Envelope, b *changefeed.Batch) {
	if !contains(p.sources, ev.Source) {
		return
	}

	var details strings.Builder
	shown := 0
	for _, c := range b.Changes {
		if !contains(p.kinds, c.Kind) {
			continue
		}
		shown++
		if p.verbose {
			fmt.Fprintf(&details, "    (%d,%d) %s → %s [%s]\n", c.X, c.Y, c.From, c.To, c.Kind)
		}
	}
	if shown == 0 {
		return
	}

	batches := p.batches.Add(1)
	p.changes.Add(int64(shown))
	// Заголовок пакета идёт перед его изменениями
	fmt.Fprintf(p.out, "[%s] %s tick=%d changes=%d id=%s\n",
		b.Timestamp.Format(time.RFC3339), ev.Source, b.Tick, shown, ev.ID)
	io.WriteString(p.out, details.String())

	if p.limit > 0 && batches >= int64(p.limit) {
		p.done()
	}
}

func contains(filter []string, v string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == v {
			return true
		}
	}
	return false
}

func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
