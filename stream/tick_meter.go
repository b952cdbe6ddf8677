package stream

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/printo/riderpro/common"
)

// TickMeter logs ingest throughput at an interval while a reader scans
// record lines. It wraps go-ethereum meters for the rate math.
type TickMeter struct {
	label      time.Time // any value, eg. record time
	interval   time.Duration
	started    time.Time
	ticker     *time.Ticker
	nn         atomic.Uint64
	reg        metrics.Registry
	count      metrics.Counter
	size       metrics.Counter
	countMeter metrics.Meter
	sizeMeter  metrics.Meter
}

func NewTickMeter(interval time.Duration) *TickMeter {
	// The metrics package is inert without the global toggle.
	metrics.Enabled = true

	reg := metrics.NewRegistry()
	tm := &TickMeter{
		reg:        reg,
		interval:   interval,
		started:    time.Now(),
		nn:         atomic.Uint64{},
		count:      metrics.NewCounter(),
		size:       metrics.NewCounter(),
		countMeter: metrics.NewMeter(),
		sizeMeter:  metrics.NewMeter(),
	}
	if err := reg.Register("record.count", tm.count); err != nil {
		panic(err)
	}
	if err := reg.Register("record.size", tm.size); err != nil {
		panic(err)
	}
	if err := reg.Register("record.meter", tm.countMeter); err != nil {
		panic(err)
	}
	if err := reg.Register("size.meter", tm.sizeMeter); err != nil {
		panic(err)
	}
	tm.nn.Store(0)
	go tm.run()
	return tm
}

// Mark records one scanned line.
func (tm *TickMeter) Mark(label time.Time, data []byte) {
	tm.label = label
	tm.nn.Add(1)
	tm.count.Inc(1)
	tm.size.Inc(int64(len(data)))
	tm.countMeter.Mark(1)
	tm.sizeMeter.Mark(int64(len(data)))
}

func (tm *TickMeter) run() {
	tm.ticker = time.NewTicker(tm.interval)
	for range tm.ticker.C {
		tm.log()
	}
}

func (tm *TickMeter) log() {
	countSnap := tm.countMeter.Snapshot()
	sizeSnap := tm.sizeMeter.Snapshot()
	slog.Info("Read records", "n", humanize.Comma(countSnap.Count()),
		"read.last", tm.label.Format(time.DateTime),
		"rps", common.DecimalToFixed(countSnap.Rate1(), 0),
		"bps", humanize.Bytes(uint64(sizeSnap.Rate1())),
		"total.bytes", humanize.Bytes(uint64(sizeSnap.Count())),
		"running", time.Since(tm.started).Round(time.Second))
}

func (tm *TickMeter) Stop() {
	if tm == nil || tm.ticker == nil {
		return
	}
	tm.ticker.Stop()
	tm.countMeter.Stop()
	tm.sizeMeter.Stop()
}
