// Binary stress compares wake-to-observe latency of different wait
// strategies: a tight spin, a Gosched loop, a fixed sleep loop, and the
// adaptive SpinWait. A producer flips a flag after a configurable delay and
// the consumer reports how long it took to observe the flip.
//
// Run with:
//
//	go run main.go --rounds=2000 --delay=5us --logtostderr
package main

import (
	"flag"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/pflag"
	"github.com/waitlib/waitlib/internal/hint"
	"github.com/waitlib/waitlib/spinwait"
)

var (
	rounds   = pflag.Int("rounds", 1000, "Number of wait rounds per strategy")
	delay    = pflag.Duration("delay", 5*time.Microsecond, "How long the producer waits before setting the flag")
	strategy = pflag.String("strategy", "", "Run only this strategy; empty runs all")
)

// waitFn polls cond until it reports true.
type waitFn func(cond func() bool)

var strategies = map[string]waitFn{
	"spin": func(cond func() bool) {
		for !cond() {
			hint.Spin(hint.Cycles)
		}
	},
	"gosched": func(cond func() bool) {
		for !cond() {
			runtime.Gosched()
		}
	},
	"sleep": func(cond func() bool) {
		for !cond() {
			time.Sleep(time.Microsecond)
		}
	},
	"spinwait": func(cond func() bool) {
		spinwait.New().Until(cond)
	},
}

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine) // picks up glog's flags
	pflag.Parse()

	if *rounds < 1 {
		glog.Fatalf("stress: --rounds must be >= 1, got %d", *rounds)
	}

	names := []string{}
	if *strategy != "" {
		if _, ok := strategies[*strategy]; !ok {
			glog.Fatalf("stress: unknown strategy %q", *strategy)
		}
		names = append(names, *strategy)
	} else {
		for name := range strategies {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	glog.Infof("stress: %d rounds per strategy, producer delay %v", *rounds, *delay)

	for _, name := range names {
		avg, worst := run(strategies[name])
		glog.Infof("stress: %-8s avg wake-to-observe %v, worst %v", name, avg, worst)
	}
	glog.Flush()
}

// run measures one strategy over the configured number of rounds and
// returns the average and worst observed latency.
func run(wait waitFn) (avg, worst time.Duration) {
	var total time.Duration

	for i := 0; i < *rounds; i++ {
		var flag uint32
		var setAt time.Time

		done := make(chan struct{})
		go func() {
			time.Sleep(*delay)
			setAt = time.Now()
			atomic.StoreUint32(&flag, 1)
			close(done)
		}()

		wait(func() bool { return atomic.LoadUint32(&flag) == 1 })
		observed := time.Since(setAt)
		<-done

		total += observed
		if observed > worst {
			worst = observed
		}
	}
	return total / time.Duration(*rounds), worst
}
