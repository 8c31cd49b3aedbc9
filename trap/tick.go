package trap

import "sync"

import "github.com/Qiuarctica/xv6/stats"

// Ticks_t is the kernel clock: a counter bumped once per timer period by
// the designated hart, usable as a wait/wake condition.
type Ticks_t struct {
	sync.Mutex
	cond  *sync.Cond
	ticks uint64
}

func Mkticks() *Ticks_t {
	ts := &Ticks_t{}
	ts.cond = sync.NewCond(ts)
	return ts
}

func (ts *Ticks_t) Tick() {
	ts.Lock()
	ts.ticks++
	ts.cond.Broadcast()
	ts.Unlock()
	stats.Ticks.Inc()
}

func (ts *Ticks_t) Get() uint64 {
	ts.Lock()
	defer ts.Unlock()
	return ts.ticks
}

// Sleepticks blocks until n more ticks have elapsed or killed reports
// true; the killed check runs once per tick. returns false if killed cut
// the sleep short.
func (ts *Ticks_t) Sleepticks(n uint64, killed func() bool) bool {
	ts.Lock()
	defer ts.Unlock()
	t0 := ts.ticks
	for ts.ticks-t0 < n {
		if killed != nil && killed() {
			return false
		}
		ts.cond.Wait()
	}
	return true
}
