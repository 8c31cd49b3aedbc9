package hw

import "sync/atomic"

// Regs_t is a window of 32-bit device registers, indexed by word. every
// access is a single ordered uncached load or store; the device may change
// a register's value between any two reads. the backing slice is either a
// dmap of the mmio window or, in tests, ordinary memory standing in for
// the device.
type Regs_t struct {
	win []uint32
}

func Mkregs(win []uint32) *Regs_t {
	if len(win) == 0 {
		panic("empty register window")
	}
	return &Regs_t{win: win}
}

func (r *Regs_t) Rl(reg uint32) uint32 {
	if int(reg) >= len(r.win) {
		panic("bad reg")
	}
	return atomic.LoadUint32(&r.win[reg])
}

func (r *Regs_t) Rs(reg uint32, val uint32) {
	if int(reg) >= len(r.win) {
		panic("bad reg")
	}
	atomic.StoreUint32(&r.win[reg], val)
}

var fence int32

// Barrier is a full memory fence. issued once after a device reset so the
// reset store is globally visible before any configuration store.
func Barrier() {
	atomic.AddInt32(&fence, 0)
}
