package e1000

import "sync/atomic"
import "unsafe"

import "github.com/Qiuarctica/xv6/mem"

// legacy e1000 descriptor: a buffer address word and a field word. the
// layouts of the tx and rx variants differ only in the meaning of the
// bytes around the status byte, so one record serves both. field word,
// low to high: length[15:0], cso/csum[31:16], cmd[39:32] (tx only),
// status[39:32]... see the 8254x manual 3.2.3 and 3.3.3.
type desc_t struct {
	addr   uint64
	fields uint64
}

const (
	// field word offsets shared by both variants
	descLenMask uint64 = 0xffff
	descCmdOff         = 24
	descStatOff        = 32

	// tx command bits
	TXD_CMD_EOP uint64 = 1 << 0
	TXD_CMD_RS  uint64 = 1 << 3

	// status bits. DD sits at bit 0 of the status byte in both variants.
	STAT_DD  uint64 = 1 << descStatOff
	STAT_EOP uint64 = 1 << (descStatOff + 1)
)

// the device DMAs rings in units of this many bytes; a ring whose byte
// length is not a multiple is a fatal configuration error.
const DMAALIGN = 128

// done reports whether hardware has handed this descriptor back to
// software. the atomic load doubles as a compiler barrier; the device
// writes this word behind our back.
func (d *desc_t) done() bool {
	return atomic.LoadUint64(&d.fields)&STAT_DD != 0
}

func (d *desc_t) rxlen() int {
	return int(atomic.LoadUint64(&d.fields) & descLenMask)
}

// program a transmit descriptor: address, length, EOP|RS command, status
// cleared so the device's done writeback is unambiguous.
func (d *desc_t) mktx(pa mem.Pa_t, tlen int) {
	d.addr = uint64(pa)
	atomic.StoreUint64(&d.fields,
		uint64(tlen)&descLenMask|(TXD_CMD_EOP|TXD_CMD_RS)<<descCmdOff)
}

// program a receive descriptor: address only, everything else cleared so
// the device may fill it.
func (d *desc_t) mkrx(pa mem.Pa_t) {
	d.addr = uint64(pa)
	atomic.StoreUint64(&d.fields, 0)
}

type rkind_t int

const (
	TXRING rkind_t = iota
	RXRING
)

// ring_t is a fixed-capacity circular descriptor array paired with the
// software-owned buffer of each slot. a nil buffer slot owns nothing;
// otherwise the slot owns its page until install hands it back to the
// allocator. indices wrap modulo the capacity.
type ring_t struct {
	kind   rkind_t
	ndescs uint32
	descs  []desc_t
	bufs   []*mem.Bytepg_t
	pm     mem.Page_i
}

func mkring(kind rkind_t, ndescs uint32, pm mem.Page_i) *ring_t {
	r := &ring_t{kind: kind, ndescs: ndescs, pm: pm}
	r.descs = make([]desc_t, ndescs)
	r.bufs = make([]*mem.Bytepg_t, ndescs)
	if r.bytelen()%DMAALIGN != 0 {
		panic("ring length not dma aligned")
	}
	switch kind {
	case TXRING:
		// every tx slot starts done so the first pass around the
		// ring sees free descriptors.
		for i := range r.descs {
			r.descs[i].fields = STAT_DD
		}
	case RXRING:
		// every rx slot must own a buffer before the device is
		// enabled; the device cannot receive without them.
		for i := range r.descs {
			pg, pa, ok := pm.Palloc()
			if !ok {
				panic("no rx buffers")
			}
			r.bufs[i] = pg
			r.descs[i].mkrx(pa)
		}
	default:
		panic("bad ring kind")
	}
	return r
}

func (r *ring_t) base() mem.Pa_t {
	return mem.Pa_t(uintptr(unsafe.Pointer(&r.descs[0])))
}

func (r *ring_t) bytelen() uint32 {
	return r.ndescs * uint32(unsafe.Sizeof(desc_t{}))
}

// claimable reports whether slot i currently belongs to software. no
// state changes.
func (r *ring_t) claimable(i uint32) bool {
	if i >= r.ndescs {
		panic("ring index out of range")
	}
	return r.descs[i].done()
}

// install releases the outgoing buffer at slot i (if any) back to the
// allocator, makes pg the slot's owned buffer, and reprograms the
// descriptor. only the outgoing buffer is ever freed here, never the
// incoming one, so every buffer has exactly one owner.
func (r *ring_t) install(i uint32, pg *mem.Bytepg_t, pa mem.Pa_t, tlen int) {
	if i >= r.ndescs {
		panic("ring index out of range")
	}
	if old := r.bufs[i]; old != nil {
		r.pm.Pfree(old)
	}
	r.bufs[i] = pg
	if r.kind == TXRING {
		r.descs[i].mktx(pa, tlen)
	} else {
		r.descs[i].mkrx(pa)
	}
}

// detach removes and returns slot i's owned buffer; the caller becomes
// the owner. the descriptor is left as-is until the slot is refilled.
func (r *ring_t) detach(i uint32) *mem.Bytepg_t {
	if i >= r.ndescs {
		panic("ring index out of range")
	}
	pg := r.bufs[i]
	if pg == nil {
		panic("slot owns no buffer")
	}
	r.bufs[i] = nil
	return pg
}

func (r *ring_t) advance(i uint32) uint32 {
	return (i + 1) % r.ndescs
}
