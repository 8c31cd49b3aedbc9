package e1000

import "fmt"
import "sync"
import "unsafe"

import "github.com/Qiuarctica/xv6/hw"
import "github.com/Qiuarctica/xv6/mem"
import "github.com/Qiuarctica/xv6/stats"

type e1000reg_t uint32

// register word indices (8254x manual section 13).
const (
	CTL   e1000reg_t = 0x00000 / 4
	ICR   e1000reg_t = 0x000c0 / 4
	IMS   e1000reg_t = 0x000d0 / 4
	RCTL  e1000reg_t = 0x00100 / 4
	TCTL  e1000reg_t = 0x00400 / 4
	TIPG  e1000reg_t = 0x00410 / 4
	RDBAL e1000reg_t = 0x02800 / 4
	RDBAH e1000reg_t = 0x02804 / 4
	RDLEN e1000reg_t = 0x02808 / 4
	RDH   e1000reg_t = 0x02810 / 4
	RDT   e1000reg_t = 0x02818 / 4
	RDTR  e1000reg_t = 0x02820 / 4
	RADV  e1000reg_t = 0x0282c / 4
	TDBAL e1000reg_t = 0x03800 / 4
	TDBAH e1000reg_t = 0x03804 / 4
	TDLEN e1000reg_t = 0x03808 / 4
	TDH   e1000reg_t = 0x03810 / 4
	TDT   e1000reg_t = 0x03818 / 4
	MTA   e1000reg_t = 0x05200 / 4
	RA    e1000reg_t = 0x05400 / 4
)

const (
	CTL_RST uint32 = 1 << 26

	TCTL_EN         uint32 = 1 << 1
	TCTL_PSP        uint32 = 1 << 3
	TCTL_CT_SHIFT          = 4
	TCTL_COLD_SHIFT        = 12

	RCTL_EN      uint32 = 1 << 1
	RCTL_BAM     uint32 = 1 << 15
	RCTL_SZ_2048 uint32 = 0
	RCTL_SECRC   uint32 = 1 << 26

	// receive descriptor writeback interrupt cause
	IMS_RXDW uint32 = 1 << 7
)

const NTXDESCS uint32 = 16
const NRXDESCS uint32 = 16

// packet ingress collaborator. the driver does not hold its ring lock
// across this call; delivery may block or call back into the driver. the
// callee takes ownership of the page.
type Net_i interface {
	Net_start(pg *mem.Bytepg_t, tlen int)
}

// E1000_t is the per-device driver state: one transmit ring, one receive
// ring, the register window, and one lock over all of it. created once at
// boot, never torn down.
type E1000_t struct {
	sync.Mutex
	regs *hw.Regs_t
	tx   *ring_t
	rx   *ring_t
	pm   mem.Page_i
	net  Net_i
}

// the board has one of these; the trap path reaches it through Nic.
var Nic *E1000_t

func (x *E1000_t) rl(reg e1000reg_t) uint32 {
	return x.regs.Rl(uint32(reg))
}

func (x *E1000_t) rs(reg e1000reg_t, val uint32) {
	x.regs.Rs(uint32(reg), val)
}

func (x *E1000_t) log(fm string, args ...interface{}) {
	fmt.Printf("e1000: "+fm+"\n", args...)
}

// Attach resets the device, builds both rings, and programs the 8254x
// initialization sequence (manual 14.4/14.5). runs once at boot; any
// failure here is a boot panic.
func Attach(regs *hw.Regs_t, pm mem.Page_i, net Net_i) *E1000_t {
	if unsafe.Sizeof(desc_t{}) != 16 {
		panic("unexpected padding")
	}
	x := &E1000_t{regs: regs, pm: pm, net: net}

	// reset; interrupts masked across it. the barrier orders the reset
	// store before every configuration store below.
	x.rs(IMS, 0)
	x.rs(CTL, x.rl(CTL)|CTL_RST)
	x.rs(IMS, 0)
	hw.Barrier()

	// transmit ring: every descriptor starts done, no buffers yet.
	x.tx = mkring(TXRING, NTXDESCS, pm)
	x.rs(TDBAL, uint32(x.tx.base()))
	x.rs(TDBAH, uint32(uint64(x.tx.base())>>32))
	x.rs(TDLEN, x.tx.bytelen())
	x.rs(TDH, 0)
	x.rs(TDT, 0)

	// receive ring: every slot owns a buffer before RCTL.EN.
	x.rx = mkring(RXRING, NRXDESCS, pm)
	x.rs(RDBAL, uint32(x.rx.base()))
	x.rs(RDBAH, uint32(uint64(x.rx.base())>>32))
	x.rs(RDLEN, x.rx.bytelen())
	x.rs(RDH, 0)
	// the device's next-to-fill slot stays one behind the software tail.
	x.rs(RDT, NRXDESCS-1)

	// receive address filter: qemu's MAC, 52:54:00:12:34:56.
	x.rs(RA, 0x12005452)
	x.rs(RA+1, 0x5634|1<<31)
	for i := e1000reg_t(0); i < 4096/32; i++ {
		x.rs(MTA+i, 0)
	}

	x.rs(TCTL, TCTL_EN|TCTL_PSP|0x10<<TCTL_CT_SHIFT|0x40<<TCTL_COLD_SHIFT)
	x.rs(TIPG, 10|8<<10|6<<20)
	x.rs(RCTL, RCTL_EN|RCTL_BAM|RCTL_SZ_2048|RCTL_SECRC)

	// interrupt on every received packet, no coalescing timers.
	x.rs(RDTR, 0)
	x.rs(RADV, 0)
	x.rs(IMS, IMS_RXDW)

	x.log("%d tx + %d rx descriptors", NTXDESCS, NRXDESCS)
	Nic = x
	return x
}

// Tx_raw queues one frame for transmission. a true return transfers
// ownership of pg to the driver, which frees it when the slot is next
// recycled; false means the ring is full and the caller still owns pg.
// never blocks waiting for the device to drain.
func (x *E1000_t) Tx_raw(pg *mem.Bytepg_t, tlen int) bool {
	x.Lock()
	tail := x.rl(TDT)
	if tail >= NTXDESCS {
		panic("tx tail out of range")
	}
	if !x.tx.claimable(tail) {
		// backpressure: no free descriptor. the caller retries or
		// drops.
		x.Unlock()
		stats.Txdrops.Inc()
		return false
	}
	pa := mem.Pa_t(uintptr(unsafe.Pointer(pg)))
	x.tx.install(tail, pg, pa, tlen)
	x.rs(TDT, x.tx.advance(tail))
	x.Unlock()
	stats.Txpkts.Inc()
	return true
}

// rx_consume drains every completed receive descriptor, starting one past
// the software tail and stopping at the first slot the device still owns.
// the lock is dropped around each delivery since the ingress path may
// block or re-enter the driver.
func (x *E1000_t) rx_consume() {
	x.Lock()
	tail := x.rx.advance(x.rl(RDT))
	for x.rx.claimable(tail) {
		pg := x.rx.detach(tail)
		tlen := x.rx.descs[tail].rxlen()
		x.Unlock()
		stats.Rxpkts.Inc()
		x.net.Net_start(pg, tlen)
		x.Lock()
		npg, npa, ok := x.pm.Palloc()
		if !ok {
			// receive is dead without a buffer here; this is a
			// machine-wide failure, not a dropped packet.
			panic("no rx buffers")
		}
		x.rx.install(tail, npg, npa, 0)
		x.rs(RDT, tail)
		tail = x.rx.advance(tail)
	}
	x.Unlock()
}

// Intr is the device's interrupt entry. the cause register must be
// cleared even if no packet is pending or the device will never raise
// another interrupt.
func (x *E1000_t) Intr() {
	x.rs(ICR, ^uint32(0))
	x.rx_consume()
}
