package plic

import "github.com/Qiuarctica/xv6/hw"

// word offsets into the plic window (qemu virt, sifive plic layout).
// irq priorities start at word 0; the s-mode enable, threshold and
// claim/complete words are per hart.
const (
	senableBase  = 0x2080 / 4
	senableHart  = 0x100 / 4
	sprioBase    = 0x201000 / 4
	sprioHart    = 0x2000 / 4
	sclaimOffset = 1
)

// Plic_t is the platform-level interrupt controller. its contract with
// the trap path is claim/complete: a claim hands out the id of one
// pending device and suppresses that device until the matching complete.
type Plic_t struct {
	regs *hw.Regs_t
}

func Mkplic(regs *hw.Regs_t) *Plic_t {
	return &Plic_t{regs: regs}
}

// Enable routes irq to hart's s-mode context and gives it a nonzero
// priority. boot-time only.
func (pl *Plic_t) Enable(hart int, irq uint32) {
	pl.regs.Rs(irq, 1)
	w := uint32(senableBase + hart*senableHart + int(irq/32))
	pl.regs.Rs(w, pl.regs.Rl(w)|1<<(irq%32))
}

// Setthreshold programs hart's s-mode priority threshold; zero accepts
// every enabled irq.
func (pl *Plic_t) Setthreshold(hart int, prio uint32) {
	pl.regs.Rs(uint32(sprioBase+hart*sprioHart), prio)
}

// Claim returns the id of a pending device interrupt, or zero when
// another hart already claimed it.
func (pl *Plic_t) Claim(hart int) uint32 {
	return pl.regs.Rl(uint32(sprioBase + hart*sprioHart + sclaimOffset))
}

// Complete re-arms irq. must be called exactly once per nonzero claim,
// after the device has been serviced, or the device can never interrupt
// again.
func (pl *Plic_t) Complete(hart int, irq uint32) {
	pl.regs.Rs(uint32(sprioBase+hart*sprioHart+sclaimOffset), irq)
}
