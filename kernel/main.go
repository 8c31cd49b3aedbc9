package main

import "fmt"
import "unsafe"

import "github.com/Qiuarctica/xv6/defs"
import "github.com/Qiuarctica/xv6/e1000"
import "github.com/Qiuarctica/xv6/hw"
import "github.com/Qiuarctica/xv6/mem"
import "github.com/Qiuarctica/xv6/plic"
import "github.com/Qiuarctica/xv6/proc"
import "github.com/Qiuarctica/xv6/trap"

// physical memory layout of qemu -machine virt, from qemu's
// hw/riscv/virt.c. the e1000's registers sit behind the pci window.
const (
	UART0   uintptr = 0x10000000
	VIRTIO0 uintptr = 0x10001000
	PLIC    uintptr = 0x0c000000
	E1000   uintptr = 0x40000000
)

// boot page pool size
const bootpgs = 4096

// mmiowin maps a physical mmio window as a word slice; the kernel runs
// identity mapped so the cast is direct.
func mmiowin(pa uintptr, bytes int) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(pa)), bytes/4)
}

func main() {
	pm := mem.Mkpool(bootpgs)

	pl := plic.Mkplic(hw.Mkregs(mmiowin(PLIC, 0x400000)))
	pl.Enable(0, defs.IRQ_UART0)
	pl.Enable(0, defs.IRQ_VIRTIO)
	pl.Enable(0, defs.IRQ_E1000)
	pl.Setthreshold(0, 0)

	nic := e1000.Attach(hw.Mkregs(mmiowin(E1000, 0x20000)), pm,
		&netsink_t{pm: pm})

	t := trap.Mkdisp(&csrs_t{}, pl, &bootsched_t{}, &bootsys_t{},
		&bootmapper_t{}, pm)
	t.Setvecs(get_uservec(), get_kernelvec(), get_usertrap())
	t.Sethandler(defs.IRQ_UART0, uartintr)
	t.Sethandler(defs.IRQ_VIRTIO, virtiointr)
	t.Sethandler(defs.IRQ_E1000, nic.Intr)
	t.Inithart()

	fmt.Printf("gv6 trap core up\n")
	for {
		wfi()
	}
}

// netsink_t is the boot-time packet ingress: counts and drops until the
// network stack registers itself.
type netsink_t struct {
	pm mem.Page_i
}

func (ns *netsink_t) Net_start(pg *mem.Bytepg_t, tlen int) {
	ns.pm.Pfree(pg)
}

// the scheduler and syscall layer live in the rest of the kernel; at
// boot nothing runs yet.
type bootsched_t struct{}

func (bs *bootsched_t) Current() *proc.Proc_t         { return nil }
func (bs *bootsched_t) Yield()                        {}
func (bs *bootsched_t) Exit(p *proc.Proc_t, code int) { panic("exit at boot") }

type bootsys_t struct{}

func (sy *bootsys_t) Syscall(p *proc.Proc_t) { panic("syscall at boot") }

type bootmapper_t struct{}

func (bm *bootmapper_t) Mappages(pt mem.Pagetable_t, va uintptr, size int,
	pa mem.Pa_t, perm uintptr) defs.Err_t {
	return mappages(pt, va, size, pa, perm)
}

func uartintr() {
	// serial console driver entry
}

func virtiointr() {
	// disk driver entry
}
