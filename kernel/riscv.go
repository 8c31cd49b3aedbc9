package main

import _ "unsafe"

import "github.com/Qiuarctica/xv6/defs"
import "github.com/Qiuarctica/xv6/mem"

// supervisor csr shims and trampoline symbols, provided by the assembly
// and vm layers the rest of the kernel links in.

//go:linkname r_scause r_scause
func r_scause() uintptr

//go:linkname w_scause w_scause
func w_scause(v uintptr)

//go:linkname r_sepc r_sepc
func r_sepc() uintptr

//go:linkname w_sepc w_sepc
func w_sepc(v uintptr)

//go:linkname r_sstatus r_sstatus
func r_sstatus() uintptr

//go:linkname w_sstatus w_sstatus
func w_sstatus(v uintptr)

//go:linkname r_stval r_stval
func r_stval() uintptr

//go:linkname w_stvec w_stvec
func w_stvec(v uintptr)

//go:linkname r_satp r_satp
func r_satp() uintptr

//go:linkname r_tp r_tp
func r_tp() uintptr

//go:linkname r_time r_time
func r_time() uint64

//go:linkname w_stimecmp w_stimecmp
func w_stimecmp(v uint64)

//go:linkname intr_on intr_on
func intr_on()

//go:linkname intr_off intr_off
func intr_off()

//go:linkname intr_get intr_get
func intr_get() bool

//go:linkname wfi wfi
func wfi()

//go:linkname userret userret
func userret(satp uintptr)

//go:linkname get_uservec get_uservec
func get_uservec() uintptr

//go:linkname get_kernelvec get_kernelvec
func get_kernelvec() uintptr

//go:linkname get_usertrap get_usertrap
func get_usertrap() uintptr

//go:linkname mappages mappages
func mappages(pt mem.Pagetable_t, va uintptr, size int, pa mem.Pa_t,
	perm uintptr) defs.Err_t

// csrs_t implements the dispatcher's view of this hart's csr state.
type csrs_t struct{}

func (c *csrs_t) Scause() uintptr      { return r_scause() }
func (c *csrs_t) W_scause(v uintptr)   { w_scause(v) }
func (c *csrs_t) Sepc() uintptr        { return r_sepc() }
func (c *csrs_t) W_sepc(v uintptr)     { w_sepc(v) }
func (c *csrs_t) Sstatus() uintptr     { return r_sstatus() }
func (c *csrs_t) W_sstatus(v uintptr)  { w_sstatus(v) }
func (c *csrs_t) Stval() uintptr       { return r_stval() }
func (c *csrs_t) W_stvec(v uintptr)    { w_stvec(v) }
func (c *csrs_t) Satp() uintptr        { return r_satp() }
func (c *csrs_t) Intr_on()             { intr_on() }
func (c *csrs_t) Intr_off()            { intr_off() }
func (c *csrs_t) Intr_get() bool       { return intr_get() }
func (c *csrs_t) Cpuid() int           { return int(r_tp()) }
func (c *csrs_t) Rtime() uint64        { return r_time() }
func (c *csrs_t) W_stimecmp(v uint64)  { w_stimecmp(v) }
func (c *csrs_t) Userret(satp uintptr) { userret(satp) }
