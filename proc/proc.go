package proc

import "sync/atomic"

import "github.com/Qiuarctica/xv6/defs"
import "github.com/Qiuarctica/xv6/mem"

// Tf_t is the part of the per-process trap frame this core reads and
// writes: the trapped pc plus what the trampoline needs to re-enter the
// kernel on the next trap. the general registers are saved and restored
// by the trampoline itself.
type Tf_t struct {
	Epc           uintptr
	Kernel_satp   uintptr
	Kernel_sp     uintptr
	Kernel_trap   uintptr
	Kernel_hartid uintptr
}

// backing store for a file mapping. Readi runs inside a Begin_op/End_op
// transaction bracket; it reads up to len(dst) bytes at off and reports
// how many were there.
type Backer_i interface {
	Begin_op()
	End_op()
	Readi(dst []uint8, off int) (int, defs.Err_t)
}

// Vma_t is one memory-mapped region slot. Valid is the only lifecycle
// marker; the mmap path (elsewhere) sets it, this core only reads slots.
// valid slots of one process never overlap.
type Vma_t struct {
	Valid bool
	Addr  uintptr
	Len   uintptr
	Prot  int
	File  Backer_i
	Off   int
}

func (v *Vma_t) contains(va uintptr) bool {
	return v.Valid && va >= v.Addr && va < v.Addr+v.Len
}

type Proc_t struct {
	Pid       defs.Pid_t
	Name      string
	Tf        Tf_t
	Pagetable mem.Pagetable_t
	Kstack    uintptr
	Vmas      [defs.NVMA]Vma_t

	// a process is marked doomed when it has been killed but may still
	// be running; the trap path notices and terminates it.
	doomed int32
}

// Vmafind returns the first valid slot containing va. slots are scanned
// linearly and the first match wins.
func (p *Proc_t) Vmafind(va uintptr) *Vma_t {
	for i := range p.Vmas {
		if p.Vmas[i].contains(va) {
			return &p.Vmas[i]
		}
	}
	return nil
}

func (p *Proc_t) Killed() bool {
	return atomic.LoadInt32(&p.doomed) != 0
}

func (p *Proc_t) Setkilled() {
	atomic.StoreInt32(&p.doomed, 1)
}
