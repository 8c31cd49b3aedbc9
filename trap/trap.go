package trap

import "fmt"

import "github.com/Qiuarctica/xv6/defs"
import "github.com/Qiuarctica/xv6/mem"
import "github.com/Qiuarctica/xv6/proc"
import "github.com/Qiuarctica/xv6/stats"
import "github.com/Qiuarctica/xv6/vm"

// Csr_i is the trapped context: the supervisor csr state of the hart the
// trap arrived on. the real implementation is a thin asm shim in the port
// layer; tests substitute a fake, which is what keeps the dispatcher a
// pure classify-and-route function.
type Csr_i interface {
	Scause() uintptr
	W_scause(uintptr)
	Sepc() uintptr
	W_sepc(uintptr)
	Sstatus() uintptr
	W_sstatus(uintptr)
	Stval() uintptr
	W_stvec(uintptr)
	Satp() uintptr
	Intr_on()
	Intr_off()
	Intr_get() bool
	Cpuid() int
	Rtime() uint64
	W_stimecmp(uint64)
	// switch to the user page table and sret; does not return.
	Userret(satp uintptr)
}

// interrupt controller contract: at most one outstanding claim per
// device; complete exactly once per nonzero claim.
type Intctrl_i interface {
	Claim(hart int) uint32
	Complete(hart int, irq uint32)
}

type Sched_i interface {
	// the process running on this hart, nil if none.
	Current() *proc.Proc_t
	Yield()
	// terminate p; as seen from the trap path this never returns into
	// p's context.
	Exit(p *proc.Proc_t, status int)
}

type Syscall_i interface {
	Syscall(p *proc.Proc_t)
}

// closed trap cause variant shared by the user and kernel entries.
type ttype_t int

const (
	TUNKNOWN ttype_t = iota
	TSYSCALL
	TDEV
	TTIMER
	TPGFAULT
)

func classify(scause uintptr) ttype_t {
	switch scause {
	case defs.SCAUSE_ECALL:
		return TSYSCALL
	case defs.SCAUSE_SEXT:
		return TDEV
	case defs.SCAUSE_STIMER:
		return TTIMER
	case defs.SCAUSE_IPGFLT, defs.SCAUSE_LPGFLT, defs.SCAUSE_SPGFLT:
		return TPGFAULT
	}
	return TUNKNOWN
}

const nirqs = 64

// Trapdisp_t routes every trap to the syscall, device, timer or page
// fault path. one per machine, built at boot.
type Trapdisp_t struct {
	csr   Csr_i
	ic    Intctrl_i
	sched Sched_i
	sys   Syscall_i
	mp    vm.Mapper_i
	pm    mem.Page_i
	ticks *Ticks_t

	// device interrupt entries by irq id
	handlers [nirqs]func()

	// trampoline targets for the user return path
	uservec   uintptr
	kernelvec uintptr
	utrapent  uintptr
}

func Mkdisp(csr Csr_i, ic Intctrl_i, sched Sched_i, sys Syscall_i,
	mp vm.Mapper_i, pm mem.Page_i) *Trapdisp_t {
	return &Trapdisp_t{
		csr:   csr,
		ic:    ic,
		sched: sched,
		sys:   sys,
		mp:    mp,
		pm:    pm,
		ticks: Mkticks(),
	}
}

func (t *Trapdisp_t) Setvecs(uservec, kernelvec, utrapent uintptr) {
	t.uservec = uservec
	t.kernelvec = kernelvec
	t.utrapent = utrapent
}

func (t *Trapdisp_t) Sethandler(irq uint32, h func()) {
	if irq == 0 || irq >= nirqs {
		panic("bad irq")
	}
	t.handlers[irq] = h
}

func (t *Trapdisp_t) Ticks() *Ticks_t {
	return t.ticks
}

// Inithart points this hart's trap vector at the kernel entry and arms
// the first timer deadline.
func (t *Trapdisp_t) Inithart() {
	t.csr.W_stvec(t.kernelvec)
	t.csr.W_stimecmp(t.csr.Rtime() + defs.TIMERCYCLES)
}

// Usertrap handles an interrupt, exception or syscall from user space.
func (t *Trapdisp_t) Usertrap(p *proc.Proc_t) {
	if t.csr.Sstatus()&defs.SSTATUS_SPP != 0 {
		panic("usertrap: not from user mode")
	}

	// traps from here on are kernel traps with their own recovery
	// rules; retarget the vector before anything can fault.
	t.csr.W_stvec(t.kernelvec)

	p.Tf.Epc = t.csr.Sepc()
	scause := t.csr.Scause()
	timer := false

	switch classify(scause) {
	case TSYSCALL:
		if p.Killed() {
			t.sched.Exit(p, -1)
			return
		}
		// sepc points at the ecall instruction; return past it.
		// must happen before the handler runs so that a fault
		// inside the handler sees the post-call pc.
		p.Tf.Epc += defs.ECALLLEN
		// scause/sepc/sstatus are copied out; interrupts are safe
		// again.
		t.csr.Intr_on()
		t.sys.Syscall(p)
	case TDEV:
		t.extintr()
	case TTIMER:
		t.clockintr()
		timer = true
	case TPGFAULT:
		if err := vm.Pgfault(t.mp, t.pm, p, t.csr.Stval(), scause); err != 0 {
			fmt.Printf("usertrap(): page fault scause %#x pid=%d\n",
				scause, p.Pid)
			fmt.Printf("            sepc=%#x stval=%#x\n",
				t.csr.Sepc(), t.csr.Stval())
			p.Setkilled()
		}
	default:
		fmt.Printf("usertrap(): unexpected scause %#x pid=%d\n",
			scause, p.Pid)
		fmt.Printf("            sepc=%#x stval=%#x\n",
			t.csr.Sepc(), t.csr.Stval())
		p.Setkilled()
	}

	if p.Killed() {
		t.sched.Exit(p, -1)
		return
	}

	// preemption: give up the hart on a timer tick.
	if timer {
		t.sched.Yield()
	}

	t.Usertrapret(p)
}

// Usertrapret performs the return to user space.
func (t *Trapdisp_t) Usertrapret(p *proc.Proc_t) {
	// the trap destination switches back to the user vector; stale
	// interrupts must not arrive at it while still in the kernel.
	t.csr.Intr_off()
	t.csr.W_stvec(t.uservec)

	// what the trampoline needs the next time this process traps.
	p.Tf.Kernel_satp = t.csr.Satp()
	p.Tf.Kernel_sp = p.Kstack + uintptr(mem.PGSIZE)
	p.Tf.Kernel_trap = t.utrapent
	p.Tf.Kernel_hartid = uintptr(t.csr.Cpuid())

	// sret destination: user mode, interrupts on.
	x := t.csr.Sstatus()
	x &^= defs.SSTATUS_SPP
	x |= defs.SSTATUS_SPIE
	t.csr.W_sstatus(x)
	t.csr.W_sepc(p.Tf.Epc)

	t.csr.Userret(uintptr(p.Pagetable))
}

// Kerneltrap handles interrupts and exceptions arriving while in
// supervisor mode.
func (t *Trapdisp_t) Kerneltrap() {
	sepc := t.csr.Sepc()
	sstatus := t.csr.Sstatus()
	scause := t.csr.Scause()

	if sstatus&defs.SSTATUS_SPP == 0 {
		panic("kerneltrap: not from supervisor mode")
	}
	if t.csr.Intr_get() {
		panic("kerneltrap: interrupts enabled")
	}

	switch classify(scause) {
	case TDEV:
		t.extintr()
	case TTIMER:
		t.clockintr()
		if t.sched.Current() != nil {
			t.sched.Yield()
		}
	default:
		// nothing to blame but the kernel itself
		fmt.Printf("scause=%#x sepc=%#x stval=%#x\n",
			scause, sepc, t.csr.Stval())
		panic("kerneltrap")
	}

	// yielding may have trapped on another path and clobbered these;
	// restore them for the sret back into the interrupted stream.
	t.csr.W_sepc(sepc)
	t.csr.W_sstatus(sstatus)
	t.csr.W_scause(scause)
}

// extintr claims one pending device interrupt from the controller,
// dispatches it to the owning driver's entry, and completes the claim
// exactly once.
func (t *Trapdisp_t) extintr() {
	hart := t.csr.Cpuid()
	irq := t.ic.Claim(hart)
	if irq == 0 {
		// another hart got there first
		return
	}
	stats.Irqs.Inc()
	if irq < nirqs && t.handlers[irq] != nil {
		stats.Nirqs[irq].Inc()
		t.handlers[irq]()
	} else {
		fmt.Printf("unexpected interrupt irq=%d\n", irq)
	}
	t.ic.Complete(hart, irq)
}

// clockintr rearms the next timer deadline; one designated hart advances
// the shared tick counter so simultaneous timer interrupts count once.
func (t *Trapdisp_t) clockintr() {
	if t.csr.Cpuid() == 0 {
		t.ticks.Tick()
	}
	t.csr.W_stimecmp(t.csr.Rtime() + defs.TIMERCYCLES)
}
