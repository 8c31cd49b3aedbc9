package defs

// riscv scause values. the high bit distinguishes interrupts from
// exceptions.
const (
	SCAUSE_ECALL  uintptr = 8
	SCAUSE_IPGFLT uintptr = 0xc
	SCAUSE_LPGFLT uintptr = 0xd
	SCAUSE_SPGFLT uintptr = 0xf

	SCAUSE_SSOFT  uintptr = 0x8000000000000001
	SCAUSE_STIMER uintptr = 0x8000000000000005
	SCAUSE_SEXT   uintptr = 0x8000000000000009
)

// sstatus bits the dispatcher inspects or programs.
const (
	SSTATUS_SPP  uintptr = 1 << 8
	SSTATUS_SPIE uintptr = 1 << 5
	SSTATUS_SIE  uintptr = 1 << 1
)

// qemu virt machine irq assignments.
const (
	IRQ_UART0  = 10
	IRQ_VIRTIO = 1
	IRQ_E1000  = 33
)

// page table entry permission bits.
const (
	PTE_V uintptr = 1 << 0
	PTE_R uintptr = 1 << 1
	PTE_W uintptr = 1 << 2
	PTE_X uintptr = 1 << 3
	PTE_U uintptr = 1 << 4
)

// mmap protection bits.
const (
	PROT_READ  = 1 << 0
	PROT_WRITE = 1 << 1
	PROT_EXEC  = 1 << 2
)

// mapping slots per process.
const NVMA = 16

// ecall is a fixed-width instruction; the saved pc must be advanced past
// it before the syscall handler runs.
const ECALLLEN uintptr = 4

// timer period in mtime units; about a tenth of a second on qemu.
const TIMERCYCLES uint64 = 1000000

type Pid_t int
