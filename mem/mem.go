package mem

import "sync"
import "unsafe"

const PGSHIFT uint = 12
const PGSIZE int = 1 << PGSHIFT

type Pa_t uintptr
type Bytepg_t [PGSIZE]uint8

// opaque handle to a process's page table root; only the mapper
// dereferences it.
type Pagetable_t uintptr

func Pgrounddown(va uintptr) uintptr {
	return va &^ uintptr(PGSIZE-1)
}

// allocator contract consumed by the driver and the fault handler. pages
// come back zeroed; a false return means the machine is out of memory and
// the caller decides how bad that is.
type Page_i interface {
	Palloc() (*Bytepg_t, Pa_t, bool)
	Pfree(*Bytepg_t)
}

// Poolmem_t hands out pages from a fixed arena with an index freelist.
// the kernel is identity-mapped, so a page's physical address is just its
// address in the arena.
type Poolmem_t struct {
	sync.Mutex
	pgs    []Bytepg_t
	fl     []uint32
	allocs int
	frees  int
}

func Mkpool(npgs int) *Poolmem_t {
	if npgs <= 0 {
		panic("bad pool size")
	}
	pm := &Poolmem_t{}
	pm.pgs = make([]Bytepg_t, npgs)
	pm.fl = make([]uint32, 0, npgs)
	for i := npgs - 1; i >= 0; i-- {
		pm.fl = append(pm.fl, uint32(i))
	}
	return pm
}

func (pm *Poolmem_t) Palloc() (*Bytepg_t, Pa_t, bool) {
	pm.Lock()
	defer pm.Unlock()
	if len(pm.fl) == 0 {
		return nil, 0, false
	}
	idx := pm.fl[len(pm.fl)-1]
	pm.fl = pm.fl[:len(pm.fl)-1]
	pg := &pm.pgs[idx]
	for i := range pg {
		pg[i] = 0
	}
	pm.allocs++
	return pg, Pa_t(uintptr(unsafe.Pointer(pg))), true
}

func (pm *Poolmem_t) Pfree(pg *Bytepg_t) {
	pm.Lock()
	defer pm.Unlock()
	base := uintptr(unsafe.Pointer(&pm.pgs[0]))
	off := uintptr(unsafe.Pointer(pg)) - base
	if off%uintptr(PGSIZE) != 0 || int(off>>PGSHIFT) >= len(pm.pgs) {
		panic("pfree of foreign page")
	}
	idx := uint32(off >> PGSHIFT)
	for _, fi := range pm.fl {
		if fi == idx {
			panic("double free")
		}
	}
	pm.fl = append(pm.fl, idx)
	pm.frees++
}

// allocation accounting for the stat reporter.
func (pm *Poolmem_t) Pgcount() (int, int) {
	pm.Lock()
	defer pm.Unlock()
	return pm.allocs, pm.frees
}

func (pm *Poolmem_t) Free() int {
	pm.Lock()
	defer pm.Unlock()
	return len(pm.fl)
}
