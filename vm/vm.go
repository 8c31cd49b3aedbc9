package vm

import "fmt"

import "github.com/Qiuarctica/xv6/defs"
import "github.com/Qiuarctica/xv6/mem"
import "github.com/Qiuarctica/xv6/proc"
import "github.com/Qiuarctica/xv6/stats"

// page table collaborator. installs a mapping for [va, va+size) with the
// given pte permission bits; never called twice for the same page here.
type Mapper_i interface {
	Mappages(pt mem.Pagetable_t, va uintptr, size int, pa mem.Pa_t,
		perm uintptr) defs.Err_t
}

// pte permission bits for a user mapping with the given PROT_ mask.
func Prot2pte(prot int) uintptr {
	perm := defs.PTE_U
	if prot&defs.PROT_READ != 0 {
		perm |= defs.PTE_R
	}
	if prot&defs.PROT_WRITE != 0 {
		perm |= defs.PTE_W
	}
	if prot&defs.PROT_EXEC != 0 {
		perm |= defs.PTE_X
	}
	return perm
}

// the access kind of a faulting scause must be permitted by the vma.
func protok(vma *proc.Vma_t, scause uintptr) bool {
	switch scause {
	case defs.SCAUSE_LPGFLT:
		return vma.Prot&defs.PROT_READ != 0
	case defs.SCAUSE_SPGFLT:
		return vma.Prot&defs.PROT_WRITE != 0
	case defs.SCAUSE_IPGFLT:
		return vma.Prot&defs.PROT_EXEC != 0
	}
	return false
}

// Pgfault lazily materializes one page for a demand-paged mapping. va is
// the faulting address and scause the fault kind. a non-zero return means
// the fault is not recoverable and the process must die; no page is left
// mapped or allocated in that case.
func Pgfault(mp Mapper_i, pm mem.Page_i, p *proc.Proc_t, va uintptr,
	scause uintptr) defs.Err_t {
	stats.Pgfaults.Inc()

	vma := p.Vmafind(va)
	if vma == nil {
		return defs.EFAULT
	}
	if !protok(vma, scause) {
		return defs.EACCES
	}

	pg, pa, ok := pm.Palloc()
	if !ok {
		fmt.Printf("pgfault: out of pages, pid=%d\n", p.Pid)
		return defs.ENOMEM
	}

	pgva := mem.Pgrounddown(va)
	if vma.File != nil {
		// fill from the backing file; bytes past EOF stay zero.
		foff := int(pgva-vma.Addr) + vma.Off
		f := vma.File
		f.Begin_op()
		_, err := f.Readi(pg[:], foff)
		f.End_op()
		if err != 0 {
			pm.Pfree(pg)
			fmt.Printf("pgfault: file read failed, pid=%d\n", p.Pid)
			return defs.EIO
		}
	}

	perm := Prot2pte(vma.Prot)
	if err := mp.Mappages(p.Pagetable, pgva, mem.PGSIZE, pa, perm); err != 0 {
		pm.Pfree(pg)
		fmt.Printf("pgfault: mappages failed, pid=%d\n", p.Pid)
		return err
	}
	return 0
}
