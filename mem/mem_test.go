package mem

import "testing"

func TestPallocZeroes(t *testing.T) {
	pm := Mkpool(2)
	pg, pa, ok := pm.Palloc()
	if !ok {
		t.Fatalf("empty pool")
	}
	if uintptr(pa)%uintptr(PGSIZE) != 0 {
		t.Fatalf("pa %#x not page aligned", pa)
	}
	pg[0] = 0xff
	pg[PGSIZE-1] = 0xff
	pm.Pfree(pg)
	pg2, _, _ := pm.Palloc()
	// recycling must scrub the previous owner's bytes
	if pg2[0] != 0 || pg2[PGSIZE-1] != 0 {
		t.Fatalf("recycled page not zeroed")
	}
}

func TestPallocExhaustion(t *testing.T) {
	pm := Mkpool(3)
	for i := 0; i < 3; i++ {
		if _, _, ok := pm.Palloc(); !ok {
			t.Fatalf("alloc %v failed", i+1)
		}
	}
	if _, _, ok := pm.Palloc(); ok {
		t.Fatalf("alloc from a dry pool succeeded")
	}
	if pm.Free() != 0 {
		t.Fatalf("%v pages free in a dry pool", pm.Free())
	}
}

func TestPgcount(t *testing.T) {
	pm := Mkpool(4)
	pg, _, _ := pm.Palloc()
	pm.Palloc()
	pm.Pfree(pg)
	allocs, frees := pm.Pgcount()
	if allocs != 2 || frees != 1 {
		t.Fatalf("allocs %v frees %v", allocs, frees)
	}
}

func TestDoubleFreePanics(t *testing.T) {
	pm := Mkpool(2)
	pg, _, _ := pm.Palloc()
	pm.Pfree(pg)
	defer func() {
		if recover() == nil {
			t.Fatalf("double free did not panic")
		}
	}()
	pm.Pfree(pg)
}

func TestForeignFreePanics(t *testing.T) {
	pm := Mkpool(2)
	var pg Bytepg_t
	defer func() {
		if recover() == nil {
			t.Fatalf("foreign free did not panic")
		}
	}()
	pm.Pfree(&pg)
}

func TestPgrounddown(t *testing.T) {
	if Pgrounddown(0x12345) != 0x12000 {
		t.Fatalf("got %#x", Pgrounddown(0x12345))
	}
	if Pgrounddown(0x12000) != 0x12000 {
		t.Fatalf("aligned address moved")
	}
}
