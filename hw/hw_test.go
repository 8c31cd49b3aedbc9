package hw

import "testing"

func TestRegs(t *testing.T) {
	r := Mkregs(make([]uint32, 8))
	r.Rs(3, 0xdeadbeef)
	if r.Rl(3) != 0xdeadbeef {
		t.Fatalf("read back %#x", r.Rl(3))
	}
	if r.Rl(4) != 0 {
		t.Fatalf("untouched register reads %#x", r.Rl(4))
	}
}

func TestRegsBoundsPanics(t *testing.T) {
	r := Mkregs(make([]uint32, 8))
	defer func() {
		if recover() == nil {
			t.Fatalf("out of window access did not panic")
		}
	}()
	r.Rl(8)
}
