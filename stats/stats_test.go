package stats

import "strings"
import "testing"

func TestCounter(t *testing.T) {
	var c Counter_t
	c.Inc()
	c.Inc()
	if c.Read() != 2 {
		t.Fatalf("counter reads %v", c.Read())
	}
	Nirqs[33].Inc()
	if Nirqs[33].Read() != 1 {
		t.Fatalf("per-irq counter reads %v", Nirqs[33].Read())
	}
}

func TestString(t *testing.T) {
	Pgfaults.Inc()
	s := String()
	if !strings.Contains(s, "#pgfaults: ") {
		t.Fatalf("report missing pgfaults: %q", s)
	}
	if !strings.Contains(s, "#rxpkts: ") {
		t.Fatalf("report missing rxpkts: %q", s)
	}
}
