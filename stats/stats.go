package stats

import "strconv"
import "strings"
import "sync/atomic"

type Counter_t int64

func (c *Counter_t) Inc() {
	atomic.AddInt64((*int64)(c), 1)
}

func (c *Counter_t) Read() int64 {
	return atomic.LoadInt64((*int64)(c))
}

// per-irq interrupt counts, indexed by irq id.
var Nirqs [64]Counter_t

var (
	Irqs     Counter_t
	Ticks    Counter_t
	Pgfaults Counter_t
	Txpkts   Counter_t
	Txdrops  Counter_t
	Rxpkts   Counter_t
)

func String() string {
	type stat struct {
		name string
		c    *Counter_t
	}
	sts := []stat{
		{"irqs", &Irqs},
		{"ticks", &Ticks},
		{"pgfaults", &Pgfaults},
		{"txpkts", &Txpkts},
		{"txdrops", &Txdrops},
		{"rxpkts", &Rxpkts},
	}
	var sb strings.Builder
	for _, st := range sts {
		sb.WriteString("\t#" + st.name + ": " +
			strconv.FormatInt(st.c.Read(), 10) + "\n")
	}
	return sb.String()
}
