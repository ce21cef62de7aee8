package feedback

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

const idLayout = "20060102150405"

// IDGenerator issues timestamp ids (local time to the microsecond) that never
// repeat or go backwards within a process.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now()
	micro := t.UnixMicro()
	if micro <= g.last {
		micro = g.last + 1
	}
	g.last = micro

	return formatID(time.UnixMicro(micro).In(t.Location()))
}

// Observe raises the floor so later ids sort after id. Ids that are not
// timestamp ids are ignored.
func (g *IDGenerator) Observe(id string) {
	micro, ok := parseID(id, g.now().Location())
	if !ok {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if micro > g.last {
		g.last = micro
	}
}

func formatID(t time.Time) string {
	return t.Format(idLayout) + fmt.Sprintf("%06d", t.Nanosecond()/int(time.Microsecond))
}

func parseID(id string, loc *time.Location) (int64, bool) {
	if len(id) != len(idLayout)+6 {
		return 0, false
	}
	t, err := time.ParseInLocation(idLayout, id[:len(idLayout)], loc)
	if err != nil {
		return 0, false
	}
	us, err := strconv.Atoi(id[len(idLayout):])
	if err != nil || us < 0 {
		return 0, false
	}
	return t.UnixMicro() + int64(us), true
}
