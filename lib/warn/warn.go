/*package warn collects prioritized warning messages during a run and prints
a collected report, so that repeated per-step warnings do not flood the log.*/
package warn

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Priority is recorded together with warning messages. It influences the
// display order of the report.
type Priority int

const (
	// Low priority: essentially an informative message.
	Low Priority = iota
	// Medium priority: a bug or a performance issue may affect the
	// simulation.
	Medium
	// High priority: a very serious bug or performance issue almost
	// certainly affects the simulation.
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	default:
		return "high"
	}
}

type record struct {
	topic, msg string
	priority   Priority
	count      int
}

// Manager records warnings raised anywhere in the pipeline. It is safe for
// concurrent use by tile workers.
type Manager struct {
	mu      sync.Mutex
	records map[string]*record
	order   []string
	log     *logrus.Logger
}

// NewManager creates an empty warning manager logging through log. Passing
// nil uses the logrus standard logger.
func NewManager(log *logrus.Logger) *Manager {
	if log == nil { log = logrus.StandardLogger() }
	return &Manager{ records: map[string]*record{ }, log: log }
}

// Record registers one occurrence of a warning. The first occurrence of a
// (topic, message) pair is emitted immediately; repeats only increase the
// count shown by the report.
func (m *Manager) Record(topic, msg string, p Priority) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := topic + "\x00" + msg
	if r, ok := m.records[key]; ok {
		r.count++
		if p > r.priority { r.priority = p }
		return
	}

	m.records[key] = &record{ topic, msg, p, 1 }
	m.order = append(m.order, key)
	m.log.WithFields(logrus.Fields{
		"topic": topic, "priority": p.String(),
	}).Warn(msg)
}

// Report returns the collected warnings, highest priority first, then by
// topic, with repeat counts.
func (m *Manager) Report() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, len(m.order))
	copy(keys, m.order)
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := m.records[keys[i]], m.records[keys[j]]
		if ri.priority != rj.priority { return ri.priority > rj.priority }
		return ri.topic < rj.topic
	})

	b := &strings.Builder{ }
	fmt.Fprintf(b, "Collected warnings: %d\n", len(keys))
	for _, key := range keys {
		r := m.records[key]
		fmt.Fprintf(b, "* [%s] [%s] %s", r.priority, r.topic, r.msg)
		if r.count > 1 {
			fmt.Fprintf(b, " (raised %d times)", r.count)
		}
		fmt.Fprintf(b, "\n")
	}
	return b.String()
}

// PrintReport emits the collected report through the manager's logger.
func (m *Manager) PrintReport() {
	m.log.Info(m.Report())
}
