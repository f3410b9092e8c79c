package warn

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietManager() *Manager {
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	return NewManager(log)
}

func TestRecordDeduplicates(t *testing.T) {
	m := quietManager()
	m.Record("Particles", "Species electron lost 5 particles.", Medium)
	m.Record("Particles", "Species electron lost 5 particles.", Medium)
	m.Record("Particles", "Species electron lost 5 particles.", Medium)

	report := m.Report()
	if !strings.Contains(report, "Collected warnings: 1\n") {
		t.Errorf("Expected 1 collected warning, got:\n%s", report)
	}
	if !strings.Contains(report, "(raised 3 times)") {
		t.Errorf("Expected a repeat count of 3, got:\n%s", report)
	}
}

func TestRecordKeepsHighestPriority(t *testing.T) {
	m := quietManager()
	m.Record("Performance", "Tile load is unbalanced.", Low)
	m.Record("Performance", "Tile load is unbalanced.", High)

	if !strings.Contains(m.Report(), "* [high] [Performance]") {
		t.Errorf("Expected a repeat at higher priority to upgrade the record, got:\n%s",
			m.Report())
	}
}

func TestReportOrder(t *testing.T) {
	m := quietManager()
	m.Record("ZTopic", "Informative note.", Low)
	m.Record("BTopic", "Serious problem.", High)
	m.Record("ATopic", "Serious problem.", High)

	report := m.Report()
	iz := strings.Index(report, "ZTopic")
	ib := strings.Index(report, "BTopic")
	ia := strings.Index(report, "ATopic")
	if ia < 0 || ib < 0 || iz < 0 {
		t.Fatalf("Expected every topic in the report, got:\n%s", report)
	}
	// High priority first, ties broken by topic.
	if !(ia < ib && ib < iz) {
		t.Errorf("Expected order ATopic, BTopic, ZTopic, got:\n%s", report)
	}
}

func TestDistinctMessagesSameTopic(t *testing.T) {
	m := quietManager()
	m.Record("Particles", "Species electron lost 5 particles.", Medium)
	m.Record("Particles", "Species proton lost 2 particles.", Medium)

	if !strings.Contains(m.Report(), "Collected warnings: 2\n") {
		t.Errorf("Expected 2 collected warnings, got:\n%s", m.Report())
	}
}
