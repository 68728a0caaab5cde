package sim

import (
	"io"
	"strings"
	"testing"
)

func TestExportResults_CountsAndHistogram(t *testing.T) {
	// GIVEN a small hand-built population
	st := NewState(testPack(0, 0, 0), 1, io.Discard)
	for i := 0; i < 4; i++ {
		p := st.NewPerson(-20 * 365)
		st.Persons.Insert(p)
	}
	persons := st.Persons.All()
	persons[0].HIV.Infected = true
	persons[0].HIV.TInfected = 0
	persons[1].Gonorrhea.Infect(0, true)
	st.Relations.Insert(&Relation{ID: 0, Person1ID: persons[0].ID, Person2ID: persons[1].ID})

	// WHEN exporting
	report := ExportResults(st)

	// THEN prevalences and the histogram header bins are present
	if !strings.Contains(report, "N_hiv_positive: 1/4") {
		t.Errorf("missing HIV prevalence:\n%s", report)
	}
	if !strings.Contains(report, "N_gn_positive: 1/4") {
		t.Errorf("missing GN prevalence:\n%s", report)
	}
	// Two persons have one partner, two have none.
	if !strings.Contains(report, "0\t2\n") || !strings.Contains(report, "1\t2\n") {
		t.Errorf("histogram bins wrong:\n%s", report)
	}
}

func TestExportResults_EmptyPopulation(t *testing.T) {
	st := NewState(testPack(0, 0, 0), 1, io.Discard)
	report := ExportResults(st)
	if !strings.Contains(report, "N_hiv_positive: 0/0") {
		t.Errorf("empty population export malformed:\n%s", report)
	}
}
