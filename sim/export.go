package sim

import (
	"fmt"
	"strings"
)

// partnerHistBins is how many partner-count bins the yearly summary prints.
const partnerHistBins = 10

// ExportResults renders the yearly population snapshot: HIV and gonorrhea
// prevalence, mean age overall versus among the HIV-positive, and the head of
// the concurrent-partner-count histogram, one bin per line.
func ExportResults(st *State) string {
	var sb strings.Builder
	sb.WriteString("Exportresults Logreport\n")

	persons := st.Persons.All()

	nHIV := 0
	nGN := 0
	totalAgeHIV := int64(0)
	totalAge := int64(0)
	partnerHist := make([]int, partnerHistBins)

	for _, p := range persons {
		age := int64(st.Time - p.DayOfBirth)
		if p.HIV.Infected {
			nHIV++
			totalAgeHIV += age
		}
		if p.Gonorrhea.Infected {
			nGN++
		}
		totalAge += age

		partners := st.Relations.CountOfPerson(p.ID)
		if partners < partnerHistBins {
			partnerHist[partners]++
		}
	}

	n := len(persons)
	avgAgeHIV := 0.0
	if nHIV > 0 {
		avgAgeHIV = float64(totalAgeHIV) / float64(nHIV) / 365
	}
	avgAge := 0.0
	if n > 0 {
		avgAge = float64(totalAge) / float64(n) / 365
	}

	fmt.Fprintf(&sb, "N_hiv_positive: %d/%d (%f%%)\n", nHIV, n, percent(nHIV, n))
	fmt.Fprintf(&sb, "N_gn_positive: %d/%d (%f%%)\n", nGN, n, percent(nGN, n))
	fmt.Fprintf(&sb, "Average age (years) (hivpos/overall): %f/%f\n", avgAgeHIV, avgAge)

	for i, count := range partnerHist {
		fmt.Fprintf(&sb, "%d\t%d\n", i, count)
	}
	sb.WriteString("\n")
	return sb.String()
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
