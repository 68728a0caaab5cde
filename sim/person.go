package sim

import "github.com/stinet-sim/stinet-sim/sim/renewal"

// HIVStatus tracks one person's HIV infection. HIV is lifelong here; there is
// no cure path.
type HIVStatus struct {
	Infected  bool
	TInfected int // simulation day of infection, -1 while uninfected
}

// TSinceInfection returns the days since infection at simulation time t.
func (s *HIVStatus) TSinceInfection(t int) int {
	if !s.Infected {
		panic("sim: HIV time since infection queried on an uninfected person")
	}
	return t - s.TInfected
}

// GonorrheaStatus tracks one person's gonorrhea infection, which can be
// symptomatic or not and cures naturally.
type GonorrheaStatus struct {
	Infected    bool
	TInfected   int
	Symptomatic bool
}

// TSinceInfection returns the days since infection at simulation time t.
func (s *GonorrheaStatus) TSinceInfection(t int) int {
	if !s.Infected {
		panic("sim: gonorrhea time since infection queried on an uninfected person")
	}
	return t - s.TInfected
}

// Infect marks the person infected as of day t.
func (s *GonorrheaStatus) Infect(t int, symptomatic bool) {
	s.Infected = true
	s.TInfected = t
	s.Symptomatic = symptomatic
}

// Cure clears the infection. TInfected resets to -1 so stale reads fail loud.
func (s *GonorrheaStatus) Cure() {
	s.Infected = false
	s.TInfected = -1
}

// Person is one member of the population. The person does not track their own
// relations; that lives solely in the relation store to avoid tedious
// syncing.
type Person struct {
	ID         int
	DayOfBirth int // may be negative for preseeded persons
	HIV        HIVStatus
	Gonorrhea  GonorrheaStatus

	// timer produces this person's relationship start ages, in days since
	// birth.
	timer *renewal.Timer
}

// NextRelationTime returns the simulation day of this person's next
// relationship start, or renewal.Never once no more will happen. Successive
// calls are non-decreasing; several calls can land on the same day.
func (p *Person) NextRelationTime() int {
	age := p.timer.Next()
	if age == renewal.Never {
		return renewal.Never
	}
	return age + p.DayOfBirth
}
