package domain

// Proposal is one Expert's candidate for the next action in a round.
type Proposal struct {
	Expert    int
	Action    string
	Feedback  string
	Revisions int
	// Demoted proposals exhausted their revision budget and do not vote.
	Demoted bool
}

// ProposalSet is ordered by Expert index.
type ProposalSet []Proposal

// Majority returns the proposal whose action collects the most votes. Ties go
// to the action first proposed by the lowest-indexed Expert. ok is false when
// no proposal is eligible.
func (ps ProposalSet) Majority() (Proposal, int, bool) {
	counts := make(map[string]int, len(ps))
	first := make(map[string]int, len(ps))
	order := make([]string, 0, len(ps))

	for i, p := range ps {
		if p.Demoted {
			continue
		}
		if _, seen := counts[p.Action]; !seen {
			first[p.Action] = i
			order = append(order, p.Action)
		}
		counts[p.Action]++
	}

	if len(order) == 0 {
		return Proposal{}, 0, false
	}

	best := order[0]
	for _, action := range order[1:] {
		if counts[action] > counts[best] {
			best = action
		}
	}

	return ps[first[best]], counts[best], true
}

func (ps ProposalSet) Eligible() int {
	n := 0
	for _, p := range ps {
		if !p.Demoted {
			n++
		}
	}
	return n
}

// ResponseSet remembers every accepted action of an execution. It only grows.
type ResponseSet struct {
	seen map[string]struct{}
}

func NewResponseSet() *ResponseSet {
	return &ResponseSet{seen: map[string]struct{}{}}
}

func (s *ResponseSet) Add(action string) {
	s.seen[action] = struct{}{}
}

func (s *ResponseSet) Contains(action string) bool {
	_, ok := s.seen[action]
	return ok
}

func (s *ResponseSet) Len() int {
	return len(s.seen)
}
