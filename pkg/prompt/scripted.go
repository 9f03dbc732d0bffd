package prompt

// Call records one question asked of a Scripted prompter.
type Call struct {
	Kind    string // text, yesno, choice
	Label   string
	Default string
}

// Scripted answers prompts from a fixed list, in order. An empty answer, or
// running out of answers, selects the default. Answers that cannot be
// interpreted are consumed and the question is asked again, like an operator
// retyping.
type Scripted struct {
	answers []string
	Calls   []Call
}

// NewScripted creates a prompter that replies with answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Remaining returns the number of unused answers.
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

func (s *Scripted) next() (string, bool) {
	if len(s.answers) == 0 {
		return "", false
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, true
}

// Text implements Prompter.
func (s *Scripted) Text(label, def string) (string, error) {
	s.Calls = append(s.Calls, Call{Kind: "text", Label: label, Default: def})
	if a, ok := s.next(); ok && a != "" {
		return a, nil
	}
	return def, nil
}

// YesNo implements Prompter.
func (s *Scripted) YesNo(label string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	for {
		s.Calls = append(s.Calls, Call{Kind: "yesno", Label: label, Default: d})
		a, ok := s.next()
		if !ok || a == "" {
			return def, nil
		}
		if v, ok := ParseYesNo(a); ok {
			return v, nil
		}
	}
}

// Choice implements Prompter.
func (s *Scripted) Choice(label string, options []Option, def string) (string, error) {
	for {
		s.Calls = append(s.Calls, Call{Kind: "choice", Label: label, Default: def})
		a, ok := s.next()
		if !ok || a == "" {
			return def, nil
		}
		if _, found := FindOption(options, a); found {
			return a, nil
		}
	}
}

var _ Prompter = (*Scripted)(nil)
