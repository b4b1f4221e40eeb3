package types

// Responses collects the answers for one instrument. The zero value is not
// usable; create one with NewResponses.
type Responses struct {
	instrument Instrument
	answers    map[string]Likert
}

// NewResponses returns an empty response set for in.
func NewResponses(in Instrument) *Responses {
	return &Responses{
		instrument: in,
		answers:    make(map[string]Likert, len(in.Questions)),
	}
}

// Instrument returns the instrument the responses belong to.
func (r *Responses) Instrument() Instrument {
	return r.instrument
}

// SetAnswer records value for questionID, replacing any earlier value.
// Returns ErrUnknownQuestion if questionID is not part of the instrument
// and ErrInvalidLikert if value is not a recognized token.
func (r *Responses) SetAnswer(questionID string, value Likert) error {
	if !r.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	if !value.Valid() {
		return ErrInvalidLikert
	}
	r.answers[questionID] = value
	return nil
}

// Answer returns the value recorded for questionID.
func (r *Responses) Answer(questionID string) (Likert, bool) {
	v, ok := r.answers[questionID]
	return v, ok
}

// IsComplete reports whether every question has an answer.
func (r *Responses) IsComplete() bool {
	return len(r.Missing()) == 0
}

// Missing returns the IDs of unanswered questions in question order.
func (r *Responses) Missing() []string {
	var missing []string
	for _, q := range r.instrument.Questions {
		if r.answers[q.ID] == "" {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Answered returns the number of questions with an answer.
func (r *Responses) Answered() int {
	return len(r.instrument.Questions) - len(r.Missing())
}

// ToRow returns userID followed by each answer in question order. Unset
// answers come out as empty strings.
func (r *Responses) ToRow(userID string) []string {
	row := make([]string, 0, len(r.instrument.Questions)+1)
	row = append(row, userID)
	for _, q := range r.instrument.Questions {
		row = append(row, string(r.answers[q.ID]))
	}
	return row
}

// Reset clears every answer.
func (r *Responses) Reset() {
	clear(r.answers)
}

func (r *Responses) hasQuestion(id string) bool {
	for _, q := range r.instrument.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
