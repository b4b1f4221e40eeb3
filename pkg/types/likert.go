package types

// Likert is one of the six agreement-level response tokens. The token is
// written verbatim into the persisted record.
type Likert string

// Likert tokens, from least to most agreement.
const (
	StronglyDisagree Likert = "strongly_disagree"
	Disagree         Likert = "disagree"
	SomewhatDisagree Likert = "somewhat_disagree"
	SomewhatAgree    Likert = "somewhat_agree"
	Agree            Likert = "agree"
	StronglyAgree    Likert = "strongly_agree"
)

// LikertScale holds the tokens in display order.
var LikertScale = []Likert{
	StronglyDisagree,
	Disagree,
	SomewhatDisagree,
	SomewhatAgree,
	Agree,
	StronglyAgree,
}

var likertLabels = map[Likert]string{
	StronglyDisagree: "Strongly Disagree",
	Disagree:         "Disagree",
	SomewhatDisagree: "Somewhat Disagree",
	SomewhatAgree:    "Somewhat Agree",
	Agree:            "Agree",
	StronglyAgree:    "Strongly Agree",
}

// ParseLikert returns the token for s, or ErrInvalidLikert.
func ParseLikert(s string) (Likert, error) {
	l := Likert(s)
	if !l.Valid() {
		return "", ErrInvalidLikert
	}
	return l, nil
}

// Valid reports whether l is a recognized token.
func (l Likert) Valid() bool {
	_, ok := likertLabels[l]
	return ok
}

// Label returns the human-readable label, or the raw token if unrecognized.
func (l Likert) Label() string {
	if label, ok := likertLabels[l]; ok {
		return label
	}
	return string(l)
}

// Rank returns the 1-based position of l on the scale, 0 if unrecognized.
func (l Likert) Rank() int {
	for i, v := range LikertScale {
		if v == l {
			return i + 1
		}
	}
	return 0
}

func (l Likert) String() string { return string(l) }
