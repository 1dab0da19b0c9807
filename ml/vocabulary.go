package ml

import (
	"fmt"
	"math"
)

// AttributeKind tells numeric attributes from categorical ones.
type AttributeKind string

const (
	Numeric     AttributeKind = "numeric"
	Categorical AttributeKind = "categorical"
)

// Attribute is one named input dimension. Labels are ordered; a label's index
// is its encoded value.
type Attribute struct {
	Name   string        `json:"name" yaml:"name"`
	Kind   AttributeKind `json:"kind" yaml:"kind"`
	Min    float64       `json:"min,omitempty" yaml:"min,omitempty"`
	Max    float64       `json:"max,omitempty" yaml:"max,omitempty"`
	Labels []string      `json:"labels,omitempty" yaml:"labels,omitempty"`
}

const (
	HoursStudied              = "Hours_Studied"
	Attendance                = "Attendance"
	PreviousScores            = "Previous_Scores"
	SleepHours                = "Sleep_Hours"
	PhysicalActivity          = "Physical_Activity"
	TutoringSessions          = "Tutoring_Sessions"
	MotivationLevel           = "Motivation_Level"
	LearningDisabilities      = "Learning_Disabilities"
	InternetAccess            = "Internet_Access"
	ExtracurricularActivities = "Extracurricular_Activities"
	ParentalEducationLevel    = "Parental_Education_Level"
	FamilyIncome              = "Family_Income"
	ParentalInvolvement       = "Parental_Involvement"
	DistanceFromHome          = "Distance_from_Home"
	PeerInfluence             = "Peer_Influence"
	SchoolType                = "School_Type"
	TeacherQuality            = "Teacher_Quality"
	AccessToResources         = "Access_to_Resources"
	Gender                    = "Gender"
)

var (
	lowMediumHigh = []string{"Low", "Medium", "High"}
	noYes         = []string{"No", "Yes"}
)

// attributes must stay identical to the encoding the fitted models were
// trained against.
var attributes = []Attribute{
	{Name: HoursStudied, Kind: Numeric, Min: 0, Max: 50},
	{Name: Attendance, Kind: Numeric, Min: 0, Max: 100},
	{Name: PreviousScores, Kind: Numeric, Min: 0, Max: 100},
	{Name: SleepHours, Kind: Numeric, Min: 0, Max: 12},
	{Name: PhysicalActivity, Kind: Numeric, Min: 0, Max: 20},
	{Name: TutoringSessions, Kind: Numeric, Min: 0, Max: 20},
	{Name: MotivationLevel, Kind: Categorical, Labels: lowMediumHigh},
	{Name: LearningDisabilities, Kind: Categorical, Labels: noYes},
	{Name: InternetAccess, Kind: Categorical, Labels: noYes},
	{Name: ExtracurricularActivities, Kind: Categorical, Labels: noYes},
	{Name: ParentalEducationLevel, Kind: Categorical, Labels: []string{"High School", "College", "Postgraduate"}},
	{Name: FamilyIncome, Kind: Categorical, Labels: lowMediumHigh},
	{Name: ParentalInvolvement, Kind: Categorical, Labels: lowMediumHigh},
	{Name: DistanceFromHome, Kind: Categorical, Labels: []string{"Near", "Moderate", "Far"}},
	{Name: PeerInfluence, Kind: Categorical, Labels: []string{"Negative", "Neutral", "Positive"}},
	{Name: SchoolType, Kind: Categorical, Labels: []string{"Public", "Private"}},
	{Name: TeacherQuality, Kind: Categorical, Labels: lowMediumHigh},
	{Name: AccessToResources, Kind: Categorical, Labels: lowMediumHigh},
	{Name: Gender, Kind: Categorical, Labels: []string{"Female", "Male"}},
}

var attributeIndex = func() map[string]int {
	index := make(map[string]int, len(attributes))
	for i, attr := range attributes {
		index[attr.Name] = i
	}
	return index
}()

// Vocabulary returns a copy of the declared attribute table in its
// declaration order.
func Vocabulary() []Attribute {
	out := make([]Attribute, len(attributes))
	for i, attr := range attributes {
		out[i] = attr
		if attr.Labels != nil {
			out[i].Labels = append([]string(nil), attr.Labels...)
		}
	}
	return out
}

// LookupAttribute returns the declared attribute with the given name.
func LookupAttribute(name string) (Attribute, bool) {
	i, ok := attributeIndex[name]
	if !ok {
		return Attribute{}, false
	}
	return attributes[i], true
}

// Encode returns the ordinal position of label in the attribute's vocabulary.
func Encode(attribute, label string) (int, error) {
	i, ok := attributeIndex[attribute]
	if !ok || attributes[i].Kind != Categorical {
		return 0, fmt.Errorf("%w: %q is not a categorical attribute", ErrUnknownCategory, attribute)
	}
	for ordinal, candidate := range attributes[i].Labels {
		if candidate == label {
			return ordinal, nil
		}
	}
	return 0, fmt.Errorf("%w: %q for %s (want one of %q)", ErrUnknownCategory, label, attribute, attributes[i].Labels)
}

// CheckNumeric validates value against the attribute's declared bounds.
func CheckNumeric(attribute string, value float64) error {
	attr, ok := LookupAttribute(attribute)
	if !ok || attr.Kind != Numeric {
		return fmt.Errorf("%w: %q is not a numeric attribute", ErrMissingFeature, attribute)
	}
	if math.IsNaN(value) || value < attr.Min || value > attr.Max {
		return fmt.Errorf("%w: %s=%v (want %v..%v)", ErrOutOfRange, attribute, value, attr.Min, attr.Max)
	}
	return nil
}
