package ml

import (
	"fmt"
)

// StudentInput is the raw attribute set supplied by the presentation layer.
type StudentInput struct {
	HoursStudied     float64 `json:"Hours_Studied" yaml:"Hours_Studied"`
	Attendance       float64 `json:"Attendance" yaml:"Attendance"`
	PreviousScores   float64 `json:"Previous_Scores" yaml:"Previous_Scores"`
	SleepHours       float64 `json:"Sleep_Hours" yaml:"Sleep_Hours"`
	PhysicalActivity float64 `json:"Physical_Activity" yaml:"Physical_Activity"`
	TutoringSessions float64 `json:"Tutoring_Sessions" yaml:"Tutoring_Sessions"`

	MotivationLevel           string `json:"Motivation_Level" yaml:"Motivation_Level"`
	LearningDisabilities      string `json:"Learning_Disabilities" yaml:"Learning_Disabilities"`
	InternetAccess            string `json:"Internet_Access" yaml:"Internet_Access"`
	ExtracurricularActivities string `json:"Extracurricular_Activities" yaml:"Extracurricular_Activities"`
	ParentalEducationLevel    string `json:"Parental_Education_Level" yaml:"Parental_Education_Level"`
	FamilyIncome              string `json:"Family_Income" yaml:"Family_Income"`
	ParentalInvolvement       string `json:"Parental_Involvement" yaml:"Parental_Involvement"`
	DistanceFromHome          string `json:"Distance_from_Home" yaml:"Distance_from_Home"`
	PeerInfluence             string `json:"Peer_Influence" yaml:"Peer_Influence"`
	SchoolType                string `json:"School_Type" yaml:"School_Type"`
	TeacherQuality            string `json:"Teacher_Quality" yaml:"Teacher_Quality"`
	AccessToResources         string `json:"Access_to_Resources" yaml:"Access_to_Resources"`
	Gender                    string `json:"Gender" yaml:"Gender"`
}

// DefaultInput returns the initial form values: slider defaults and the first
// label of every vocabulary.
func DefaultInput() StudentInput {
	return StudentInput{
		HoursStudied:              20,
		Attendance:                85,
		PreviousScores:            75,
		SleepHours:                7,
		PhysicalActivity:          3,
		TutoringSessions:          2,
		MotivationLevel:           "Low",
		LearningDisabilities:      "No",
		InternetAccess:            "No",
		ExtracurricularActivities: "No",
		ParentalEducationLevel:    "High School",
		FamilyIncome:              "Low",
		ParentalInvolvement:       "Low",
		DistanceFromHome:          "Near",
		PeerInfluence:             "Negative",
		SchoolType:                "Public",
		TeacherQuality:            "Low",
		AccessToResources:         "Low",
		Gender:                    "Female",
	}
}

func (in StudentInput) numeric() map[string]float64 {
	return map[string]float64{
		HoursStudied:     in.HoursStudied,
		Attendance:       in.Attendance,
		PreviousScores:   in.PreviousScores,
		SleepHours:       in.SleepHours,
		PhysicalActivity: in.PhysicalActivity,
		TutoringSessions: in.TutoringSessions,
	}
}

func (in StudentInput) categorical() map[string]string {
	return map[string]string{
		MotivationLevel:           in.MotivationLevel,
		LearningDisabilities:      in.LearningDisabilities,
		InternetAccess:            in.InternetAccess,
		ExtracurricularActivities: in.ExtracurricularActivities,
		ParentalEducationLevel:    in.ParentalEducationLevel,
		FamilyIncome:              in.FamilyIncome,
		ParentalInvolvement:       in.ParentalInvolvement,
		DistanceFromHome:          in.DistanceFromHome,
		PeerInfluence:             in.PeerInfluence,
		SchoolType:                in.SchoolType,
		TeacherQuality:            in.TeacherQuality,
		AccessToResources:         in.AccessToResources,
		Gender:                    in.Gender,
	}
}

// Values validates the input and returns every attribute as a named real
// value, categoricals already encoded. Attributes are checked in declaration
// order so the first reported error is stable.
func (in StudentInput) Values() (map[string]float64, error) {
	numeric := in.numeric()
	labels := in.categorical()
	values := make(map[string]float64, len(attributes))
	for _, attr := range attributes {
		switch attr.Kind {
		case Numeric:
			v := numeric[attr.Name]
			if err := CheckNumeric(attr.Name, v); err != nil {
				return nil, err
			}
			values[attr.Name] = v
		case Categorical:
			ordinal, err := Encode(attr.Name, labels[attr.Name])
			if err != nil {
				return nil, err
			}
			values[attr.Name] = float64(ordinal)
		}
	}
	return values, nil
}

// AssembleFeatures places values in the positional order given by names.
func AssembleFeatures(names []string, values map[string]float64) ([]float64, error) {
	vector := make([]float64, len(names))
	for i, name := range names {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
		vector[i] = v
	}
	return vector, nil
}

// DefaultFeatureOrder is the column order the artifacts were fitted on.
func DefaultFeatureOrder() []string {
	names := make([]string, len(attributes))
	for i, attr := range attributes {
		names[i] = attr.Name
	}
	return names
}
