package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() StudentInput {
	return StudentInput{
		HoursStudied:              20,
		Attendance:                85,
		PreviousScores:            75,
		SleepHours:                7,
		PhysicalActivity:          3,
		TutoringSessions:          2,
		MotivationLevel:           "Medium",
		LearningDisabilities:      "No",
		InternetAccess:            "Yes",
		ExtracurricularActivities: "No",
		ParentalEducationLevel:    "College",
		FamilyIncome:              "Medium",
		ParentalInvolvement:       "Medium",
		DistanceFromHome:          "Moderate",
		PeerInfluence:             "Neutral",
		SchoolType:                "Public",
		TeacherQuality:            "Medium",
		AccessToResources:         "Medium",
		Gender:                    "Female",
	}
}

func TestStudentInputValues(t *testing.T) {
	values, err := sampleInput().Values()
	require.NoError(t, err)
	require.Len(t, values, 19)

	want := map[string]float64{
		HoursStudied:              20,
		Attendance:                85,
		PreviousScores:            75,
		SleepHours:                7,
		PhysicalActivity:          3,
		TutoringSessions:          2,
		MotivationLevel:           1,
		LearningDisabilities:      0,
		InternetAccess:            1,
		ExtracurricularActivities: 0,
		ParentalEducationLevel:    1,
		FamilyIncome:              1,
		ParentalInvolvement:       1,
		DistanceFromHome:          1,
		PeerInfluence:             1,
		SchoolType:                0,
		TeacherQuality:            1,
		AccessToResources:         1,
		Gender:                    0,
	}
	assert.Equal(t, want, values)
}

func TestStudentInputValuesRejectsUnknownCategory(t *testing.T) {
	in := sampleInput()
	in.Gender = "Other"
	values, err := in.Values()
	assert.Nil(t, values)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestStudentInputValuesRejectsOutOfRange(t *testing.T) {
	in := sampleInput()
	in.Attendance = 101
	_, err := in.Values()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDefaultInputIsValid(t *testing.T) {
	_, err := DefaultInput().Values()
	assert.NoError(t, err)
}

func TestAssembleFeatures(t *testing.T) {
	values, err := sampleInput().Values()
	require.NoError(t, err)

	names := DefaultFeatureOrder()
	vector, err := AssembleFeatures(names, values)
	require.NoError(t, err)
	require.Len(t, vector, len(names))
	for i, name := range names {
		assert.Equal(t, values[name], vector[i], name)
	}
}

func TestAssembleFeaturesReorders(t *testing.T) {
	values := map[string]float64{"a": 1, "b": 2, "c": 3}
	vector, err := AssembleFeatures([]string{"c", "a", "b"}, values)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, vector)
}

func TestAssembleFeaturesMissing(t *testing.T) {
	values := map[string]float64{"a": 1}
	_, err := AssembleFeatures([]string{"a", "b"}, values)
	assert.ErrorIs(t, err, ErrMissingFeature)
	assert.Contains(t, err.Error(), "b")
}
