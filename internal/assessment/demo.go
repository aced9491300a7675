package assessment

// Demo returns the sample assessment used when no snapshot file is given.
func Demo() Snapshot {
	return Snapshot{
		StudentName:        "Rahul",
		OverallStatus:      "needs-practice",
		Marks:              45,
		TotalMarks:         100,
		Percentile:         42,
		GoalPercentile:     90,
		Rank:               1245,
		TotalStudents:      3000,
		OverallAccuracy:    60,
		CorrectCount:       15,
		IncorrectCount:     10,
		UnattemptedCount:   5,
		AvgTimePerQuestion: "1m 45s",
		Subjects: []SubjectRecord{
			{
				Name:         "Physics",
				Status:       StatusWeak,
				StrongTopics: []string{"Units & Dimensions"},
				WeakTopics:   []string{"Laws of Motion", "Work & Energy"},
				Score:        8,
				TotalScore:   25,
				Accuracy:     45,
				Percentile:   32,
				TimeSpent:    "25m",
			},
			{
				Name:         "Biology",
				Status:       StatusStrong,
				StrongTopics: []string{"Cell Biology", "Genetics"},
				WeakTopics:   []string{"Plant Physiology"},
				Score:        22,
				TotalScore:   25,
				Accuracy:     92,
				Percentile:   96,
				TimeSpent:    "15m",
			},
			{
				Name:         "Chemistry",
				Status:       StatusAverage,
				StrongTopics: []string{"Periodic Table"},
				WeakTopics:   []string{"Atomic Structure"},
				Score:        12,
				TotalScore:   25,
				Accuracy:     65,
				Percentile:   68,
				TimeSpent:    "20m",
			},
			{
				Name:         "Mathematics",
				Status:       StatusWeak,
				StrongTopics: []string{"Algebra"},
				WeakTopics:   []string{"Calculus", "Trigonometry"},
				Score:        5,
				TotalScore:   25,
				Accuracy:     30,
				Percentile:   20,
				TimeSpent:    "30m",
			},
			{
				Name:         "English",
				Status:       StatusGood,
				StrongTopics: []string{"Grammar", "Reading"},
				WeakTopics:   []string{},
				Score:        20,
				TotalScore:   25,
				Accuracy:     88,
				Percentile:   85,
				TimeSpent:    "18m",
			},
		},
	}
}
