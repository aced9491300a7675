package assessment

// FocusSubject returns the subject that drives plan generation: the first
// subject with status weak, or the first subject when none is weak.
// ok is false when the snapshot has no subjects.
func (s Snapshot) FocusSubject() (subject SubjectRecord, ok bool) {
	if len(s.Subjects) == 0 {
		return SubjectRecord{}, false
	}
	for _, sub := range s.Subjects {
		if sub.Status == StatusWeak {
			return sub, true
		}
	}
	return s.Subjects[0], true
}

// SubjectsByStatus returns the subjects with the given status, in list order.
func (s Snapshot) SubjectsByStatus(status Status) []SubjectRecord {
	var out []SubjectRecord
	for _, sub := range s.Subjects {
		if sub.Status == status {
			out = append(out, sub)
		}
	}
	return out
}
