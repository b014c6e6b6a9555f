package models

// SubjectType labels a subject in the timetable summary.
type SubjectType string

const (
	SubjectTypeLab    SubjectType = "Lab"
	SubjectTypeTheory SubjectType = "Theory"
)

// Subject is a schedulable unit: one faculty teaching one subject to one section.
type Subject struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Faculty        string `json:"faculty"`
	Year           string `json:"year"`
	Section        string `json:"section"`
	LectureHours   int    `json:"lectureHours"`
	PracticalHours int    `json:"practicalHours"`
	TotalLoad      int    `json:"totalLoad"`
	IsLab          bool   `json:"isLab"`
}

// RequiredHours returns the weekly hours the builder tries to place.
func (s Subject) RequiredHours() int {
	if s.IsLab {
		return s.PracticalHours
	}
	return s.LectureHours
}

// Type reports whether the subject is scheduled as a lab or theory class.
func (s Subject) Type() SubjectType {
	if s.IsLab {
		return SubjectTypeLab
	}
	return SubjectTypeTheory
}

// Summary projects the subject into its timetable summary entry.
func (s Subject) Summary() SubjectSummary {
	return SubjectSummary{
		Code:    s.Code,
		Name:    s.Name,
		Faculty: s.Faculty,
		Section: s.Section,
		Type:    s.Type(),
	}
}

// SubjectSummary is the flat per-subject listing returned with a timetable.
type SubjectSummary struct {
	Code    string      `json:"code"`
	Name    string      `json:"name"`
	Faculty string      `json:"faculty"`
	Section string      `json:"section"`
	Type    SubjectType `json:"type"`
}
