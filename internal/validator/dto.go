package validator

// StudentInput is the raw payload of a form submission or a CSV row, one string
// per import column. Fields are checked in declaration order.
type StudentInput struct {
	StudentID      string `json:"student_id" validate:"not_blank"`
	Name           string `json:"name" validate:"not_blank"`
	Age            string `json:"age" validate:"integer"`
	Email          string `json:"email"`
	Department     string `json:"department" validate:"department"`
	GPA            string `json:"gpa" validate:"decimal,gpa_range"`
	GraduationYear string `json:"graduation_year" validate:"year_yyyy"`
}

// StudentInputFromRow maps a CSV row in import column order.
func StudentInputFromRow(row []string) StudentInput {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return StudentInput{
		StudentID:      get(0),
		Name:           get(1),
		Age:            get(2),
		Email:          get(3),
		Department:     get(4),
		GPA:            get(5),
		GraduationYear: get(6),
	}
}

// StudentRules holds the configurable parts of the student validation rules.
type StudentRules struct {
	Departments []string
	MinGPA      float64
	MaxGPA      float64
}
