package models

type StudentStatus string

const (
	StatusPass StudentStatus = "PASS"
	StatusFail StudentStatus = "FAIL"
)

// DefaultPassThreshold is the GPA below which a student is classified FAIL.
const DefaultPassThreshold = 2.2

// DefaultDepartments is the department set used when none is configured.
var DefaultDepartments = []string{"Mathematics", "Chemistry", "Physics", "Computer Science", "Biology"}

type Student struct {
	ID             uint          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	StudentID      string        `json:"student_id" gorm:"column:student_id;not null;unique"`
	Name           string        `json:"name" gorm:"column:name;not null"`
	Age            int           `json:"age" gorm:"column:age"`
	Email          string        `json:"email" gorm:"column:email"`
	Department     string        `json:"department" gorm:"column:department"`
	GPA            float64       `json:"gpa" gorm:"column:gpa"`
	GraduationYear int           `json:"graduation_year" gorm:"column:graduation_year"`
	Status         StudentStatus `json:"status" gorm:"column:status"`
}

func (Student) TableName() string {
	return "student"
}

// DeriveStatus classifies a GPA against the pass threshold. The comparison is
// strict, so a GPA equal to the threshold passes.
func DeriveStatus(gpa, threshold float64) StudentStatus {
	if gpa < threshold {
		return StatusFail
	}
	return StatusPass
}

// IsPassing reports whether the stored status is PASS.
func (s *Student) IsPassing() bool {
	return s.Status == StatusPass
}
