package dto

// SubjectRequest creates a subject.
type SubjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=20"`
	Description string `json:"description"`
}

// UpdateSubjectRequest modifies a subject.
type UpdateSubjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Code        *string `json:"code" validate:"omitempty,min=1,max=20"`
	Description *string `json:"description"`
}

// ClassRequest creates a class with its subject and teacher links.
type ClassRequest struct {
	Name       string   `json:"name" validate:"required,max=100"`
	SubjectIDs []string `json:"subjects" validate:"omitempty,dive,uuid"`
	TeacherIDs []string `json:"teachers" validate:"omitempty,dive,uuid"`
}

// UpdateClassRequest modifies a class. A nil list keeps the current links.
type UpdateClassRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=100"`
	SubjectIDs []string `json:"subjects" validate:"omitempty,dive,uuid"`
	TeacherIDs []string `json:"teachers" validate:"omitempty,dive,uuid"`
}

// StudentRequest creates a student profile for an existing student user.
type StudentRequest struct {
	UserID          string   `json:"user" validate:"required,uuid"`
	AdmissionNumber string   `json:"admission_number" validate:"required,max=20"`
	ClassID         string   `json:"class" validate:"required,uuid"`
	ParentIDs       []string `json:"parents" validate:"omitempty,dive,uuid"`
}

// UpdateStudentRequest modifies a student profile.
type UpdateStudentRequest struct {
	UserID          *string  `json:"user" validate:"omitempty,uuid"`
	AdmissionNumber *string  `json:"admission_number" validate:"omitempty,min=1,max=20"`
	ClassID         *string  `json:"class" validate:"omitempty,uuid"`
	ParentIDs       []string `json:"parents" validate:"omitempty,dive,uuid"`
}

// ParentRequest creates or reassigns a parent profile.
type ParentRequest struct {
	UserID string `json:"user" validate:"required,uuid"`
}

// ExamRequest creates an exam.
type ExamRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Term     string   `json:"term" validate:"required,max=50"`
	Year     int      `json:"year" validate:"required,gte=1900,lte=9999"`
	MaxMarks *float64 `json:"max_marks" validate:"omitempty,gt=0"`
}

// UpdateExamRequest modifies an exam.
type UpdateExamRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Term     *string  `json:"term" validate:"omitempty,min=1,max=50"`
	Year     *int     `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	MaxMarks *float64 `json:"max_marks" validate:"omitempty,gt=0"`
}

// GradeRequest records marks for a student in an exam.
type GradeRequest struct {
	StudentID string   `json:"student" validate:"required,uuid"`
	SubjectID string   `json:"subject" validate:"required,uuid"`
	ExamID    string   `json:"exam" validate:"required,uuid"`
	Marks     *float64 `json:"marks" validate:"required,gte=0,lte=100"`
	Remarks   string   `json:"remarks"`
}

// UpdateGradeRequest modifies a grade.
type UpdateGradeRequest struct {
	StudentID *string  `json:"student" validate:"omitempty,uuid"`
	SubjectID *string  `json:"subject" validate:"omitempty,uuid"`
	ExamID    *string  `json:"exam" validate:"omitempty,uuid"`
	Marks     *float64 `json:"marks" validate:"omitempty,gte=0,lte=100"`
	Remarks   *string  `json:"remarks"`
}

// AttendanceRequest records presence for a student on a date.
type AttendanceRequest struct {
	StudentID string `json:"student" validate:"required,uuid"`
	ClassID   string `json:"class" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Present   *bool  `json:"present" validate:"required"`
	Remarks   string `json:"remarks"`
}

// UpdateAttendanceRequest modifies an attendance record.
type UpdateAttendanceRequest struct {
	StudentID *string `json:"student" validate:"omitempty,uuid"`
	ClassID   *string `json:"class" validate:"omitempty,uuid"`
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Present   *bool   `json:"present"`
	Remarks   *string `json:"remarks"`
}

// TimetableRequest creates a weekly slot.
type TimetableRequest struct {
	ClassID   string `json:"class" validate:"required,uuid"`
	SubjectID string `json:"subject" validate:"required,uuid"`
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Room      string `json:"room" validate:"omitempty,max=50"`
}

// UpdateTimetableRequest modifies a weekly slot.
type UpdateTimetableRequest struct {
	ClassID   *string `json:"class" validate:"omitempty,uuid"`
	SubjectID *string `json:"subject" validate:"omitempty,uuid"`
	Day       *string `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Room      *string `json:"room" validate:"omitempty,max=50"`
}

// HomeworkRequest sets homework for a class.
type HomeworkRequest struct {
	ClassID     string `json:"class" validate:"required,uuid"`
	SubjectID   string `json:"subject" validate:"required,uuid"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Completed   bool   `json:"completed"`
}

// UpdateHomeworkRequest modifies homework.
type UpdateHomeworkRequest struct {
	ClassID     *string `json:"class" validate:"omitempty,uuid"`
	SubjectID   *string `json:"subject" validate:"omitempty,uuid"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Completed   *bool   `json:"completed"`
}

// ReportCardRequest creates a report card linking grades of the same student.
type ReportCardRequest struct {
	StudentID    string   `json:"student" validate:"required,uuid"`
	Term         string   `json:"term" validate:"required,max=50"`
	Year         int      `json:"year" validate:"required,gte=1900,lte=9999"`
	GradeIDs     []string `json:"grades" validate:"omitempty,dive,uuid"`
	OverallGrade string   `json:"overall_grade" validate:"omitempty,max=5"`
	Remarks      string   `json:"remarks"`
}

// UpdateReportCardRequest modifies a report card.
type UpdateReportCardRequest struct {
	StudentID    *string  `json:"student" validate:"omitempty,uuid"`
	Term         *string  `json:"term" validate:"omitempty,min=1,max=50"`
	Year         *int     `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	GradeIDs     []string `json:"grades" validate:"omitempty,dive,uuid"`
	OverallGrade *string  `json:"overall_grade" validate:"omitempty,max=5"`
	Remarks      *string  `json:"remarks"`
}
