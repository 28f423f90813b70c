package models

// Resource names a protected collection. The value doubles as the URL segment.
type Resource string

const (
	ResourceUsers             Resource = "users"
	ResourceSettings          Resource = "school-settings"
	ResourceSubjects          Resource = "subjects"
	ResourceClasses           Resource = "classes"
	ResourceStudents          Resource = "students"
	ResourceParents           Resource = "parents"
	ResourceExams             Resource = "exams"
	ResourceGrades            Resource = "grades"
	ResourceAttendance        Resource = "attendance"
	ResourceFees              Resource = "fees"
	ResourceAnnouncements     Resource = "announcements"
	ResourceMessages          Resource = "messages"
	ResourceTimetables        Resource = "timetables"
	ResourceHomework          Resource = "homework"
	ResourceLibraryItems      Resource = "library-items"
	ResourceLibraryBorrowings Resource = "library-borrowings"
	ResourceLeaveApplications Resource = "leave-applications"
	ResourceReportCards       Resource = "report-cards"
	ResourceParentFeedback    Resource = "parent-feedback"
	ResourceAuditLogs         Resource = "audit-logs"
)

// Action is an operation attempted on a resource.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionPay      Action = "pay"
	ActionExport   Action = "export"
)
