package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/elite-academy-api/internal/handler"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type stubTokens map[string]*models.JWTClaims

func (s stubTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubTokens{
		"admin":   {UserID: "u-admin", Role: models.RoleAdmin},
		"student": {UserID: "u-student", Role: models.RoleStudent},
		"teacher": {UserID: "u-teacher", Role: models.RoleTeacher},
	}
	h := Handlers{
		Auth:              handler.NewAuthHandler(nil),
		Users:             handler.NewUserHandler(nil),
		Settings:          handler.NewSettingsHandler(nil),
		Subjects:          handler.NewSubjectHandler(nil),
		Classes:           handler.NewClassHandler(nil),
		Students:          handler.NewStudentHandler(nil),
		Parents:           handler.NewParentHandler(nil),
		Exams:             handler.NewExamHandler(nil),
		Grades:            handler.NewGradeHandler(nil),
		Attendance:        handler.NewAttendanceHandler(nil),
		Fees:              handler.NewFeeHandler(nil),
		Announcements:     handler.NewAnnouncementHandler(nil),
		Messages:          handler.NewMessageHandler(nil),
		Timetables:        handler.NewTimetableHandler(nil),
		Homework:          handler.NewHomeworkHandler(nil),
		LibraryItems:      handler.NewLibraryItemHandler(nil),
		LibraryBorrowings: handler.NewLibraryBorrowingHandler(nil),
		LeaveApplications: handler.NewLeaveHandler(nil),
		ReportCards:       handler.NewReportCardHandler(nil),
		ParentFeedback:    handler.NewParentFeedbackHandler(nil),
		AuditLogs:         handler.NewAuditLogHandler(nil),
		Health:            handler.NewHealthHandler(nil, nil),
	}
	return New(Options{APIPrefix: "/api", Tokens: tokens}, h)
}

func request(r http.Handler, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/api/users/", "/api/users/me/", "/api/fees/export/", "/api/audit-logs/", "/api/school-settings/"} {
		assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, path, ""), path)
	}
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", ""))
}

func TestCreatorRoleDeniedBeforeHandler(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/subjects/", "student"))
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/exams/", "student"))
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "/api/audit-logs/", "student"))
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/fees/0b9c5a44-1f57-4b43-9a43-0d7ef3c1a001/pay/", "teacher"))
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "/api/fees/export/", "teacher"))
}

func TestItemRoutesRejectMalformedIDs(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusNotFound, request(r, http.MethodGet, "/api/subjects/nope/", "admin"))
	assert.Equal(t, http.StatusNotFound, request(r, http.MethodPatch, "/api/grades/nope/", "admin"))
	assert.Equal(t, http.StatusNotFound, request(r, http.MethodGet, "/api/report-cards/nope/pdf/", "admin"))
}

func TestReadOnlyCollections(t *testing.T) {
	r := newTestRouter()
	id := "0b9c5a44-1f57-4b43-9a43-0d7ef3c1a001"

	assert.Equal(t, http.StatusNotFound, request(r, http.MethodDelete, "/api/audit-logs/"+id+"/", "admin"))
	assert.Equal(t, http.StatusNotFound, request(r, http.MethodDelete, "/api/school-settings/"+id+"/", "admin"))
}
