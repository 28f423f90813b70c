package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/handler"
	"github.com/noah-isme/elite-academy-api/internal/middleware"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/elite-academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/elite-academy-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth              *handler.AuthHandler
	Users             *handler.UserHandler
	Settings          *handler.SettingsHandler
	Subjects          *handler.SubjectHandler
	Classes           *handler.ClassHandler
	Students          *handler.StudentHandler
	Parents           *handler.ParentHandler
	Exams             *handler.ExamHandler
	Grades            *handler.GradeHandler
	Attendance        *handler.AttendanceHandler
	Fees              *handler.FeeHandler
	Announcements     *handler.AnnouncementHandler
	Messages          *handler.MessageHandler
	Timetables        *handler.TimetableHandler
	Homework          *handler.HomeworkHandler
	LibraryItems      *handler.LibraryItemHandler
	LibraryBorrowings *handler.LibraryBorrowingHandler
	LeaveApplications *handler.LeaveHandler
	ReportCards       *handler.ReportCardHandler
	ParentFeedback    *handler.ParentFeedbackHandler
	AuditLogs         *handler.AuditLogHandler
	Health            *handler.HealthHandler
}

// Options configures the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Tokens         middleware.TokenValidator
	Metrics        middleware.RequestObserver
}

type crudHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// New builds the gin engine with the middleware chain and every route.
func New(opts Options, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", h.Health.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/" + strings.Trim(opts.APIPrefix, "/"))
	api.POST("/token/", h.Auth.Login)
	api.POST("/token/refresh/", h.Auth.Refresh)
	api.POST("/token/revoke/", h.Auth.Revoke)

	secured := api.Group("", middleware.JWT(opts.Tokens))

	secured.GET("/users/me/", h.Users.Me)
	mount(secured, models.ResourceUsers, h.Users)

	settings := secured.Group("/"+string(models.ResourceSettings), middleware.Authorize(models.ResourceSettings, ""))
	settings.GET("/", h.Settings.List)
	settings.POST("/", h.Settings.Create)
	settings.GET("/:id/", h.Settings.Get)
	settings.PUT("/:id/", h.Settings.Update)
	settings.PATCH("/:id/", h.Settings.Update)

	mount(secured, models.ResourceSubjects, h.Subjects)
	mount(secured, models.ResourceClasses, h.Classes)
	mount(secured, models.ResourceStudents, h.Students)
	mount(secured, models.ResourceParents, h.Parents)
	mount(secured, models.ResourceExams, h.Exams)
	mount(secured, models.ResourceGrades, h.Grades)
	mount(secured, models.ResourceAttendance, h.Attendance)

	fees := secured.Group("/" + string(models.ResourceFees))
	fees.GET("/export/", middleware.Authorize(models.ResourceFees, models.ActionExport), h.Fees.Export)
	fees.POST("/:id/pay/", middleware.Authorize(models.ResourceFees, models.ActionPay), h.Fees.Pay)
	mount(secured, models.ResourceFees, h.Fees)

	mount(secured, models.ResourceAnnouncements, h.Announcements)
	mount(secured, models.ResourceMessages, h.Messages)
	mount(secured, models.ResourceTimetables, h.Timetables)
	mount(secured, models.ResourceHomework, h.Homework)
	mount(secured, models.ResourceLibraryItems, h.LibraryItems)
	mount(secured, models.ResourceLibraryBorrowings, h.LibraryBorrowings)
	mount(secured, models.ResourceLeaveApplications, h.LeaveApplications)

	secured.GET("/report-cards/:id/pdf/", middleware.Authorize(models.ResourceReportCards, models.ActionRetrieve), h.ReportCards.PDF)
	mount(secured, models.ResourceReportCards, h.ReportCards)

	mount(secured, models.ResourceParentFeedback, h.ParentFeedback)

	audit := secured.Group("/"+string(models.ResourceAuditLogs), middleware.Authorize(models.ResourceAuditLogs, ""))
	audit.GET("/", h.AuditLogs.List)
	audit.GET("/:id/", h.AuditLogs.Get)

	return r
}

// mount registers the collection and item routes of resource. PUT and PATCH
// share the partial-update handler.
func mount(g *gin.RouterGroup, resource models.Resource, h crudHandler) {
	rg := g.Group("/"+string(resource), middleware.Authorize(resource, ""))
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:id/", h.Get)
	rg.PUT("/:id/", h.Update)
	rg.PATCH("/:id/", h.Update)
	rg.DELETE("/:id/", h.Delete)
}
