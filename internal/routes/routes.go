package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonix/salon-scheduler/internal/config"
	"github.com/salonix/salon-scheduler/internal/handlers"
	infraRepo "github.com/salonix/salon-scheduler/internal/infra/repository"
	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/notify"
	ucAppointment "github.com/salonix/salon-scheduler/internal/usecase/appointment"
	ucSeries "github.com/salonix/salon-scheduler/internal/usecase/series"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, dispatcher *notify.Dispatcher) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(bookingRepo, dispatcher)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(bookingRepo, dispatcher)
	editAppointmentUC := ucAppointment.NewEditAppointment(bookingRepo, dispatcher)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(bookingRepo)
	payAppointmentUC := ucAppointment.NewPayAppointment(bookingRepo)
	bulkCreateUC := ucAppointment.NewBulkCreateAppointments(bookingRepo, dispatcher)

	// ======================================================
	// 🧠 USE CASES — SERIES
	// ======================================================
	createSeriesUC := ucSeries.NewCreateSeries(bulkCreateUC)
	cancelAllUC := ucSeries.NewCancelAllUpcoming(bookingRepo, dispatcher)
	editUpcomingUC := ucSeries.NewEditUpcoming(bookingRepo)
	cancelOccurrenceUC := ucSeries.NewCancelOccurrence(bookingRepo, dispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	professionalHandler := handlers.NewProfessionalHandler(db)
	slotHandler := handlers.NewSlotHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		cancelAppointmentUC,
		bulkCreateUC,
	)

	salonAppointmentHandler := handlers.NewSalonAppointmentHandler(
		db,
		editAppointmentUC,
		completeAppointmentUC,
		payAppointmentUC,
	)

	seriesHandler := handlers.NewSeriesHandler(
		db,
		createSeriesUC,
		cancelAllUC,
		editUpcomingUC,
		cancelOccurrenceUC,
	)

	publicHandler := handlers.NewPublicHandler(db, bulkCreateUC)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA (X-Tenant-Slug)
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.TenantMiddleware(db))
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/slots", publicHandler.ListSlots)
			publicAPI.POST("/appointments/bulk", publicHandler.BulkCreate)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/appointments", appointmentHandler.ListMine)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.POST("/appointments/bulk", appointmentHandler.BulkCreate)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			// ------------------------------
			// SERIES
			// ------------------------------
			secured.POST("/series", seriesHandler.Create)
			secured.GET("/series/:id", seriesHandler.Get)
			secured.PATCH("/series/:id", seriesHandler.Update)
			secured.POST(
				"/series/:id/occurrences/:occurrence_id/cancel",
				seriesHandler.CancelOccurrence,
			)

			// ------------------------------
			// LADO DO SALÃO
			// ------------------------------
			salon := secured.Group("/salon")
			{
				salon.GET("/appointments", salonAppointmentHandler.List)
				salon.PATCH("/appointments/:id", salonAppointmentHandler.Edit)
				salon.PATCH("/appointments/:id/complete", salonAppointmentHandler.Complete)
				salon.PATCH("/appointments/:id/pay", salonAppointmentHandler.Pay)

				salon.GET("/services", serviceHandler.List)
				salon.POST("/services", serviceHandler.Create)
				salon.PATCH("/services/:id", serviceHandler.Update)

				salon.GET("/professionals", professionalHandler.List)
				salon.POST("/professionals", professionalHandler.Create)
				salon.PATCH("/professionals/:id", professionalHandler.Update)

				salon.GET("/slots", slotHandler.List)
				salon.POST("/slots", slotHandler.Create)
				salon.PATCH("/slots/:id", slotHandler.Update)
				salon.DELETE("/slots/:id", slotHandler.Delete)
			}
		}
	}
}
