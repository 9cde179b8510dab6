// server/internal/api/routes/routes.go
package routes

import (
	"time"

	"hospital-management-api-server/config"
	"hospital-management-api-server/internal/api/handlers"
	"hospital-management-api-server/internal/api/middleware"
	"hospital-management-api-server/internal/pharmacy"
	"hospital-management-api-server/internal/s3"
	"hospital-management-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires the handlers and their middleware.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	jwtExpiration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	dispenseService := pharmacy.NewService(db, wsHub)

	userHandler := &handlers.UserHandler{DB: db, JWTExpiration: jwtExpiration}
	patientHandler := &handlers.PatientHandler{DB: db}
	wardHandler := &handlers.WardHandler{DB: db}
	admissionHandler := &handlers.AdmissionHandler{DB: db}
	appointmentHandler := &handlers.AppointmentHandler{DB: db}
	dialysisHandler := &handlers.DialysisHandler{DB: db}
	labHandler := &handlers.LabHandler{DB: db, S3Uploader: s3Uploader, Hub: wsHub}
	medicationHandler := &handlers.MedicationHandler{DB: db}
	prescriptionHandler := &handlers.PrescriptionHandler{DB: db}
	dispenseHandler := &handlers.DispenseHandler{Service: dispenseService}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// === ADMIN ROUTES (superadmin only) ===
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize("superadmin"))
		{
			admin.POST("/users", userHandler.CreateUser)

			wards := admin.Group("/wards")
			{
				wards.POST("/", wardHandler.CreateWard)
				wards.PUT("/:id", wardHandler.UpdateWard)
				wards.DELETE("/:id", wardHandler.DeleteWard)
			}

			machines := admin.Group("/dialysis-machines")
			{
				machines.POST("/", dialysisHandler.CreateMachine)
				machines.PUT("/:id/status", dialysisHandler.UpdateMachineStatus)
			}

			medications := admin.Group("/medications")
			{
				medications.POST("/", medicationHandler.CreateMedication)
				medications.PUT("/:id", medicationHandler.UpdateMedication)
				medications.DELETE("/:id", medicationHandler.DeactivateMedication)
			}
		}

		// === BUSINESS ROUTES (authenticated staff) ===
		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate())
		businessRoutes.Use(middleware.Authorize("doctor", "nurse", "pharmacist", "lab_technician", "superadmin"))
		{
			patients := businessRoutes.Group("/patients")
			{
				patients.POST("/", patientHandler.CreatePatient)
				patients.GET("/", patientHandler.SearchPatients)
				patients.GET("/:id", patientHandler.GetPatientByID)
				patients.PUT("/:id", patientHandler.UpdatePatient)
				patients.DELETE("/:id", patientHandler.DeactivatePatient)
				patients.GET("/:id/admissions", admissionHandler.GetAdmissionsByPatient)
				patients.GET("/:id/prescriptions", prescriptionHandler.ListPrescriptionsByPatient)
			}

			wards := businessRoutes.Group("/wards")
			{
				wards.GET("/", wardHandler.GetAllWards)
				wards.GET("/occupancy", wardHandler.GetOccupancyReport)
				wards.GET("/:id", wardHandler.GetWardByNumber)
				wards.GET("/:id/admissions", admissionHandler.GetAdmissionsByWard)
			}

			admissions := businessRoutes.Group("/admissions")
			admissions.Use(middleware.Authorize("doctor", "nurse", "superadmin"))
			{
				admissions.POST("/", admissionHandler.AdmitPatient)
				admissions.GET("/:id", admissionHandler.GetAdmissionByID)
				admissions.POST("/:id/transfer", admissionHandler.TransferPatient)
				admissions.POST("/:id/discharge", admissionHandler.DischargePatient)
			}

			appointments := businessRoutes.Group("/appointments")
			{
				appointments.POST("/", appointmentHandler.ScheduleAppointment)
				appointments.GET("/", appointmentHandler.ListAppointments)
				appointments.GET("/:id", appointmentHandler.GetAppointmentByID)
				appointments.PUT("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			}

			dialysis := businessRoutes.Group("/dialysis")
			{
				dialysis.GET("/machines", dialysisHandler.GetAllMachines)
				dialysis.GET("/sessions", dialysisHandler.ListSessions)

				sessions := dialysis.Group("/sessions")
				sessions.Use(middleware.Authorize("doctor", "nurse", "superadmin"))
				{
					sessions.POST("/", dialysisHandler.ScheduleSession)
					sessions.POST("/:id/start", dialysisHandler.StartSession)
					sessions.POST("/:id/complete", dialysisHandler.CompleteSession)
				}
			}

			lab := businessRoutes.Group("/lab-requests")
			{
				lab.GET("/", labHandler.ListLabRequests)
				lab.GET("/:id", labHandler.GetLabRequestByID)

				orderRoutes := lab.Group("/")
				orderRoutes.Use(middleware.Authorize("doctor", "superadmin"))
				{
					orderRoutes.POST("/", labHandler.CreateLabRequest)
				}

				techRoutes := lab.Group("/")
				techRoutes.Use(middleware.Authorize("lab_technician", "superadmin"))
				{
					techRoutes.POST("/:id/collect-sample", labHandler.CollectSample)
					techRoutes.POST("/:id/results", labHandler.EnterResults)
					techRoutes.POST("/:id/report", labHandler.UploadReport)
				}
			}

			medications := businessRoutes.Group("/medications")
			{
				medications.GET("/", medicationHandler.ListMedications)
				medications.GET("/low-stock", medicationHandler.ListLowStock)
				medications.GET("/dashboard", medicationHandler.GetPharmacyDashboard)
				medications.GET("/:id", medicationHandler.GetMedicationByID)

				stockRoutes := medications.Group("/:id")
				stockRoutes.Use(middleware.Authorize("pharmacist", "superadmin"))
				{
					stockRoutes.POST("/adjust-stock", medicationHandler.AdjustStock)
				}
			}

			prescriptions := businessRoutes.Group("/prescriptions")
			{
				prescriptions.GET("/:id", prescriptionHandler.GetPrescriptionByNumber)
				prescriptions.GET("/:id/dispense-requests", dispenseHandler.ListByPrescription)

				doctorRoutes := prescriptions.Group("/")
				doctorRoutes.Use(middleware.Authorize("doctor", "superadmin"))
				{
					doctorRoutes.POST("/", prescriptionHandler.CreatePrescription)
				}
			}

			dispense := businessRoutes.Group("/dispense-requests")
			{
				dispense.GET("/pending", dispenseHandler.ListPending)
				dispense.GET("/urgent", dispenseHandler.ListUrgent)
				dispense.GET("/search", dispenseHandler.SearchDispenseRequests)
				dispense.GET("/status/:status", dispenseHandler.ListByStatus)
				dispense.GET("/:id", dispenseHandler.GetDispenseRequest)

				// Wards raise requests, the pharmacy works them.
				wardRoutes := dispense.Group("/")
				wardRoutes.Use(middleware.Authorize("doctor", "nurse", "superadmin"))
				{
					wardRoutes.POST("/", dispenseHandler.CreateDispenseRequest)
				}

				pharmacistRoutes := dispense.Group("/:id")
				pharmacistRoutes.Use(middleware.Authorize("pharmacist", "superadmin"))
				{
					pharmacistRoutes.PUT("/status", dispenseHandler.UpdateDispenseStatus)
					pharmacistRoutes.POST("/dispense", dispenseHandler.Dispense)
					pharmacistRoutes.POST("/cancel", dispenseHandler.CancelDispenseRequest)
				}
			}
		}
	}

	return router
}
