package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/campusclubs/venuebook-backend/internal/authz"
	"github.com/campusclubs/venuebook-backend/internal/database"
	"github.com/campusclubs/venuebook-backend/internal/handlers"
	"github.com/campusclubs/venuebook-backend/internal/middleware"
	"github.com/campusclubs/venuebook-backend/internal/models"
	"github.com/campusclubs/venuebook-backend/internal/services"
	"github.com/campusclubs/venuebook-backend/internal/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Super-admin allowlist and stage count come from configuration,
	// never from code.
	evaluator := authz.NewEvaluator(splitList(os.Getenv("SUPER_ADMINS")))

	stages := workflow.DefaultStages
	if raw := os.Getenv("APPROVAL_STAGES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Fatalf("Invalid APPROVAL_STAGES: %q", raw)
		}
		stages = parsed
	}
	bookings := workflow.NewService(db, stages)

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	r.Static("/uploads", "/app/uploads")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/logout", handlers.Logout(db))
			protected.GET("/auth/me", handlers.Me())

			require := func(subject, action string) gin.HandlerFunc {
				return middleware.RequirePermission(evaluator, authz.Ref{Subject: subject, Action: action})
			}

			bookingRoutes := protected.Group("/bookings")
			{
				bookingRoutes.POST("", require(models.SubjectVenue, models.ActionWrite), handlers.CreateBooking(db, bookings))
				bookingRoutes.GET("", handlers.GetAllBookings(bookings))
				bookingRoutes.GET("/:id", handlers.GetBookingByID(bookings))
				bookingRoutes.PUT("/:id", require(models.SubjectVenue, models.ActionWrite), handlers.UpdateBooking(db, bookings))
				bookingRoutes.DELETE("/:id", require(models.SubjectVenue, models.ActionDelete), handlers.DeleteBooking(db, bookings))
				bookingRoutes.POST("/slots/:slotId/reschedule", require(models.SubjectVenue, models.ActionUpdate), handlers.RescheduleSlot(db, bookings))
			}

			approvals := protected.Group("/approvals")
			{
				approvals.GET("/pending", handlers.GetPendingApprovals(bookings))
				approvals.POST("/:id/approve", require(models.SubjectVenue, models.ActionApprove), handlers.ApproveBooking(db, bookings))
				approvals.POST("/:id/reject", require(models.SubjectVenue, models.ActionReject), handlers.RejectBooking(db, bookings))
				approvals.GET("/:id/history", handlers.GetApprovalHistory(bookings))
			}

			venues := protected.Group("/venues")
			{
				venues.POST("", require(models.SubjectVenue, models.ActionWrite), handlers.CreateVenue(db))
				venues.GET("", require(models.SubjectVenue, models.ActionRead), handlers.GetAllVenues(db))
				venues.GET("/:id", require(models.SubjectVenue, models.ActionRead), handlers.GetVenueByID(db))
				venues.PUT("/:id", require(models.SubjectVenue, models.ActionUpdate), handlers.UpdateVenue(db))
				venues.DELETE("/:id", require(models.SubjectVenue, models.ActionDelete), handlers.DeleteVenue(db))
				venues.POST("/:id/image", require(models.SubjectVenue, models.ActionUpdate), handlers.UploadVenueImage(db))
				venues.GET("/:id/amenities", require(models.SubjectVenue, models.ActionRead), handlers.GetVenueAmenities(db))
			}

			amenities := protected.Group("/amenities")
			{
				amenities.POST("", require(models.SubjectVenue, models.ActionWrite), handlers.CreateAmenity(db))
				amenities.GET("", require(models.SubjectVenue, models.ActionRead), handlers.GetAllAmenities(db))
				amenities.PUT("/:id", require(models.SubjectVenue, models.ActionUpdate), handlers.UpdateAmenity(db))
				amenities.DELETE("/:id", require(models.SubjectVenue, models.ActionDelete), handlers.DeleteAmenity(db))
				amenities.POST("/map", require(models.SubjectVenue, models.ActionUpdate), handlers.AddVenueAmenity(db))
				amenities.POST("/unmap", require(models.SubjectVenue, models.ActionUpdate), handlers.RemoveVenueAmenity(db))
			}

			clubs := protected.Group("/clubs")
			{
				clubs.POST("", require(models.SubjectClub, models.ActionWrite), handlers.CreateClub(db))
				clubs.GET("", handlers.GetAllClubs(db))
				clubs.GET("/mine", handlers.GetMyClubs(db))
				clubs.GET("/:id", handlers.GetClubByID(db))
				clubs.PUT("/:id", require(models.SubjectClub, models.ActionUpdate), handlers.UpdateClub(db))
				clubs.DELETE("/:id", require(models.SubjectClub, models.ActionDelete), handlers.DeleteClub(db))
				clubs.POST("/:id/image", require(models.SubjectClub, models.ActionUpdate), handlers.UploadClubImage(db))
				clubs.POST("/:id/members", require(models.SubjectClub, models.ActionUpdate), handlers.AddClubMember(db))
				clubs.GET("/:id/members", handlers.GetClubMembers(db))
				clubs.DELETE("/:id/members", require(models.SubjectClub, models.ActionUpdate), handlers.RemoveClubMember(db))
			}

			proposals := protected.Group("/proposals")
			{
				proposals.POST("", require(models.SubjectProposal, models.ActionWrite), handlers.CreateProposal(db))
				proposals.GET("", require(models.SubjectProposal, models.ActionRead), handlers.GetAllProposals(db))
				proposals.GET("/mine", handlers.GetMyProposals(db))
				proposals.GET("/:id", require(models.SubjectProposal, models.ActionRead), handlers.GetProposalByID(db))
				proposals.PUT("/:id", require(models.SubjectProposal, models.ActionUpdate), handlers.UpdateProposal(db))
				proposals.DELETE("/:id", require(models.SubjectProposal, models.ActionDelete), handlers.DeleteProposal(db))
			}

			users := protected.Group("/users")
			{
				users.GET("", require(models.SubjectUser, models.ActionRead), handlers.GetAllUsers(db))
				users.GET("/:id", require(models.SubjectUser, models.ActionRead), handlers.GetUserByID(db))
				users.PUT("/:id", require(models.SubjectUser, models.ActionUpdate), handlers.UpdateUser(db))
				users.DELETE("/:id", require(models.SubjectUser, models.ActionDelete), handlers.DeleteUser(db))
			}

			roles := protected.Group("/roles")
			{
				roles.POST("", require(models.SubjectRole, models.ActionWrite), handlers.CreateRole(db))
				roles.GET("", require(models.SubjectRole, models.ActionRead), handlers.GetAllRoles(db))
				roles.PUT("/:id", require(models.SubjectRole, models.ActionUpdate), handlers.UpdateRole(db))
				roles.DELETE("/:id", require(models.SubjectRole, models.ActionDelete), handlers.DeleteRole(db))
				roles.GET("/:id/permissions", require(models.SubjectRole, models.ActionRead), handlers.GetRolePermissions(db))
				roles.POST("/map", require(models.SubjectRole, models.ActionUpdate), handlers.MapRolePermission(db))
				roles.POST("/unmap", require(models.SubjectRole, models.ActionUpdate), handlers.UnmapRolePermission(db))
			}

			permissions := protected.Group("/permissions")
			{
				permissions.POST("", require(models.SubjectPermission, models.ActionWrite), handlers.CreatePermission(db))
				permissions.GET("", require(models.SubjectPermission, models.ActionRead), handlers.GetAllPermissions(db))
				permissions.PUT("/:id", require(models.SubjectPermission, models.ActionUpdate), handlers.UpdatePermission(db))
				permissions.DELETE("/:id", require(models.SubjectPermission, models.ActionDelete), handlers.DeletePermission(db))
			}

			reports := protected.Group("/reports")
			{
				reports.POST("", require(models.SubjectClub, models.ActionWrite), handlers.CreateReport(db))
				reports.GET("", require(models.SubjectClub, models.ActionRead), handlers.GetAllReports(db))
				reports.POST("/:id/attachments", require(models.SubjectClub, models.ActionWrite), handlers.UploadReportAttachment(db))
			}

			protected.GET("/audit-logs", require(models.SubjectAuditLog, models.ActionRead), handlers.GetAuditLogs(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
