package routes

import (
	"time"

	"grant-portal-api/controllers"
	"grant-portal-api/middleware"
	"grant-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", middleware.RateLimit(10, time.Minute), controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Invitation acceptance (token from the emailed link)
			public.POST("/invitations/:token/accept", controllers.AcceptInvitation)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Grant Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// In-app notifications (all authenticated users)
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetUnreadNotificationCount)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
				notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Proposals (researchers submit, owners and admins read)
			proposals := protected.Group("/proposals")
			{
				proposals.POST("", middleware.RequireRole(models.RoleResearcher), controllers.CreateProposal)
				proposals.GET("", middleware.RequireRole(models.RoleResearcher), controllers.GetMyProposals)
				proposals.GET("/:id", controllers.GetProposal)

				// Autosaved form drafts
				proposals.PUT("/drafts/:form_key", middleware.RequireRole(models.RoleResearcher), controllers.SaveProposalDraft)
				proposals.GET("/drafts/:form_key", middleware.RequireRole(models.RoleResearcher), controllers.GetProposalDraft)
				proposals.DELETE("/drafts/:form_key", middleware.RequireRole(models.RoleResearcher), controllers.DeleteProposalDraft)

				// Stage gates and stage submissions (owner only)
				proposals.GET("/:id/full-proposal", controllers.GetFullProposalStatus)
				proposals.POST("/:id/full-proposal", middleware.RequireRole(models.RoleResearcher), controllers.SubmitFullProposal)
				proposals.GET("/:id/final-submission", controllers.GetFinalSubmissionStatus)
				proposals.POST("/:id/final-submission", middleware.RequireRole(models.RoleResearcher), controllers.SubmitFinalSubmission)
			}

			// Reviews (reviewers and admins)
			reviews := protected.Group("/reviews")
			reviews.Use(middleware.RequireRole(models.RoleReviewer, models.RoleAdmin))
			{
				reviews.GET("/rubric", controllers.GetRubric)
				reviews.GET("", controllers.GetMyReviews)
				reviews.GET("/:id", controllers.GetReview)
				reviews.PUT("/:id/progress", controllers.SaveReviewProgress)
				reviews.POST("/:id/submit", controllers.SubmitReview)
			}

			// Admin-only surface
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				// Proposal oversight
				admin.GET("/proposals", controllers.GetAdminProposals)
				admin.POST("/proposals/:id/archive", controllers.ToggleProposalArchive)
				admin.GET("/proposals/:id/history", controllers.GetProposalStatusHistory)
				admin.GET("/proposals/faculties", controllers.GetFacultiesWithProposals)

				// Review assignment
				admin.POST("/proposals/:id/reviews", controllers.AssignReviewers)
				admin.GET("/proposals/:id/reviewers/eligible", controllers.GetEligibleReviewers)
				admin.GET("/proposals/:id/reviews", controllers.GetProposalReviewDetails)
				admin.POST("/reviews/:id/reassign", controllers.ReassignReview)

				// Funding decisions
				admin.GET("/decisions", controllers.GetProposalsForDecision)
				admin.POST("/decisions/:id", controllers.DecideProposal)
				admin.POST("/decisions/notify", controllers.NotifyApplicants)
				admin.GET("/decisions/export", controllers.ExportDecisionsReport)

				// Full-proposal stage
				admin.GET("/full-proposals", controllers.GetFullProposalsForDecision)
				admin.POST("/full-proposals/:id/score", controllers.AssignFullProposalScore)
				admin.PUT("/full-proposals/:id/score", controllers.EditFullProposalScore)
				admin.PUT("/full-proposals/:id/status", controllers.UpdateFullProposalStatus)
				admin.POST("/full-proposals/notify", controllers.NotifyFullProposalApplicants)

				// Final-submission stage
				admin.GET("/final-submissions", controllers.GetFinalSubmissionsForDecision)
				admin.PUT("/final-submissions/:id/status", controllers.UpdateFinalSubmissionStatus)
				admin.POST("/final-submissions/notify", controllers.NotifyFinalSubmissionApplicants)

				// Reviewer onboarding
				admin.GET("/reviewers", controllers.GetAllReviewers)
				admin.POST("/reviewers/invitations", controllers.InviteReviewer)
				admin.POST("/reviewers/invitations/:id/resend", controllers.ResendReviewerInvitation)
				admin.POST("/reviewers/profile", controllers.AddReviewerProfile)
				admin.DELETE("/reviewers/:id", controllers.DeleteReviewer)

				// Researcher credentials
				admin.POST("/researchers/:id/credentials", controllers.SendResearcherCredentials)
				admin.POST("/researchers/:id/credentials/resend", controllers.ResendResearcherCredentials)

				// Analytics
				admin.GET("/analytics/faculties/submissions", controllers.GetFacultySubmissionAnalytics)
				admin.GET("/analytics/approved-awards", controllers.GetApprovedAwardAnalytics)
				admin.GET("/analytics/approved-full-proposals", controllers.GetApprovedFullProposalAnalytics)
			}
		}
	}
}
