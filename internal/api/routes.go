package api

import (
	"net/http"
	"time"

	"nutriai/nutrition-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	generationTimeout time.Duration,
	generator service.PlanGenerator,
	authService service.AuthService,
	profileService service.ProfileService,
	dailyService service.DailyService,
	pantryService service.PantryService,
	communityService service.CommunityService,
) {
	planHandler := NewPlanHandler(generator, generationTimeout)
	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	dayHandler := NewDayHandler(dailyService, generationTimeout)
	pantryHandler := NewPantryHandler(pantryService)
	postHandler := NewPostHandler(communityService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Stateless generation contract used by the mobile client.
	router.POST("/create", planHandler.Create)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		me := protected.Group("/me")
		{
			me.GET("", profileHandler.GetProfile)
			me.PATCH("", profileHandler.UpdateProfile)
			me.PUT("/metrics", profileHandler.SaveBodyMetrics)
			me.POST("/avatar", profileHandler.RequestAvatarUpload)
			me.POST("/avatar/confirm", profileHandler.ConfirmAvatarUpload)
			me.GET("/avatar", profileHandler.GetAvatarURL)
		}

		// :date is YYYY-MM-DD or "today"
		days := protected.Group("/days/:date")
		{
			days.GET("", dayHandler.GetDay)
			days.POST("/plan", dayHandler.GeneratePlan)
			days.PUT("/plan", dayHandler.SavePlan)
			days.GET("/progress", dayHandler.Progress)
			days.POST("/water", dayHandler.AddWater)
			days.GET("/meals/:mealId", dayHandler.MealDetail)
			days.POST("/meals/:mealId/toggle", dayHandler.ToggleMeal)
			days.POST("/meals/:mealId/complete", dayHandler.CompleteMeal)
		}

		pantry := protected.Group("/pantry")
		{
			pantry.GET("", pantryHandler.List)
			pantry.POST("", pantryHandler.Scan)
			pantry.PATCH("/:code", pantryHandler.SetQuantity)
			pantry.DELETE("/:code", pantryHandler.Remove)
		}

		protected.GET("/products/:code", pantryHandler.ProductDetails)

		posts := protected.Group("/posts")
		{
			posts.GET("", postHandler.ListMine)
			posts.POST("", postHandler.Create)
		}
	}
}
