package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"crmestate_backend/internal/controller"
	"crmestate_backend/internal/middleware"
	"crmestate_backend/internal/model"
	"crmestate_backend/pkg/config"
	"crmestate_backend/pkg/cron"
	"crmestate_backend/pkg/database"
	"crmestate_backend/pkg/email"
	"crmestate_backend/pkg/seed"
	"crmestate_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public catalog
	catalog := api.Group("/catalog")
	catalog.Get("/", controller.ListCatalog)
	catalog.Get("/featured", controller.ListFeaturedCatalog)
	catalog.Get("/duty", controller.ListDutyRoster)
	catalog.Get("/:slug", controller.GetCatalogProperty)

	// Public viewing requests
	api.Post("/properties/:property_id/viewings", controller.CreateViewing)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Property Routes
	properties := protected.Group("/properties")
	properties.Get("/", controller.ListProperties)
	properties.Get("/my", controller.ListMyProperties)
	properties.Get("/trash", controller.ListTrash)
	properties.Post("/", controller.CreateProperty)
	properties.Get("/:id", middleware.CheckPropertyAccess(), controller.GetProperty)
	properties.Put("/:id", middleware.CheckPropertyAccess(), controller.UpdateProperty)
	properties.Put("/:id/status", middleware.CheckPropertyAccess(), controller.ChangePropertyStatus)
	properties.Delete("/:id", middleware.CheckPropertyAccess(), controller.SoftDeleteProperty)
	properties.Post("/:id/restore", middleware.CheckPropertyAccess(), controller.RestoreProperty)
	properties.Delete("/:id/permanent", middleware.RequireAdmin(), controller.PurgeProperty)
	properties.Post("/:id/collaborators", middleware.CheckPropertyAccess(), controller.AddCollaborator)
	properties.Delete("/:id/collaborators/:user_id", middleware.CheckPropertyAccess(), controller.RemoveCollaborator)
	properties.Post("/:id/photos", middleware.CheckPropertyAccess(), controller.UploadPropertyPhoto)
	properties.Delete("/:id/photos/:photo_id", middleware.CheckPropertyAccess(), controller.DeletePropertyPhoto)
	properties.Put("/:id/photos/order", middleware.CheckPropertyAccess(), controller.ReorderPropertyPhotos)

	// Featured slot routes
	featuredRoutes := protected.Group("/featured")
	featuredRoutes.Get("/", controller.ListFeatured)
	featuredRoutes.Post("/", controller.AssignFeatured)
	featuredRoutes.Put("/:id", controller.ReorderFeatured)
	featuredRoutes.Delete("/:id", controller.RemoveFeatured)

	// Favorites
	favorites := protected.Group("/favorites")
	favorites.Get("/", controller.ListMyFavorites)
	favorites.Post("/:id", controller.ToggleFavorite)

	// Viewing triage
	viewings := protected.Group("/viewings")
	viewings.Get("/", controller.ListMyViewings)
	viewings.Put("/:id/status", controller.UpdateViewingStatus)

	// Reference data; mutations are admin-only
	lookups := protected.Group("/reference/:entity")
	lookups.Get("/", controller.ListLookup)
	lookups.Post("/", middleware.RequireAdmin(), controller.CreateLookup)
	lookups.Put("/:id", middleware.RequireAdmin(), controller.UpdateLookup)
	lookups.Delete("/:id", middleware.RequireAdmin(), controller.DeleteLookup)

	// Settings
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireAdmin())
	admin.Get("/users", controller.ListUsers)
	admin.Post("/users", controller.CreateUser)
	admin.Delete("/users/:id", controller.DeleteUser)
	admin.Put("/users/:id/role", controller.UpdateUserRole)
	admin.Get("/audit", controller.ListAudit)
}

func main() {
	cfg := config.Load()

	if cfg.Email.APIKey != "" {
		if err := email.InitEmailService(cfg.Email.APIKey, cfg.Email.From); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email notifications disabled")
	}

	if err := storage.Init(cfg.Storage); err != nil {
		log.Fatal("Could not initialize object storage:", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Area{},
		&model.Category{},
		&model.Subcategory{},
		&model.ActionCategory{},
		&model.Condition{},
		&model.Proposal{},
		&model.Developer{},
		&model.Property{},
		&model.PropertyPhoto{},
		&model.FeaturedSlot{},
		&model.Favorite{},
		&model.Viewing{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedReferenceData(database.GetDB())

	cron.InitFeaturedRepairCron()
	cron.InitTrashPurgeCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
