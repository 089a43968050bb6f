package seed

import (
	"log"

	"Pulse/models"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username: "steven",
		Email:    "steven@example.com",
		Password: "password",
	},
	{
		Username: "martin",
		Email:    "luther@example.com",
		Password: "password",
	},
}

var groups = []models.Group{
	{
		Title:       "Travel",
		Slug:        "travel",
		Description: "Trips, routes and places worth writing about",
	},
	{
		Title:       "Cooking",
		Slug:        "cooking",
		Description: "Recipes and kitchen notes",
	},
}

var posts = []models.Post{
	{
		Text: "First week on the road: two borders, one missed train, zero regrets.",
	},
	{
		Text: "Sourdough attempt number four. The crumb is finally open.",
	},
}

// Load wipes and refills the dev database. Never wired into production
// startup.
func Load(db *gorm.DB) {
	err := db.Migrator().DropTable(
		&models.Follow{},
		&models.Comment{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	)
	if err != nil {
		log.Fatalf("cannot drop tables: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		log.Fatalf("cannot migrate tables: %v", err)
	}

	for i := range groups {
		if err := db.Create(&groups[i]).Error; err != nil {
			log.Fatalf("cannot seed groups table: %v", err)
		}
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("cannot seed users table: %v", err)
		}

		posts[i].AuthorID = users[i].ID
		posts[i].GroupID = &groups[i].ID
		if err := db.Create(&posts[i]).Error; err != nil {
			log.Fatalf("cannot seed posts table: %v", err)
		}
	}
}
