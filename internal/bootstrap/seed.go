package bootstrap

import (
	"log"

	"mentormatch/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSampleUsers inserts a few mentors and a mentee for development
// environments. Idempotent: skipped when any user already exists.
func SeedSampleUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	bio := func(s string) *string { return &s }

	users := []model.User{
		{
			Email:        "mentor.go@example.com",
			PasswordHash: string(hash),
			Name:         "Sam Okafor",
			Role:         model.RoleMentor,
			Bio:          bio("Backend engineer, happy to help with Go and databases."),
			Skills:       model.StringList{"Go", "PostgreSQL", "Docker"},
		},
		{
			Email:        "mentor.web@example.com",
			PasswordHash: string(hash),
			Name:         "Rina Patel",
			Role:         model.RoleMentor,
			Bio:          bio("Frontend lead, ten years of building web apps."),
			Skills:       model.StringList{"React", "TypeScript", "CSS"},
		},
		{
			Email:        "mentee@example.com",
			PasswordHash: string(hash),
			Name:         "Alex Kim",
			Role:         model.RoleMentee,
			Bio:          bio("Career switcher looking for a first engineering role."),
		},
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded sample users")
	log.Println("   Mentors: mentor.go@example.com, mentor.web@example.com")
	log.Println("   Mentee:  mentee@example.com")
	log.Println("   Password: password123")

	return nil
}
