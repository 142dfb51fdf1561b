package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"eventspace/internal/database"
	"eventspace/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "eventspace.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	// Cleanup old data in FK-safe order
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM spaces")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@eventspace.com",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		FirstName:    "Admin",
		IsActive:     true,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@eventspace.com / admin123")

	users := []domain.User{}
	userEmails := []string{"amina@example.com", "boris@example.com", "chantal@example.com"}
	for i, email := range userEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
			FirstName:    fmt.Sprintf("User%d", i+1),
			Phone:        fmt.Sprintf("+237 6 70 00 00 %02d", i+10),
			IsActive:     true,
		}
		db.Create(&u)
		users = append(users, u)
	}

	owners := []domain.User{}
	ownerEmails := []string{"pierre@spaces.cm", "fatou@workhub.cm"}
	for i, email := range ownerEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
		o := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleOwner,
			FirstName:    fmt.Sprintf("Owner%d", i+1),
			IsActive:     true,
		}
		db.Create(&o)
		owners = append(owners, o)
	}

	// ================== SPACES ==================
	log.Println("Creating spaces...")
	types := []domain.SpaceType{
		domain.SpaceOffice,
		domain.SpaceMeetingRoom,
		domain.SpaceConferenceRoom,
		domain.SpaceCoworking,
		domain.SpaceTrainingRoom,
	}
	units := []domain.PriceUnit{domain.PricePerHour, domain.PricePerDay, domain.PricePerWeek, domain.PricePerMonth}
	cities := []string{"Douala", "Yaounde"}

	spaces := make([]domain.Space, 0, 6)
	for i := 0; i < 6; i++ {
		owner := owners[i%len(owners)]
		sp := domain.Space{
			OwnerID:     owner.ID,
			Name:        fmt.Sprintf("Space %d", i+1),
			Description: "Well equipped space in a central location",
			Type:        types[i%len(types)],
			Capacity:    5 + rand.Intn(40),
			Price:       5000 + float64(rand.Intn(10))*1000,
			PriceUnit:   units[i%len(units)],
			Amenities:   []string{"wifi", "projector", "whiteboard"}[:1+rand.Intn(3)],
			Address: domain.Address{
				Street:  fmt.Sprintf("%d Liberty Avenue", i+10),
				City:    cities[i%len(cities)],
				Country: "CM",
			},
			IsAvailable: true,
			IsActive:    true,
		}
		db.Create(&sp)
		spaces = append(spaces, sp)
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")
	statuses := []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingConfirmed,
		domain.BookingCompleted,
	}
	for i := 0; i < 10; i++ {
		sp := spaces[rand.Intn(len(spaces))]
		u := users[rand.Intn(len(users))]

		day := time.Now().AddDate(0, 0, rand.Intn(30)-10).Truncate(24 * time.Hour)
		startHour := 8 + rand.Intn(9)
		duration := 1 + rand.Intn(4)

		b := domain.Booking{
			UserID:         u.ID,
			SpaceID:        sp.ID,
			StartDate:      day,
			EndDate:        day,
			StartTime:      fmt.Sprintf("%02d:00", startHour),
			EndTime:        fmt.Sprintf("%02d:00", startHour+duration),
			NumberOfPeople: 2 + rand.Intn(5),
			TotalPrice:     float64(duration) * sp.Price,
			Status:         statuses[rand.Intn(len(statuses))],
			PaymentStatus:  domain.PaymentPending,
		}
		db.Create(&b)
	}

	// A completed, reviewed booking so ratings have data
	reviewed := domain.Booking{
		UserID:         users[0].ID,
		SpaceID:        spaces[0].ID,
		StartDate:      time.Now().AddDate(0, 0, -7).Truncate(24 * time.Hour),
		EndDate:        time.Now().AddDate(0, 0, -7).Truncate(24 * time.Hour),
		StartTime:      "10:00",
		EndTime:        "13:00",
		NumberOfPeople: 4,
		TotalPrice:     3 * spaces[0].Price,
		Status:         domain.BookingCompleted,
		PaymentStatus:  domain.PaymentPaid,
	}
	rating := 5
	reviewed.Rating = &rating
	reviewed.Review = "Great space, will book again"
	db.Create(&reviewed)

	sp := spaces[0]
	sp.ApplyRating(rating)
	db.Model(&sp).Updates(map[string]any{
		"rating_average": sp.RatingAverage,
		"rating_count":   sp.RatingCount,
	})

	// ================== NOTIFICATIONS ==================
	log.Println("Creating notifications...")
	for _, owner := range owners {
		db.Create(&domain.Notification{
			UserID:  owner.ID,
			Type:    domain.NotifBookingCreated,
			Title:   "New booking request",
			Message: "One of your spaces has a new booking request.",
			IsRead:  rand.Intn(2) == 0,
		})
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Admin: admin@eventspace.com / admin123")
	log.Println("Users: amina@example.com ... / user123")
	log.Println("Owners: pierre@spaces.cm, fatou@workhub.cm / owner123")
}
