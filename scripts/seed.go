package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/medilink-plus/coordination-api/internal/adapters/database"
	"github.com/medilink-plus/coordination-api/internal/application/services"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	"github.com/medilink-plus/coordination-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	hospitalRepo := database.NewHospitalAdapter(pgClient)
	interpreterRepo := database.NewInterpreterAdapter(pgClient)
	feeRepo := database.NewFeeAdapter(pgClient)
	promotionRepo := database.NewPromotionAdapter(pgClient)
	profileRepo := database.NewProfileAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				notifications,
				reservations,
				promotions,
				fees,
				interpreters,
				hospitals,
				profiles
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Seed Hospitals
	hospitals := []entities.Hospital{
		{
			ID:          uuid.New().String(),
			Name:        "Seoul Grand Medical Center",
			City:        "Seoul",
			Country:     "South Korea",
			Address:     "27 Gangnam-daero, Gangnam-gu",
			PhoneNumber: "+82-2-555-0101",
			Email:       "intl@seoulgrand.example.com",
			Specialties: []string{"Oncology", "Cardiology", "Plastic Surgery"},
			Description: "Flagship tertiary hospital with a dedicated international patient desk.",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Busan Coastal Clinic",
			City:        "Busan",
			Country:     "South Korea",
			Address:     "88 Haeundae-ro, Haeundae-gu",
			PhoneNumber: "+82-51-555-0188",
			Email:       "care@busancoastal.example.com",
			Specialties: []string{"Dermatology", "Ophthalmology"},
			Description: "Outpatient clinic specialising in elective procedures for visitors.",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Bangkok Wellness Hospital",
			City:        "Bangkok",
			Country:     "Thailand",
			Address:     "2 Sukhumvit Soi 1, Khlong Toei",
			PhoneNumber: "+66-2-555-0123",
			Email:       "contact@bkkwellness.example.com",
			Specialties: []string{"Orthopedics", "Dental", "Health Screening"},
			Description: "JCI accredited hospital with multilingual coordination staff.",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	for i := range hospitals {
		if err := hospitalRepo.Create(ctx, &hospitals[i]); err != nil {
			log.Printf("Failed to create hospital %s: %v", hospitals[i].Name, err)
		}
	}

	// 2. Seed Interpreters
	interpreters := []entities.Interpreter{
		{ID: uuid.New().String(), FullName: "Han Ji-woo", Email: "jiwoo.han@example.com", Phone: "+82-10-5550-2001", Languages: []string{"Korean", "English", "Japanese"}, Rating: 4.9, HourlyRate: 45, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), FullName: "Maria Santos", Email: "maria.santos@example.com", Phone: "+82-10-5550-2002", Languages: []string{"Korean", "English", "Spanish"}, Rating: 4.7, HourlyRate: 40, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), FullName: "Somchai Pramoon", Email: "somchai.p@example.com", Phone: "+66-8-5550-2003", Languages: []string{"Thai", "English", "Mandarin"}, Rating: 4.8, HourlyRate: 35, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}

	for i := range interpreters {
		if err := interpreterRepo.Create(ctx, &interpreters[i]); err != nil {
			log.Printf("Failed to create interpreter %s: %v", interpreters[i].FullName, err)
		}
	}

	// 3. Seed Fees
	fees := []entities.Fee{
		{ID: uuid.New().String(), HospitalID: hospitals[0].ID, Treatment: "Comprehensive Health Screening", MinPrice: 800, MaxPrice: 1500, Currency: "USD", DurationMinutes: 240, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), HospitalID: hospitals[0].ID, Treatment: "Cardiac Consultation", MinPrice: 150, MaxPrice: 300, Currency: "USD", DurationMinutes: 60, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), HospitalID: hospitals[1].ID, Treatment: "LASIK Surgery", MinPrice: 1200, MaxPrice: 2400, Currency: "USD", DurationMinutes: 90, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), HospitalID: hospitals[2].ID, Treatment: "Dental Implant", MinPrice: 900, MaxPrice: 1800, Currency: "USD", DurationMinutes: 120, CreatedAt: now, UpdatedAt: now},
	}

	for i := range fees {
		if err := feeRepo.Create(ctx, &fees[i]); err != nil {
			log.Printf("Failed to create fee %s: %v", fees[i].Treatment, err)
		}
	}

	// 4. Seed Promotions
	promotions := []entities.Promotion{
		{
			ID:              uuid.New().String(),
			HospitalID:      hospitals[0].ID,
			Title:           "Autumn Screening Package",
			Description:     "15% off comprehensive health screening booked before December.",
			DiscountPercent: 15,
			ValidFrom:       now,
			ValidUntil:      now.AddDate(0, 3, 0),
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              uuid.New().String(),
			HospitalID:      hospitals[2].ID,
			Title:           "Dental Care Week",
			Description:     "10% off dental implants during the promotion window.",
			DiscountPercent: 10,
			ValidFrom:       now,
			ValidUntil:      now.AddDate(0, 1, 0),
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}

	for i := range promotions {
		if err := promotionRepo.Create(ctx, &promotions[i]); err != nil {
			log.Printf("Failed to create promotion %s: %v", promotions[i].Title, err)
		}
	}

	// 5. Seed Profiles (default password only for local development)
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	profiles := []entities.Profile{
		{ID: uuid.New().String(), Email: "admin@medilink.example.com", FullName: "Site Admin", Role: entities.RoleAdmin, PasswordHash: hash, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Email: "jiwoo.han@example.com", FullName: "Han Ji-woo", Role: entities.RoleInterpreter, PasswordHash: hash, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Email: "patient@example.com", FullName: "Alex Murphy", Role: entities.RoleUser, PasswordHash: hash, CreatedAt: now, UpdatedAt: now},
	}

	for i := range profiles {
		if err := profileRepo.Create(ctx, &profiles[i]); err != nil {
			log.Printf("Failed to create profile %s: %v", profiles[i].Email, err)
		}
	}

	log.Println("Seeding complete")
}
