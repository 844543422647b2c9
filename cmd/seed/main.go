// Command seed imports the development data set, or deletes it with -delete.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"natours/internal/auth"
	"natours/internal/config"
	"natours/internal/db"
	"natours/internal/logger"
	"natours/internal/model"
	"natours/internal/repository"
	"natours/internal/service"
)

// seedUser carries the plain password of a development account.
type seedUser struct {
	model.User
	Password     string `json:"password"`
	MailVerified *bool  `json:"mailVerified"`
}

// seedTour references its guides by id.
type seedTour struct {
	model.Tour
	Guides []uuid.UUID `json:"guides"`
}

func main() {
	dir := flag.String("dir", "dev-data", "directory holding users.json, tours.json and reviews.json")
	purge := flag.Bool("delete", false, "delete all data instead of importing")
	flag.Parse()

	cfg := config.Load()
	log := logger.WithComponent(logger.New(cfg.LogLevel, cfg.Env), "seed")
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.Tour{}, &model.Review{}, &model.Booking{}); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	ctx := context.Background()
	if *purge {
		if err := deleteAll(ctx, gormDB); err != nil {
			log.Fatal("delete data", zap.Error(err))
		}
		log.Info("data deleted")
		return
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	users, err := seedUsers(ctx, repository.NewUserRepository(gormDB), hasher, filepath.Join(*dir, "users.json"))
	if err != nil {
		log.Fatal("seed users", zap.Error(err))
	}
	tours, err := seedTours(ctx, gormDB, repository.NewTourRepository(gormDB), filepath.Join(*dir, "tours.json"))
	if err != nil {
		log.Fatal("seed tours", zap.Error(err))
	}
	reviews, err := seedReviews(ctx, repository.NewReviewRepository(gormDB), repository.NewTourRepository(gormDB), filepath.Join(*dir, "reviews.json"))
	if err != nil {
		log.Fatal("seed reviews", zap.Error(err))
	}

	log.Info("seed completed", zap.Int("users", users), zap.Int("tours", tours), zap.Int("reviews", reviews))
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func seedUsers(ctx context.Context, repo repository.UserRepository, hasher *auth.PasswordHasher, path string) (int, error) {
	var items []seedUser
	if err := loadJSON(path, &items); err != nil {
		return 0, err
	}
	for i := range items {
		user := items[i].User
		user.Email = service.NormalizeEmail(user.Email)
		if user.Role == "" {
			user.Role = model.RoleUser
		}
		user.Status = model.UserStatusActive
		user.MailVerified = items[i].MailVerified == nil || *items[i].MailVerified
		hash, err := hasher.Hash(items[i].Password)
		if err != nil {
			return i, fmt.Errorf("hash password of %s: %w", user.Email, err)
		}
		user.PasswordHash = hash
		if err := repo.Create(ctx, &user); err != nil {
			return i, fmt.Errorf("create user %s: %w", user.Email, err)
		}
	}
	return len(items), nil
}

func seedTours(ctx context.Context, gormDB *gorm.DB, repo repository.TourRepository, path string) (int, error) {
	var items []seedTour
	if err := loadJSON(path, &items); err != nil {
		return 0, err
	}
	for i := range items {
		tour := items[i].Tour
		service.PrepareTour(&tour)
		if err := repo.Create(ctx, &tour); err != nil {
			return i, fmt.Errorf("create tour %q: %w", tour.Name, err)
		}
		if len(items[i].Guides) == 0 {
			continue
		}
		guides := make([]model.User, len(items[i].Guides))
		for j, id := range items[i].Guides {
			guides[j] = model.User{ID: id}
		}
		if err := gormDB.WithContext(ctx).Model(&tour).Association("Guides").Replace(guides); err != nil {
			return i, fmt.Errorf("link guides of %q: %w", tour.Name, err)
		}
	}
	return len(items), nil
}

func seedReviews(ctx context.Context, repo repository.ReviewRepository, tours repository.TourRepository, path string) (int, error) {
	var items []model.Review
	if err := loadJSON(path, &items); err != nil {
		return 0, err
	}
	for i := range items {
		if err := repo.Create(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("create review %d: %w", i, err)
		}
	}

	ratings := service.NewReviewService(repo, tours, nil)
	seen := make(map[uuid.UUID]bool)
	for _, r := range items {
		if seen[r.TourID] {
			continue
		}
		seen[r.TourID] = true
		if err := ratings.RecalculateRatings(ctx, r.TourID); err != nil {
			return len(items), err
		}
	}
	return len(items), nil
}

// deleteAll removes rows children first so foreign keys hold.
func deleteAll(ctx context.Context, gormDB *gorm.DB) error {
	tx := gormDB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := tx.Exec("DELETE FROM tour_guides").Error; err != nil {
		return err
	}
	for _, m := range []interface{}{&model.Booking{}, &model.Review{}, &model.Tour{}, &model.User{}} {
		if err := tx.Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
