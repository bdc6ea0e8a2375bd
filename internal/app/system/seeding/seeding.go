// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/movehq/moveboard/internal/app/store/users"
	"github.com/movehq/moveboard/internal/app/system/authutil"
	"github.com/movehq/moveboard/internal/domain/models"
)

// AdminSeed describes the initial admin account created on first boot.
// Password arrives in the clear from configuration and is hashed here.
type AdminSeed struct {
	FullName string
	LoginID  string
	Password string
}

// SeedAll creates default data if not already present. Today that is only
// the bootstrap admin account; without one a fresh install has no way to
// sign in.
func SeedAll(ctx context.Context, db *mongo.Database, seed AdminSeed, logger *zap.Logger) error {
	return seedAdmin(ctx, db, seed, logger)
}

func seedAdmin(ctx context.Context, db *mongo.Database, seed AdminSeed, logger *zap.Logger) error {
	if seed.LoginID == "" || seed.Password == "" {
		logger.Info("admin seed not configured, skipping")
		return nil
	}

	store := userstore.New(db)

	exists, err := store.ExistsByLoginID(ctx, seed.LoginID)
	if err != nil {
		logger.Error("failed to check for seed admin", zap.Error(err))
		return err
	}
	if exists {
		return nil
	}

	if err := authutil.ValidatePassword(seed.Password); err != nil {
		logger.Error("seed admin password rejected", zap.Error(err))
		return err
	}
	hash, err := authutil.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	name := seed.FullName
	if name == "" {
		name = "Administrator"
	}

	_, err = store.Create(ctx, models.User{
		FullName:     name,
		LoginID:      seed.LoginID,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	})
	if errors.Is(err, userstore.ErrDuplicateLoginID) {
		// Another instance won the race.
		return nil
	}
	if err != nil {
		logger.Error("failed to seed admin account", zap.Error(err))
		return err
	}

	logger.Info("seeded admin account", zap.String("login_id", seed.LoginID))
	return nil
}
