package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/drivers/database"
	"teleconsult-service/internal/app/drivers/logger"
	"teleconsult-service/internal/app/services/core/consultations"
	"teleconsult-service/internal/app/services/core/doctor_shifts"
	"teleconsult-service/internal/app/services/shared/encryption"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	dir := flag.String("dir", "internal/migration", "directory holding the SQL migrations")
	maxMigrations := flag.Int("max", 0, "maximum number of migrations to apply, 0 means all")
	withIndexes := flag.Bool("mongo-indexes", true, "create the MongoDB indexes after the SQL migrations")
	flag.Parse()

	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewLogrusLogger(internalConfig)

	driverLog, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Error creating driver logger: %v", err)
	}

	migrationDir := *dir
	if !filepath.IsAbs(migrationDir) {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Error getting working directory: %v", err)
		}
		migrationDir = filepath.Join(wd, migrationDir)
	}

	migrateDirection := migrate.Up
	if *direction == "down" {
		migrateDirection = migrate.Down
	}

	db := database.NewPostgresDB(driverConfig, driverLog)
	defer db.Close()

	migrations := &migrate.FileMigrationSource{Dir: migrationDir}
	n, err := migrate.ExecMax(db, "postgres", migrations, migrateDirection, *maxMigrations)
	if err != nil {
		log.Fatalf("Error executing migration: %v", err)
	}
	log.WithField("direction", *direction).Infof("Applied %d migrations!", n)

	if !*withIndexes || migrateDirection == migrate.Down {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mongoDB := database.NewMongoDB(driverConfig, driverLog)
	defer mongoDB.Disconnect(ctx)

	// Index creation never touches encrypted fields, so any key will do.
	cipher, err := encryption.NewEphemeralFieldCipher()
	if err != nil {
		log.Fatalf("Error creating field cipher: %v", err)
	}

	consultationRepository := consultations.NewConsultationMongoRepository(mongoDB, driverConfig.MongoDB.DBName, cipher)
	if err := consultationRepository.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Error creating consultation indexes: %v", err)
	}
	doctorShiftRepository := doctor_shifts.NewDoctorShiftMongoRepository(mongoDB, driverConfig.MongoDB.DBName)
	if err := doctorShiftRepository.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Error creating doctor shift indexes: %v", err)
	}
	log.Info("MongoDB indexes are in place")
}
