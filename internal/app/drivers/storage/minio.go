package storage

import (
	"fmt"
	"teleconsult-service/internal/app/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// NewMinio returns nil when no MinIO host is configured; intake archiving is
// then disabled.
func NewMinio(driverConfig *config.DriverConfig, log *zap.Logger) *minio.Client {
	if driverConfig.Minio.Host == "" {
		log.Warn("Minio host not configured, intake archiving disabled")
		return nil
	}

	endPoint := fmt.Sprintf("%s:%s", driverConfig.Minio.Host, driverConfig.Minio.Port)
	minioClient, err := minio.New(endPoint, &minio.Options{
		Creds:  credentials.NewStaticV4(driverConfig.Minio.Username, driverConfig.Minio.Password, ""),
		Secure: driverConfig.Minio.UseSSL,
	})
	if err != nil {
		log.Fatal("Failed to initialize Minio Client", zap.Error(err))
	}

	log.Info("Successfully connected to minio")
	return minioClient
}
