package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// objectPutter is the subset of *minio.Client used for archiving.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// minioIntakeArchive stores the sealed intake snapshot of every created
// consultation as one object per consultation.
type minioIntakeArchive struct {
	MinioClient objectPutter
	BucketName  string
	Cipher      contracts.FieldCipher
	Log         *zap.Logger
	now         func() time.Time
}

// NewMinioIntakeArchive makes sure the bucket exists. A nil client yields an
// archive that stores nothing.
func NewMinioIntakeArchive(ctx context.Context, minioClient *minio.Client, bucketName string, cipher contracts.FieldCipher, log *zap.Logger) (contracts.IntakeArchive, error) {
	if minioClient == nil {
		log.Warn("MinIO is not configured, intake snapshots will not be archived")
		return &noopIntakeArchive{}, nil
	}

	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, exceptions.ErrMinioCreateObject(err, bucketName)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, exceptions.ErrMinioCreateObject(err, bucketName)
		}
		log.Info("Created MinIO bucket", zap.String(constvars.LoggingBucketNameKey, bucketName))
	}

	return newMinioIntakeArchive(minioClient, bucketName, cipher, log), nil
}

func newMinioIntakeArchive(client objectPutter, bucketName string, cipher contracts.FieldCipher, log *zap.Logger) *minioIntakeArchive {
	return &minioIntakeArchive{
		MinioClient: client,
		BucketName:  bucketName,
		Cipher:      cipher,
		Log:         log,
		now:         time.Now,
	}
}

func (m *minioIntakeArchive) Archive(ctx context.Context, consultationID string, snapshot *models.IntakeSnapshot) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	plaintext, err := json.Marshal(snapshot)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}
	sealed, err := m.Cipher.Encrypt(plaintext)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf(constvars.IntakeArchiveObjectFormat, m.now().UTC().Format("2006/01/02"), consultationID)
	_, err = m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader([]byte(sealed)),
		int64(len(sealed)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEOctetStream,
			UserMetadata: map[string]string{
				"consultation-id": consultationID,
			},
		},
	)
	if err != nil {
		m.Log.Error("minioIntakeArchive.Archive error putting object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketNameKey, m.BucketName),
			zap.String(constvars.LoggingObjectKey, objectName),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	m.Log.Info("minioIntakeArchive.Archive succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingConsultationIDKey, consultationID),
		zap.String(constvars.LoggingObjectKey, objectName),
	)
	return objectName, nil
}

type noopIntakeArchive struct{}

func (noopIntakeArchive) Archive(ctx context.Context, consultationID string, snapshot *models.IntakeSnapshot) (string, error) {
	return "", nil
}
