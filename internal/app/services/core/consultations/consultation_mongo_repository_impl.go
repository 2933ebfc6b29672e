package consultations

import (
	"context"
	"errors"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConsultationMongoRepository struct {
	Collection *mongo.Collection
	codec      fieldCodec
}

func NewConsultationMongoRepository(db *mongo.Client, dbName string, cipher contracts.FieldCipher) contracts.ConsultationRepository {
	return &ConsultationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionConsultations),
		codec:      fieldCodec{cipher: cipher},
	}
}

func (repo *ConsultationMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repo.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clinicalSessionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(constvars.MongoIndexConsultationClinicalSession),
		},
		{
			Keys: bson.D{{Key: "patientId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(constvars.MongoIndexConsultationActivePatient).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "isActive", Value: 1}, {Key: "updatedAt", Value: 1}}},
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err, constvars.MongoCollectionConsultations)
	}
	return nil
}

// Create inserts a new consultation. Both unique indexes map to
// ACTIVE_CONSULTATION_EXISTS; callers look the clinical session up again to
// tell a replay from a second active consultation.
func (repo *ConsultationMongoRepository) Create(ctx context.Context, consultation *models.Consultation) error {
	consultation.CreatedAt = storedTime(consultation.CreatedAt)
	consultation.UpdatedAt = storedTime(consultation.UpdatedAt)

	doc, err := repo.codec.toDocument(consultation)
	if err != nil {
		return err
	}

	_, err = repo.Collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrActiveConsultationExists(err, consultation.PatientID)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *ConsultationMongoRepository) FindByID(ctx context.Context, consultationID string) (*models.Consultation, error) {
	consultation, err := repo.findOne(ctx, bson.M{"_id": consultationID})
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, exceptions.ErrConsultationNotFound(nil, consultationID)
	}
	return consultation, nil
}

// FindByClinicalSessionID returns nil without an error when nothing matches.
func (repo *ConsultationMongoRepository) FindByClinicalSessionID(ctx context.Context, clinicalSessionID string) (*models.Consultation, error) {
	return repo.findOne(ctx, bson.M{"clinicalSessionId": clinicalSessionID})
}

// FindActiveByPatientID returns nil without an error when the patient has no
// active consultation.
func (repo *ConsultationMongoRepository) FindActiveByPatientID(ctx context.Context, patientID string) (*models.Consultation, error) {
	return repo.findOne(ctx, bson.M{"patientId": patientID, "isActive": true})
}

func (repo *ConsultationMongoRepository) FindByPatientID(ctx context.Context, patientID string, page, pageSize int) ([]models.Consultation, int, error) {
	filter := bson.M{"patientId": patientID}

	total, err := repo.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	consultations, err := repo.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return consultations, int(total), nil
}

func (repo *ConsultationMongoRepository) FindStale(ctx context.Context, status models.ConsultationStatus, updatedBefore time.Time, limit int) ([]models.Consultation, error) {
	filter := bson.M{
		"status":    status,
		"isActive":  true,
		"updatedAt": bson.M{"$lt": updatedBefore},
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}}).SetLimit(int64(limit))
	return repo.find(ctx, filter, opts)
}

func (repo *ConsultationMongoRepository) Update(ctx context.Context, consultation *models.Consultation, previousUpdatedAt time.Time) error {
	consultation.UpdatedAt = storedTime(consultation.UpdatedAt)

	doc, err := repo.codec.toDocument(consultation)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": consultation.ConsultationID, "updatedAt": storedTime(previousUpdatedAt)}
	result, err := repo.Collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrActiveConsultationExists(err, consultation.PatientID)
		}
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrConsultationConcurrentModification(nil, consultation.ConsultationID)
	}
	return nil
}

func (repo *ConsultationMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Consultation, error) {
	doc := new(consultationDocument)
	err := repo.Collection.FindOne(ctx, filter).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return repo.codec.fromDocument(doc)
}

func (repo *ConsultationMongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Consultation, error) {
	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	consultations := make([]models.Consultation, 0)
	for cursor.Next(ctx) {
		doc := new(consultationDocument)
		if err := cursor.Decode(doc); err != nil {
			return nil, exceptions.ErrMongoDBIterateDocuments(err)
		}
		consultation, err := repo.codec.fromDocument(doc)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, *consultation)
	}
	if err := cursor.Err(); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return consultations, nil
}

// storedTime matches the millisecond precision Mongo keeps for dates so the
// optimistic updatedAt guard compares equal values.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
