package doctor_shifts

import (
	"context"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DoctorShiftMongoRepository struct {
	Collection *mongo.Collection
}

func NewDoctorShiftMongoRepository(db *mongo.Client, dbName string) contracts.DoctorShiftRepository {
	return &DoctorShiftMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDoctorShifts),
	}
}

func (repo *DoctorShiftMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repo.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "startHour", Value: 1}}},
		{Keys: bson.D{{Key: "doctorId", Value: 1}}},
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err, constvars.MongoCollectionDoctorShifts)
	}
	return nil
}

func (repo *DoctorShiftMongoRepository) Create(ctx context.Context, shift *models.DoctorShift) error {
	_, err := repo.Collection.InsertOne(ctx, shift)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *DoctorShiftMongoRepository) FindByID(ctx context.Context, shiftID string) (*models.DoctorShift, error) {
	shift := new(models.DoctorShift)
	err := repo.Collection.FindOne(ctx, bson.M{"_id": shiftID}).Decode(shift)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exceptions.ErrDoctorShiftNotFound(err, shiftID)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return shift, nil
}

func (repo *DoctorShiftMongoRepository) Find(ctx context.Context, status, doctorID string) ([]models.DoctorShift, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if doctorID != "" {
		filter["doctorId"] = doctorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "startHour", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	shifts := make([]models.DoctorShift, 0)
	err = cursor.All(ctx, &shifts)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return shifts, nil
}

func (repo *DoctorShiftMongoRepository) Update(ctx context.Context, shift *models.DoctorShift) error {
	result, err := repo.Collection.ReplaceOne(ctx, bson.M{"_id": shift.ShiftID}, shift)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrDoctorShiftNotFound(nil, shift.ShiftID)
	}
	return nil
}
