package attendance

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bin-ym/sunday-school-backend/internal/models"
)

// MongoStore implements Store over two collections: temp_attendance for
// buffered submissions and attendance for the records of record.
type MongoStore struct {
	submissions *mongo.Collection
	records     *mongo.Collection
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		submissions: client.Database(dbName).Collection("temp_attendance"),
		records:     client.Database(dbName).Collection("attendance"),
	}
}

func (s *MongoStore) InsertSubmissions(ctx context.Context, subs []models.AttendanceSubmission) (int, error) {
	if len(subs) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(subs))
	for i, sub := range subs {
		docs[i] = sub
	}
	res, err := s.submissions.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) SubmissionsByDate(ctx context.Context, date string) ([]models.AttendanceSubmission, error) {
	cursor, err := s.submissions.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.AttendanceSubmission
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *MongoStore) CountSubmissionsByDate(ctx context.Context, date string) (int64, error) {
	return s.submissions.CountDocuments(ctx, bson.M{"date": date})
}

func (s *MongoStore) DeleteSubmissionsByDate(ctx context.Context, date string) (int64, error) {
	res, err := s.submissions.DeleteMany(ctx, bson.M{"date": date})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) BufferedDates(ctx context.Context) ([]string, error) {
	values, err := s.submissions.Distinct(ctx, "date", bson.M{})
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(values))
	for _, v := range values {
		if d, ok := v.(string); ok {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// UpsertRecord writes the authoritative record for (student_id, date),
// overwriting any prior one.
func (s *MongoStore) UpsertRecord(ctx context.Context, rec models.AttendanceRecord) (UpsertOutcome, error) {
	filter := bson.M{"student_id": rec.StudentID, "date": rec.Date}
	update := bson.M{"$set": bson.M{
		"student_id":     rec.StudentID,
		"date":           rec.Date,
		"present":        rec.Present,
		"has_permission": rec.HasPermission,
		"reason":         rec.Reason,
		"marked_by":      rec.MarkedBy,
		"timestamp":      rec.Timestamp,
	}}
	res, err := s.records.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return OutcomeUpdated, err
	}
	if res.UpsertedCount > 0 {
		return OutcomeInserted, nil
	}
	return OutcomeUpdated, nil
}

func (s *MongoStore) RecordsByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	cursor, err := s.records.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []models.AttendanceRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
