package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
)

// MongoCourseRepository implements CourseRepository.
type MongoCourseRepository struct {
	col *mongo.Collection
}

func NewMongoCourseRepository(db *mongo.Database) *MongoCourseRepository {
	return &MongoCourseRepository{col: db.Collection(colCourses)}
}

type courseDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	University  string             `bson:"university"`
	Place       string             `bson:"place"`
	Course      string             `bson:"course"`
	CountryCode string             `bson:"countryCode"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (r *MongoCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	now := time.Now().UTC()
	doc := courseDoc{
		University:  course.University,
		Place:       course.Place,
		Course:      course.Course,
		CountryCode: course.CountryCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	course.ID = res.InsertedID.(primitive.ObjectID).Hex()
	course.CreatedAt = now
	course.UpdatedAt = now
	return nil
}

func (r *MongoCourseRepository) List(ctx context.Context, countryCode string) ([]domain.Course, error) {
	filter := bson.M{}
	if countryCode != "" {
		filter["countryCode"] = countryCode
	}

	opts := options.Find().SetSort(bson.D{{Key: "university", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []courseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	courses := make([]domain.Course, len(docs))
	for i, d := range docs {
		courses[i] = domain.Course{
			ID:          d.ID.Hex(),
			University:  d.University,
			Place:       d.Place,
			Course:      d.Course,
			CountryCode: d.CountryCode,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		}
	}
	return courses, nil
}

func (r *MongoCourseRepository) Update(ctx context.Context, id string, req domain.CourseRequest) (*domain.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCourseNotFound
	}

	update := bson.M{"$set": bson.M{
		"university":  req.University,
		"place":       req.Place,
		"course":      req.Course,
		"countryCode": req.CountryCode,
		"updatedAt":   time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d courseDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &domain.Course{
		ID:          d.ID.Hex(),
		University:  d.University,
		Place:       d.Place,
		Course:      d.Course,
		CountryCode: d.CountryCode,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (r *MongoCourseRepository) Delete(ctx context.Context, id string) error {
	return deleteByHexID(ctx, r.col, id, ErrCourseNotFound)
}

// MongoFAQRepository implements FAQRepository.
type MongoFAQRepository struct {
	col *mongo.Collection
}

func NewMongoFAQRepository(db *mongo.Database) *MongoFAQRepository {
	return &MongoFAQRepository{col: db.Collection(colFAQs)}
}

type faqDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Question string             `bson:"question"`
	Answer   string             `bson:"answer"`
}

func (r *MongoFAQRepository) Create(ctx context.Context, faq *domain.FAQ) error {
	res, err := r.col.InsertOne(ctx, faqDoc{Question: faq.Question, Answer: faq.Answer})
	if err != nil {
		return err
	}
	faq.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *MongoFAQRepository) List(ctx context.Context) ([]domain.FAQ, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []faqDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	faqs := make([]domain.FAQ, len(docs))
	for i, d := range docs {
		faqs[i] = domain.FAQ{ID: d.ID.Hex(), Question: d.Question, Answer: d.Answer}
	}
	return faqs, nil
}

func (r *MongoFAQRepository) Update(ctx context.Context, id string, req domain.FAQRequest) (*domain.FAQ, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrFAQNotFound
	}

	update := bson.M{"$set": bson.M{"question": req.Question, "answer": req.Answer}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d faqDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFAQNotFound
		}
		return nil, err
	}
	return &domain.FAQ{ID: d.ID.Hex(), Question: d.Question, Answer: d.Answer}, nil
}

func (r *MongoFAQRepository) Delete(ctx context.Context, id string) error {
	return deleteByHexID(ctx, r.col, id, ErrFAQNotFound)
}

// MongoGuideRepository implements GuideRepository.
type MongoGuideRepository struct {
	col *mongo.Collection
}

func NewMongoGuideRepository(db *mongo.Database) *MongoGuideRepository {
	return &MongoGuideRepository{col: db.Collection(colGuides)}
}

type guideDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FileName    string             `bson:"fileName"`
	FileURL     string             `bson:"fileUrl"`
	CountryCode string             `bson:"countryCode"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (r *MongoGuideRepository) Create(ctx context.Context, guide *domain.Guide) error {
	now := time.Now().UTC()
	doc := guideDoc{
		FileName:    guide.FileName,
		FileURL:     guide.FileURL,
		CountryCode: guide.CountryCode,
		CreatedAt:   now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	guide.ID = res.InsertedID.(primitive.ObjectID).Hex()
	guide.CreatedAt = now
	return nil
}

func (r *MongoGuideRepository) List(ctx context.Context, countryCode string) ([]domain.Guide, error) {
	filter := bson.M{}
	if countryCode != "" {
		filter["countryCode"] = countryCode
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []guideDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	guides := make([]domain.Guide, len(docs))
	for i, d := range docs {
		guides[i] = domain.Guide{
			ID:          d.ID.Hex(),
			FileName:    d.FileName,
			FileURL:     d.FileURL,
			CountryCode: d.CountryCode,
			CreatedAt:   d.CreatedAt,
		}
	}
	return guides, nil
}

func (r *MongoGuideRepository) Delete(ctx context.Context, id string) error {
	return deleteByHexID(ctx, r.col, id, ErrGuideNotFound)
}

func deleteByHexID(ctx context.Context, col *mongo.Collection, id string, notFound error) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return notFound
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}
