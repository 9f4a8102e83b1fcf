package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// MongoUserRepository implements UserRepository.
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a Mongo-backed user repository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(colUsers)}
}

type userDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UID             string             `bson:"uid"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Role            string             `bson:"role"`
	Phone           string             `bson:"phone,omitempty"`
	Education       string             `bson:"education,omitempty"`
	CountriesChosen []string           `bson:"countriesChosen"`
	Courses         []string           `bson:"courses"`
	Universities    []string           `bson:"universities"`
	Image           string             `bson:"image,omitempty"`
}

// Create inserts a new local user record. Duplicate uid or email
// surfaces as ErrDuplicate via the unique indexes.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	l := log.Ctx(ctx)

	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	doc := userDoc{
		UID:             user.UID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		Phone:           user.Phone,
		Education:       user.Education,
		CountriesChosen: emptyIfNil(user.CountriesChosen),
		Courses:         emptyIfNil(user.Courses),
		Universities:    emptyIfNil(user.Universities),
		Image:           user.Image,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		l.Error().Err(err).Msg("failed to insert user")
		return err
	}

	user.ID = res.InsertedID.(primitive.ObjectID).Hex()
	l.Debug().Str(log.FieldUserID, user.ID).Msg("user created in db")
	return nil
}

// FindByID retrieves a user by local id.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByUID retrieves a user by identity-provider id.
func (r *MongoUserRepository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"uid": uid})
}

// FindByEmail retrieves a user by email.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindManyByIDs resolves a batch of local ids, keyed by id. Unknown ids
// are simply absent from the result.
func (r *MongoUserRepository) FindManyByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make(map[string]domain.User, len(docs))
	for _, doc := range docs {
		u := doc.toDomain()
		users[u.ID] = *u
	}
	return users, nil
}

// List returns the id/name projection of every user.
func (r *MongoUserRepository) List(ctx context.Context) ([]domain.DirectoryEntry, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]domain.DirectoryEntry, len(docs))
	for i, doc := range docs {
		entries[i] = domain.DirectoryEntry{ID: doc.ID.Hex(), Name: doc.Name}
	}
	return entries, nil
}

// UpdateRole changes the role of the user with the given email.
func (r *MongoUserRepository) UpdateRole(ctx context.Context, email, role string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
}

// DeleteByUID removes the local record for a provider id.
func (r *MongoUserRepository) DeleteByUID(ctx context.Context, uid string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ApplyCourse records a chosen country, course, and universities. The
// country replaces the previous choice; courses and universities
// accumulate.
func (r *MongoUserRepository) ApplyCourse(ctx context.Context, userID, country, course string, universities []string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	update := bson.M{
		"$set": bson.M{"countriesChosen": []string{country}},
		"$push": bson.M{
			"courses":      course,
			"universities": bson.M{"$each": emptyIfNil(universities)},
		},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

// RemoveCourse removes one chosen course.
func (r *MongoUserRepository) RemoveCourse(ctx context.Context, userID, course string) (*domain.User, error) {
	return r.pullField(ctx, userID, "courses", course)
}

// RemoveCountry removes one chosen country.
func (r *MongoUserRepository) RemoveCountry(ctx context.Context, userID, country string) (*domain.User, error) {
	return r.pullField(ctx, userID, "countriesChosen", country)
}

// RemoveUniversity removes one chosen university.
func (r *MongoUserRepository) RemoveUniversity(ctx context.Context, userID, university string) (*domain.User, error) {
	return r.pullField(ctx, userID, "universities", university)
}

// UpdatePhone changes the profile phone number.
func (r *MongoUserRepository) UpdatePhone(ctx context.Context, userID, phone string) (*domain.User, error) {
	return r.setField(ctx, userID, "phone", phone)
}

// UpdateEducation changes the profile education summary.
func (r *MongoUserRepository) UpdateEducation(ctx context.Context, userID, education string) (*domain.User, error) {
	return r.setField(ctx, userID, "education", education)
}

func (r *MongoUserRepository) pullField(ctx context.Context, userID, field, value string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$pull": bson.M{field: value}})
}

func (r *MongoUserRepository) setField(ctx context.Context, userID, field, value string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value}})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:              d.ID.Hex(),
		UID:             d.UID,
		Name:            d.Name,
		Email:           d.Email,
		Role:            d.Role,
		Phone:           d.Phone,
		Education:       d.Education,
		CountriesChosen: emptyIfNil(d.CountriesChosen),
		Courses:         emptyIfNil(d.Courses),
		Universities:    emptyIfNil(d.Universities),
		Image:           d.Image,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
