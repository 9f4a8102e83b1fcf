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
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// MongoPostRepository implements PostRepository.
type MongoPostRepository struct {
	col *mongo.Collection
}

// NewMongoPostRepository creates a Mongo-backed post repository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{col: db.Collection(colPosts)}
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    string             `bson:"userId"`
	Text      string             `bson:"text"`
	Reported  bool               `bson:"reported"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Category  string             `bson:"category"`
	Content   string             `bson:"content"`
	UserID    string             `bson:"userId"`
	Likes     []string           `bson:"likes"`
	Comments  []commentDoc       `bson:"comments"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// Create inserts a new post.
func (r *MongoPostRepository) Create(ctx context.Context, post *domain.Post) error {
	l := log.Ctx(ctx)
	now := time.Now().UTC()

	doc := postDoc{
		Title:     post.Title,
		Category:  post.Category,
		Content:   post.Content,
		UserID:    post.UserID,
		Likes:     []string{},
		Comments:  []commentDoc{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		l.Error().Err(err).Msg("failed to insert post")
		return err
	}

	post.ID = res.InsertedID.(primitive.ObjectID).Hex()
	post.Likes = []string{}
	post.Comments = []domain.Comment{}
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

// List returns all posts, newest first.
func (r *MongoPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, len(docs))
	for i, doc := range docs {
		posts[i] = *doc.toDomain()
	}
	return posts, nil
}

// FindByID retrieves one post.
func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// SetLikes replaces the like list after a toggle.
func (r *MongoPostRepository) SetLikes(ctx context.Context, postID string, likes []string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}

	update := bson.M{"$set": bson.M{"likes": emptyIfNil(likes), "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

// AddComment appends a comment to the embedded list.
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}

	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	cd := commentDoc{
		ID:        primitive.NewObjectID(),
		UserID:    comment.UserID,
		Text:      comment.Text,
		Reported:  comment.Reported,
		CreatedAt: comment.CreatedAt,
	}

	update := bson.M{
		"$push": bson.M{"comments": cd},
		"$set":  bson.M{"updatedAt": now},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

// Delete removes a post.
func (r *MongoPostRepository) Delete(ctx context.Context, postID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// SetCommentReported flips one embedded comment's reported flag in place
// and returns the updated post.
func (r *MongoPostRepository) SetCommentReported(ctx context.Context, postID, commentID string, reported bool) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}

	filter := bson.M{"_id": oid, "comments._id": cid}
	update := bson.M{"$set": bson.M{
		"comments.$[c].reported": reported,
		"updatedAt":              time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{bson.M{"c._id": cid}}})

	var doc postDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// ListReportedComments scans posts carrying at least one flagged comment
// and flattens the flagged ones for moderator review.
func (r *MongoPostRepository) ListReportedComments(ctx context.Context) ([]domain.ReportedComment, error) {
	cursor, err := r.col.Find(ctx, bson.M{"comments.reported": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	reported := []domain.ReportedComment{}
	for _, doc := range docs {
		post := doc.toDomain()
		for _, c := range post.Comments {
			if c.Reported {
				reported = append(reported, domain.ReportedComment{
					PostID:    post.ID,
					PostTitle: post.Title,
					Comment:   c,
				})
			}
		}
	}
	return reported, nil
}

// DeleteComment pulls a comment out of whichever post embeds it.
func (r *MongoPostRepository) DeleteComment(ctx context.Context, commentID string) error {
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return ErrCommentNotFound
	}

	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": cid}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"comments._id": cid}, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *MongoPostRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (d postDoc) toDomain() *domain.Post {
	comments := make([]domain.Comment, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = domain.Comment{
			ID:        c.ID.Hex(),
			UserID:    c.UserID,
			Text:      c.Text,
			Reported:  c.Reported,
			CreatedAt: c.CreatedAt,
		}
	}
	return &domain.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Category:  d.Category,
		Content:   d.Content,
		UserID:    d.UserID,
		Likes:     emptyIfNil(d.Likes),
		Comments:  comments,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
