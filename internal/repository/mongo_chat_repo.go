package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// MongoChatRepository implements ChatRepository on a single `chats`
// collection with embedded messages.
type MongoChatRepository struct {
	col *mongo.Collection
}

// NewMongoChatRepository creates a Mongo-backed chat repository.
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{col: db.Collection(colChats)}
}

type messageDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	SenderID   string             `bson:"senderId"`
	Content    string             `bson:"content"`
	IsRead     bool               `bson:"isRead"`
	Attachment string             `bson:"attachment,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

type chatDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Participants []string           `bson:"participants"`
	Messages     []messageDoc       `bson:"messages"`
	LastMessage  string             `bson:"lastMessage"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// Create inserts a new aggregate. The participant pair is stored sorted
// so the set is canonical at rest, and message ids and timestamps are
// assigned here.
func (r *MongoChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	l := log.Ctx(ctx)
	now := time.Now().UTC()

	participants := append([]string(nil), chat.Participants...)
	sort.Strings(participants)

	doc := chatDoc{
		Participants: participants,
		Messages:     make([]messageDoc, 0, len(chat.Messages)),
		LastMessage:  chat.LastMessage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := range chat.Messages {
		m := &chat.Messages[i]
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		md := newMessageDoc(*m)
		m.ID = md.ID.Hex()
		doc.Messages = append(doc.Messages, md)
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		l.Error().Err(err).Msg("failed to insert chat")
		return err
	}

	chat.ID = res.InsertedID.(primitive.ObjectID).Hex()
	chat.Participants = participants
	chat.CreatedAt = now
	chat.UpdatedAt = now
	l.Debug().Str(log.FieldChatID, chat.ID).Msg("chat created in db")
	return nil
}

// FindByParticipants looks up the aggregate for a participant set.
// $all with $size matches the pair regardless of stored or supplied
// order, so [A,B] and [B,A] resolve to the same document.
func (r *MongoChatRepository) FindByParticipants(ctx context.Context, idA, idB string) (*domain.Chat, error) {
	filter := bson.M{"participants": bson.M{"$all": bson.A{idA, idB}, "$size": 2}}

	var doc chatDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindByID retrieves one aggregate.
func (r *MongoChatRepository) FindByID(ctx context.Context, id string) (*domain.Chat, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrChatNotFound
	}

	var doc chatDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// ListByUser returns every chat the user participates in, most recently
// updated first.
func (r *MongoChatRepository) ListByUser(ctx context.Context, userID string) ([]domain.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []chatDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	chats := make([]domain.Chat, len(docs))
	for i, doc := range docs {
		chats[i] = *doc.toDomain()
	}
	return chats, nil
}

// AppendMessage pushes one message onto the embedded list and refreshes
// the lastMessage preview in a single document update, so concurrent
// appends from both participants interleave without losing messages.
func (r *MongoChatRepository) AppendMessage(ctx context.Context, chatID string, msg domain.Message) (*domain.Chat, error) {
	l := log.Ctx(ctx)

	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, ErrChatNotFound
	}

	now := time.Now().UTC()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	md := newMessageDoc(msg)

	update := bson.M{
		"$push": bson.M{"messages": md},
		"$set":  bson.M{"lastMessage": msg.Content, "updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc chatDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		l.Error().Err(err).Str(log.FieldChatID, chatID).Msg("failed to append message")
		return nil, err
	}
	return doc.toDomain(), nil
}

// MarkRead flips isRead on every message sent by senderID, using an
// array filter so only the counterpart's messages are touched.
func (r *MongoChatRepository) MarkRead(ctx context.Context, chatID, senderID string) (*domain.Chat, error) {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, ErrChatNotFound
	}

	update := bson.M{"$set": bson.M{"messages.$[m].isRead": true}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"m.senderId": senderID}},
		})

	var doc chatDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Delete removes the aggregate and returns the deleted state.
func (r *MongoChatRepository) Delete(ctx context.Context, chatID string) (*domain.Chat, error) {
	l := log.Ctx(ctx)

	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, ErrChatNotFound
	}

	var doc chatDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		l.Error().Err(err).Str(log.FieldChatID, chatID).Msg("failed to delete chat")
		return nil, err
	}

	l.Debug().Str(log.FieldChatID, chatID).Msg("chat deleted from db")
	return doc.toDomain(), nil
}

func newMessageDoc(m domain.Message) messageDoc {
	id := primitive.NewObjectID()
	if parsed, err := primitive.ObjectIDFromHex(m.ID); err == nil {
		id = parsed
	}
	return messageDoc{
		ID:         id,
		SenderID:   m.SenderID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		Attachment: m.Attachment,
		CreatedAt:  m.CreatedAt,
	}
}

func (d chatDoc) toDomain() *domain.Chat {
	messages := make([]domain.Message, len(d.Messages))
	for i, m := range d.Messages {
		messages[i] = domain.Message{
			ID:         m.ID.Hex(),
			SenderID:   m.SenderID,
			Content:    m.Content,
			IsRead:     m.IsRead,
			Attachment: m.Attachment,
			CreatedAt:  m.CreatedAt,
		}
	}
	return &domain.Chat{
		ID:           d.ID.Hex(),
		Participants: d.Participants,
		Messages:     messages,
		LastMessage:  d.LastMessage,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
