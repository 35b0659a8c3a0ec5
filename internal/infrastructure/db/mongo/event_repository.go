package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
)

const collectionEvents = "events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type eventDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	Date             time.Time          `bson:"date"`
	Time             string             `bson:"time"`
	Location         string             `bson:"location"`
	ShortDescription string             `bson:"short_description"`
	Description      string             `bson:"description"`
	Image            string             `bson:"image"`
	RegisteredUsers  []string           `bson:"registered_users"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func toEventDocument(e *domain.Event) eventDocument {
	registered := e.RegisteredUsers
	if registered == nil {
		// $addToSet fails on a null field, so always store an array.
		registered = []string{}
	}
	return eventDocument{
		Title:            e.Title,
		Date:             e.Date.UTC(),
		Time:             e.Time,
		Location:         e.Location,
		ShortDescription: e.ShortDescription,
		Description:      e.Description,
		Image:            e.Image,
		RegisteredUsers:  registered,
		CreatedAt:        e.CreatedAt.UTC(),
		UpdatedAt:        e.UpdatedAt.UTC(),
	}
}

func (d eventDocument) toDomain() *domain.Event {
	registered := d.RegisteredUsers
	if registered == nil {
		registered = []string{}
	}
	return &domain.Event{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		Date:             d.Date.UTC(),
		Time:             d.Time,
		Location:         d.Location,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,
		Image:            d.Image,
		RegisteredUsers:  registered,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

// parseEventID maps a malformed ID to ErrEventNotFound: no stored event can
// have it.
func parseEventID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrEventNotFound
	}
	return oid, nil
}

// Create inserts a new event document and returns it with its generated ID.
func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toEventDocument(e)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc eventDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of events ordered by date and the total match count.
func (r *EventRepository) List(ctx context.Context, f ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Title != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	events, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *EventRepository) ListByRegistrant(ctx context.Context, subjectID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"registered_users": subjectID}, opts)
}

func (r *EventRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Event, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	out := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update sets the patched fields and returns the document after the update.
func (r *EventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Date != nil {
		set["date"] = patch.Date.UTC()
	}
	if patch.Time != nil {
		set["time"] = *patch.Time
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.ShortDescription != nil {
		set["short_description"] = *patch.ShortDescription
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc eventDocument
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseEventID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// AddRegistrant appends subjectID with a single conditional update: the filter
// only matches when subjectID is not yet registered, so two concurrent calls
// for the same subject cannot both succeed and calls for different subjects
// never overwrite each other.
func (r *EventRepository) AddRegistrant(ctx context.Context, id, subjectID string) error {
	oid, err := parseEventID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":              oid,
		"registered_users": bson.M{"$ne": subjectID},
	}
	update := bson.M{
		"$addToSet": bson.M{"registered_users": subjectID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("add registrant: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the event is gone or the subject is already in.
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("add registrant: %w", err)
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return domain.ErrAlreadyRegistered
}

// EnsureIndexes creates the indexes used by listing and registrant lookups.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "registered_users", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
