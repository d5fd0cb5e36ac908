package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Transactor runs use cases inside a MongoDB session transaction. Transactions
// need a replica set; with enabled=false fn runs directly.
type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func NewTransactor(client *mongo.Client, enabled bool) *Transactor {
	return &Transactor{client: client, enabled: enabled}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Repositories holds one repository per collection.
type Repositories struct {
	Users           *UserRepository
	Projects        *ProjectRepository
	Roles           *RoleRepository
	ProductBacklogs *ProductBacklogRepository
	SprintBacklogs  *SprintBacklogRepository
	Epics           *EpicRepository
	UserStories     *UserStoryRepository
	TestCases       *TestCaseRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:           NewUserRepository(db),
		Projects:        NewProjectRepository(db),
		Roles:           NewRoleRepository(db),
		ProductBacklogs: NewProductBacklogRepository(db),
		SprintBacklogs:  NewSprintBacklogRepository(db),
		Epics:           NewEpicRepository(db),
		UserStories:     NewUserStoryRepository(db),
		TestCases:       NewTestCaseRepository(db),
	}
}

// EnsureIndexes creates the lookup indexes and the unique constraints that
// back the conflict errors of the repositories.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", r.Users.EnsureIndexes},
		{"projects", r.Projects.EnsureIndexes},
		{"roles", r.Roles.EnsureIndexes},
		{"product_backlogs", r.ProductBacklogs.EnsureIndexes},
		{"sprint_backlogs", r.SprintBacklogs.EnsureIndexes},
		{"epics", r.Epics.EnsureIndexes},
		{"user_stories", r.UserStories.EnsureIndexes},
		{"test_cases", r.TestCases.EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	return nil
}

// ── shared helpers ───────────────────────────────────────────────────────────

// idFilter matches a document by its hex ObjectID. A malformed id cannot
// exist, so it reports notFound.
func idFilter(id string, notFound error) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound
	}
	return bson.M{"_id": oid}, nil
}

func findOne[D any](ctx context.Context, col *mongo.Collection, filter bson.M, notFound error) (*D, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc D
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &doc, nil
}

func findMany[D any](ctx context.Context, col *mongo.Collection, filter bson.M) ([]D, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", col.Name(), err)
	}

	docs := make([]D, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return docs, nil
}

func count(ctx context.Context, col *mongo.Collection, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", col.Name(), err)
	}
	return n, nil
}

// insert stores doc and maps a unique index violation to conflict.
func insert(ctx context.Context, col *mongo.Collection, doc interface{}, conflict error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		if conflict != nil && mongo.IsDuplicateKeyError(err) {
			return conflict
		}
		return fmt.Errorf("insert %s: %w", col.Name(), err)
	}
	return nil
}

func updateByID(ctx context.Context, col *mongo.Collection, id string, set bson.M, notFound, conflict error) error {
	filter, err := idFilter(id, notFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		if conflict != nil && mongo.IsDuplicateKeyError(err) {
			return conflict
		}
		return fmt.Errorf("update %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

func updateMany(ctx context.Context, col *mongo.Collection, filter, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.UpdateMany(ctx, filter, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("update %s: %w", col.Name(), err)
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string, notFound error) error {
	filter, err := idFilter(id, notFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

func deleteMany(ctx context.Context, col *mongo.Collection, filter bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete %s: %w", col.Name(), err)
	}
	return nil
}

func createIndexes(ctx context.Context, col *mongo.Collection, indexes ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := col.Indexes().CreateMany(ctx, indexes)
	return err
}

func hex(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}
