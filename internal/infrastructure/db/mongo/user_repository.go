package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

const usersCollection = "users"

type UserRepository struct {
	col *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FullName     string             `bson:"full_name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Privilege    string             `bson:"privilege"`
	ProjectID    string             `bson:"project_id,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           hex(d.ID),
		FullName:     d.FullName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Privilege:    domain.Privilege(d.Privilege),
		ProjectID:    d.ProjectID,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// Create relies on the unique email index, so concurrent signups with the
// same address yield exactly one account.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		FullName:     user.FullName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Privilege:    string(user.Privilege),
		ProjectID:    user.ProjectID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := insert(ctx, r.col, doc, domain.ErrUserExists); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	filter, err := idFilter(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[userDoc](ctx, r.col, filter, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	doc, err := findOne[userDoc](ctx, r.col, bson.M{"email": email}, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.User, error) {
	docs, err := findMany[userDoc](ctx, r.col, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) SetProject(ctx context.Context, userID, projectID string) error {
	return updateByID(ctx, r.col, userID, bson.M{
		"project_id": projectID,
		"updated_at": time.Now().UTC(),
	}, domain.ErrUserNotFound, nil)
}

func (r *UserRepository) DetachProject(ctx context.Context, projectID string) error {
	return updateMany(ctx, r.col, bson.M{"project_id": projectID}, bson.M{
		"project_id": "",
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		mongo.IndexModel{Keys: bson.D{{Key: "project_id", Value: 1}}},
	)
}
