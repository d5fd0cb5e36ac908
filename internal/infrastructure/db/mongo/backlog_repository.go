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

const (
	productBacklogsCollection = "product_backlogs"
	sprintBacklogsCollection  = "sprint_backlogs"
)

type ProductBacklogRepository struct {
	col *mongo.Collection
}

var _ ports.ProductBacklogRepository = (*ProductBacklogRepository)(nil)

func NewProductBacklogRepository(db *mongo.Database) *ProductBacklogRepository {
	return &ProductBacklogRepository{col: db.Collection(productBacklogsCollection)}
}

type productBacklogDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	ProjectID string             `bson:"project_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *productBacklogDoc) toDomain() *domain.ProductBacklog {
	return &domain.ProductBacklog{
		ID:        hex(d.ID),
		Name:      d.Name,
		ProjectID: d.ProjectID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *ProductBacklogRepository) Create(ctx context.Context, b *domain.ProductBacklog) error {
	doc := productBacklogDoc{
		ID:        primitive.NewObjectID(),
		Name:      b.Name,
		ProjectID: b.ProjectID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if err := insert(ctx, r.col, doc, domain.ErrProductBacklogExists); err != nil {
		return err
	}
	b.ID = doc.ID.Hex()
	return nil
}

func (r *ProductBacklogRepository) FindByID(ctx context.Context, id string) (*domain.ProductBacklog, error) {
	filter, err := idFilter(id, domain.ErrProductBacklogNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[productBacklogDoc](ctx, r.col, filter, domain.ErrProductBacklogNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ProductBacklogRepository) FindByProject(ctx context.Context, projectID string) (*domain.ProductBacklog, error) {
	doc, err := findOne[productBacklogDoc](ctx, r.col, bson.M{"project_id": projectID}, domain.ErrProductBacklogNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ProductBacklogRepository) Update(ctx context.Context, b *domain.ProductBacklog) error {
	return updateByID(ctx, r.col, b.ID, bson.M{
		"name":       b.Name,
		"updated_at": b.UpdatedAt,
	}, domain.ErrProductBacklogNotFound, nil)
}

func (r *ProductBacklogRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrProductBacklogNotFound)
}

func (r *ProductBacklogRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "project_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	)
}

type SprintBacklogRepository struct {
	col *mongo.Collection
}

var _ ports.SprintBacklogRepository = (*SprintBacklogRepository)(nil)

func NewSprintBacklogRepository(db *mongo.Database) *SprintBacklogRepository {
	return &SprintBacklogRepository{col: db.Collection(sprintBacklogsCollection)}
}

type sprintBacklogDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	ProjectID   string             `bson:"project_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *sprintBacklogDoc) toDomain() *domain.SprintBacklog {
	return &domain.SprintBacklog{
		ID:          hex(d.ID),
		Name:        d.Name,
		Description: d.Description,
		ProjectID:   d.ProjectID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *SprintBacklogRepository) Create(ctx context.Context, s *domain.SprintBacklog) error {
	doc := sprintBacklogDoc{
		ID:          primitive.NewObjectID(),
		Name:        s.Name,
		Description: s.Description,
		ProjectID:   s.ProjectID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if err := insert(ctx, r.col, doc, nil); err != nil {
		return err
	}
	s.ID = doc.ID.Hex()
	return nil
}

func (r *SprintBacklogRepository) FindByID(ctx context.Context, id string) (*domain.SprintBacklog, error) {
	filter, err := idFilter(id, domain.ErrSprintBacklogNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[sprintBacklogDoc](ctx, r.col, filter, domain.ErrSprintBacklogNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *SprintBacklogRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.SprintBacklog, error) {
	docs, err := findMany[sprintBacklogDoc](ctx, r.col, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.SprintBacklog, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *SprintBacklogRepository) Update(ctx context.Context, s *domain.SprintBacklog) error {
	return updateByID(ctx, r.col, s.ID, bson.M{
		"name":        s.Name,
		"description": s.Description,
		"updated_at":  s.UpdatedAt,
	}, domain.ErrSprintBacklogNotFound, nil)
}

func (r *SprintBacklogRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrSprintBacklogNotFound)
}

func (r *SprintBacklogRepository) DeleteByProject(ctx context.Context, projectID string) error {
	return deleteMany(ctx, r.col, bson.M{"project_id": projectID})
}

func (r *SprintBacklogRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "project_id", Value: 1}}},
	)
}
