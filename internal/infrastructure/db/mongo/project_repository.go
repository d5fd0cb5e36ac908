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
	projectsCollection = "projects"
	rolesCollection    = "roles"
)

type ProjectRepository struct {
	col *mongo.Collection
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(projectsCollection)}
}

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	OwnerID     string             `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *projectDoc) toDomain() *domain.Project {
	return &domain.Project{
		ID:          hex(d.ID),
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create rejects a second project for the same owner through the unique
// owner_id index.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	doc := projectDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if err := insert(ctx, r.col, doc, domain.ErrAlreadyInProject); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	filter, err := idFilter(id, domain.ErrProjectNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[projectDoc](ctx, r.col, filter, domain.ErrProjectNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	return updateByID(ctx, r.col, p.ID, bson.M{
		"name":        p.Name,
		"description": p.Description,
		"updated_at":  p.UpdatedAt,
	}, domain.ErrProjectNotFound, nil)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrProjectNotFound)
}

func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	)
}

type RoleRepository struct {
	col *mongo.Collection
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(rolesCollection)}
}

type roleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	ProjectID   string             `bson:"project_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *roleDoc) toDomain() *domain.Role {
	return &domain.Role{
		ID:          hex(d.ID),
		Name:        d.Name,
		Description: d.Description,
		ProjectID:   d.ProjectID,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	doc := roleDoc{
		ID:          primitive.NewObjectID(),
		Name:        role.Name,
		Description: role.Description,
		ProjectID:   role.ProjectID,
		CreatedAt:   role.CreatedAt,
	}
	if err := insert(ctx, r.col, doc, domain.ErrRoleExists); err != nil {
		return err
	}
	role.ID = doc.ID.Hex()
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	filter, err := idFilter(id, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[roleDoc](ctx, r.col, filter, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) FindByName(ctx context.Context, projectID, name string) (*domain.Role, error) {
	doc, err := findOne[roleDoc](ctx, r.col, bson.M{"project_id": projectID, "name": name}, domain.ErrRoleNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Role, error) {
	docs, err := findMany[roleDoc](ctx, r.col, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	return updateByID(ctx, r.col, role.ID, bson.M{
		"name":        role.Name,
		"description": role.Description,
	}, domain.ErrRoleNotFound, domain.ErrRoleExists)
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrRoleNotFound)
}

func (r *RoleRepository) DeleteByProject(ctx context.Context, projectID string) error {
	return deleteMany(ctx, r.col, bson.M{"project_id": projectID})
}

func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
}
