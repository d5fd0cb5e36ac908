package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/ports"
)

const (
	epicsCollection       = "epics"
	userStoriesCollection = "user_stories"
	testCasesCollection   = "test_cases"
)

// ── epics ────────────────────────────────────────────────────────────────────

type EpicRepository struct {
	col *mongo.Collection
}

var _ ports.EpicRepository = (*EpicRepository)(nil)

func NewEpicRepository(db *mongo.Database) *EpicRepository {
	return &EpicRepository{col: db.Collection(epicsCollection)}
}

type epicDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Description      string             `bson:"description"`
	Priority         string             `bson:"priority"`
	Status           string             `bson:"status"`
	DueDate          *time.Time         `bson:"due_date,omitempty"`
	ProductBacklogID string             `bson:"product_backlog_id"`
	SprintBacklogID  string             `bson:"sprint_backlog_id"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (d *epicDoc) toDomain() *domain.Epic {
	e := &domain.Epic{
		ID:               hex(d.ID),
		Name:             d.Name,
		Description:      d.Description,
		Priority:         domain.Priority(d.Priority),
		Status:           domain.WorkStatus(d.Status),
		ProductBacklogID: d.ProductBacklogID,
		SprintBacklogID:  d.SprintBacklogID,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		e.DueDate = &due
	}
	return e
}

func (r *EpicRepository) Create(ctx context.Context, e *domain.Epic) error {
	doc := epicDoc{
		ID:               primitive.NewObjectID(),
		Name:             e.Name,
		Description:      e.Description,
		Priority:         string(e.Priority),
		Status:           string(e.Status),
		DueDate:          e.DueDate,
		ProductBacklogID: e.ProductBacklogID,
		SprintBacklogID:  e.SprintBacklogID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if err := insert(ctx, r.col, doc, nil); err != nil {
		return err
	}
	e.ID = doc.ID.Hex()
	return nil
}

func (r *EpicRepository) FindByID(ctx context.Context, id string) (*domain.Epic, error) {
	filter, err := idFilter(id, domain.ErrEpicNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[epicDoc](ctx, r.col, filter, domain.ErrEpicNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *EpicRepository) ListByProductBacklog(ctx context.Context, backlogID string) ([]*domain.Epic, error) {
	return r.list(ctx, bson.M{"product_backlog_id": backlogID})
}

func (r *EpicRepository) ListBySprintBacklog(ctx context.Context, sprintID string) ([]*domain.Epic, error) {
	return r.list(ctx, bson.M{"sprint_backlog_id": sprintID})
}

func (r *EpicRepository) list(ctx context.Context, filter bson.M) ([]*domain.Epic, error) {
	docs, err := findMany[epicDoc](ctx, r.col, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Epic, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *EpicRepository) Update(ctx context.Context, e *domain.Epic) error {
	return updateByID(ctx, r.col, e.ID, bson.M{
		"name":              e.Name,
		"description":       e.Description,
		"priority":          string(e.Priority),
		"status":            string(e.Status),
		"due_date":          e.DueDate,
		"sprint_backlog_id": e.SprintBacklogID,
		"updated_at":        e.UpdatedAt,
	}, domain.ErrEpicNotFound, nil)
}

func (r *EpicRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrEpicNotFound)
}

func (r *EpicRepository) DeleteByProductBacklog(ctx context.Context, backlogID string) error {
	return deleteMany(ctx, r.col, bson.M{"product_backlog_id": backlogID})
}

func (r *EpicRepository) UnlinkSprintBacklog(ctx context.Context, sprintID string) error {
	return updateMany(ctx, r.col, bson.M{"sprint_backlog_id": sprintID}, bson.M{
		"sprint_backlog_id": "",
		"updated_at":        time.Now().UTC(),
	})
}

func (r *EpicRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "product_backlog_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "sprint_backlog_id", Value: 1}}},
	)
}

// ── user stories ─────────────────────────────────────────────────────────────

type UserStoryRepository struct {
	col *mongo.Collection
}

var _ ports.UserStoryRepository = (*UserStoryRepository)(nil)

func NewUserStoryRepository(db *mongo.Database) *UserStoryRepository {
	return &UserStoryRepository{col: db.Collection(userStoriesCollection)}
}

type userStoryDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	Description      string             `bson:"description"`
	Priority         string             `bson:"priority"`
	Status           string             `bson:"status"`
	ProductBacklogID string             `bson:"product_backlog_id"`
	RoleID           string             `bson:"role_id"`
	EpicID           string             `bson:"epic_id"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (d *userStoryDoc) toDomain() *domain.UserStory {
	return &domain.UserStory{
		ID:               hex(d.ID),
		Title:            d.Title,
		Description:      d.Description,
		Priority:         domain.Priority(d.Priority),
		Status:           domain.WorkStatus(d.Status),
		ProductBacklogID: d.ProductBacklogID,
		RoleID:           d.RoleID,
		EpicID:           d.EpicID,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

func (r *UserStoryRepository) Create(ctx context.Context, s *domain.UserStory) error {
	doc := userStoryDoc{
		ID:               primitive.NewObjectID(),
		Title:            s.Title,
		Description:      s.Description,
		Priority:         string(s.Priority),
		Status:           string(s.Status),
		ProductBacklogID: s.ProductBacklogID,
		RoleID:           s.RoleID,
		EpicID:           s.EpicID,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if err := insert(ctx, r.col, doc, nil); err != nil {
		return err
	}
	s.ID = doc.ID.Hex()
	return nil
}

func (r *UserStoryRepository) FindByID(ctx context.Context, id string) (*domain.UserStory, error) {
	filter, err := idFilter(id, domain.ErrUserStoryNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[userStoryDoc](ctx, r.col, filter, domain.ErrUserStoryNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserStoryRepository) ListByProductBacklog(ctx context.Context, backlogID string) ([]*domain.UserStory, error) {
	return r.list(ctx, bson.M{"product_backlog_id": backlogID})
}

func (r *UserStoryRepository) ListByRole(ctx context.Context, roleID string) ([]*domain.UserStory, error) {
	return r.list(ctx, bson.M{"role_id": roleID})
}

func (r *UserStoryRepository) ListByEpic(ctx context.Context, epicID string) ([]*domain.UserStory, error) {
	return r.list(ctx, bson.M{"epic_id": epicID})
}

func (r *UserStoryRepository) list(ctx context.Context, filter bson.M) ([]*domain.UserStory, error) {
	docs, err := findMany[userStoryDoc](ctx, r.col, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.UserStory, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *UserStoryRepository) CountByEpic(ctx context.Context, epicID string) (int64, error) {
	return count(ctx, r.col, bson.M{"epic_id": epicID})
}

func (r *UserStoryRepository) CountByRole(ctx context.Context, roleID string) (int64, error) {
	return count(ctx, r.col, bson.M{"role_id": roleID})
}

// Update writes the editable fields and the epic link; status has its own
// writer.
func (r *UserStoryRepository) Update(ctx context.Context, s *domain.UserStory) error {
	return updateByID(ctx, r.col, s.ID, bson.M{
		"title":       s.Title,
		"description": s.Description,
		"priority":    string(s.Priority),
		"epic_id":     s.EpicID,
		"updated_at":  s.UpdatedAt,
	}, domain.ErrUserStoryNotFound, nil)
}

func (r *UserStoryRepository) UpdateStatus(ctx context.Context, id string, status domain.WorkStatus) error {
	return updateByID(ctx, r.col, id, bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}, domain.ErrUserStoryNotFound, nil)
}

func (r *UserStoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrUserStoryNotFound)
}

func (r *UserStoryRepository) DeleteByProductBacklog(ctx context.Context, backlogID string) error {
	return deleteMany(ctx, r.col, bson.M{"product_backlog_id": backlogID})
}

func (r *UserStoryRepository) UnlinkEpic(ctx context.Context, epicID string) error {
	return updateMany(ctx, r.col, bson.M{"epic_id": epicID}, bson.M{
		"epic_id":    "",
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserStoryRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "product_backlog_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "role_id", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "epic_id", Value: 1}}},
	)
}

// ── test cases ───────────────────────────────────────────────────────────────

type TestCaseRepository struct {
	col *mongo.Collection
}

var _ ports.TestCaseRepository = (*TestCaseRepository)(nil)

func NewTestCaseRepository(db *mongo.Database) *TestCaseRepository {
	return &TestCaseRepository{col: db.Collection(testCasesCollection)}
}

type testCaseDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Result      string             `bson:"result,omitempty"`
	UserStoryID string             `bson:"user_story_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *testCaseDoc) toDomain() *domain.TestCase {
	return &domain.TestCase{
		ID:          hex(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Result:      domain.TestResult(d.Result),
		UserStoryID: d.UserStoryID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *TestCaseRepository) Create(ctx context.Context, tc *domain.TestCase) error {
	doc := testCaseDoc{
		ID:          primitive.NewObjectID(),
		Title:       tc.Title,
		Description: tc.Description,
		Result:      string(tc.Result),
		UserStoryID: tc.UserStoryID,
		CreatedAt:   tc.CreatedAt,
		UpdatedAt:   tc.UpdatedAt,
	}
	if err := insert(ctx, r.col, doc, nil); err != nil {
		return err
	}
	tc.ID = doc.ID.Hex()
	return nil
}

func (r *TestCaseRepository) FindByID(ctx context.Context, id string) (*domain.TestCase, error) {
	filter, err := idFilter(id, domain.ErrTestCaseNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[testCaseDoc](ctx, r.col, filter, domain.ErrTestCaseNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *TestCaseRepository) ListByUserStory(ctx context.Context, storyID string) ([]*domain.TestCase, error) {
	docs, err := findMany[testCaseDoc](ctx, r.col, bson.M{"user_story_id": storyID})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.TestCase, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *TestCaseRepository) Update(ctx context.Context, tc *domain.TestCase) error {
	return updateByID(ctx, r.col, tc.ID, bson.M{
		"title":       tc.Title,
		"description": tc.Description,
		"result":      string(tc.Result),
		"updated_at":  tc.UpdatedAt,
	}, domain.ErrTestCaseNotFound, nil)
}

func (r *TestCaseRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrTestCaseNotFound)
}

func (r *TestCaseRepository) DeleteByUserStory(ctx context.Context, storyID string) error {
	return deleteMany(ctx, r.col, bson.M{"user_story_id": storyID})
}

func (r *TestCaseRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col,
		mongo.IndexModel{Keys: bson.D{{Key: "user_story_id", Value: 1}}},
	)
}
