package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/domain"
)

// fakeTxManager runs the function directly, without a database.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepo is an in-memory catalog store.
type fakeRepo struct {
	items   map[id.ID]*Catalog
	deleted []id.ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[id.ID]*Catalog)}
}

func (r *fakeRepo) add(c *Catalog) *Catalog {
	r.items[c.ID] = c
	return c
}

func (r *fakeRepo) Create(_ context.Context, c *Catalog) error {
	r.items[c.ID] = c
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, cid id.ID) (*Catalog, error) {
	c, ok := r.items[cid]
	if !ok {
		return nil, apperror.NewNotFound("catalog", cid.String())
	}
	return c, nil
}

func (r *fakeRepo) Update(_ context.Context, c *Catalog) error {
	if _, ok := r.items[c.ID]; !ok {
		return apperror.NewNotFound("catalog", c.ID.String())
	}
	r.items[c.ID] = c
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, cid id.ID) error {
	delete(r.items, cid)
	r.deleted = append(r.deleted, cid)
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Catalog], error) {
	var items []*Catalog
	for _, c := range r.items {
		items = append(items, c)
	}
	return domain.ListResult[*Catalog]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) Exists(_ context.Context, cid id.ID) (bool, error) {
	_, ok := r.items[cid]
	return ok, nil
}

func (r *fakeRepo) GetChildren(_ context.Context, parentID *id.ID) ([]*Catalog, error) {
	var out []*Catalog
	for _, c := range r.items {
		if parentID == nil && c.ParentID == nil {
			out = append(out, c)
		} else if parentID != nil && c.ParentID != nil && *c.ParentID == *parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetTree(ctx context.Context, rootID *id.ID) ([]*Catalog, error) {
	if rootID == nil {
		return r.GetChildren(ctx, nil)
	}
	root, err := r.GetByID(ctx, *rootID)
	if err != nil {
		return nil, err
	}
	out := []*Catalog{root}
	children, _ := r.GetChildren(ctx, rootID)
	for _, c := range children {
		sub, _ := r.GetTree(ctx, &c.ID)
		out = append(out, sub...)
	}
	return out, nil
}

func (r *fakeRepo) GetPath(ctx context.Context, cid id.ID) ([]*Catalog, error) {
	c, err := r.GetByID(ctx, cid)
	if err != nil {
		return nil, nil
	}
	if c.ParentID == nil {
		return []*Catalog{c}, nil
	}
	parent, _ := r.GetPath(ctx, *c.ParentID)
	return append(parent, c), nil
}

func (r *fakeRepo) GetSubtreeIDs(ctx context.Context, rootID id.ID) ([]id.ID, error) {
	tree, err := r.GetTree(ctx, &rootID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]id.ID, len(tree))
	for i, c := range tree {
		ids[i] = c.ID
	}
	return ids, nil
}

func (r *fakeRepo) DeleteMany(ctx context.Context, ids []id.ID) error {
	for _, cid := range ids {
		_ = r.Delete(ctx, cid)
	}
	return nil
}

// fakePurger records which catalogs had their books deleted.
type fakePurger struct {
	purged [][]id.ID
}

func (p *fakePurger) DeleteByCatalogs(_ context.Context, ids []id.ID) (int64, error) {
	p.purged = append(p.purged, ids)
	return int64(len(ids)), nil
}

func newTestService() (*Service, *fakeRepo, *fakePurger) {
	repo := newFakeRepo()
	purger := &fakePurger{}
	return NewService(repo, purger, fakeTxManager{}), repo, purger
}

func TestCreateRequiresExistingParent(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	missing := id.New()
	err := svc.Create(ctx, New("Fiction", &missing))
	assert.True(t, apperror.IsNotFound(err))

	root := repo.add(New("Library", nil))
	assert.NoError(t, svc.Create(ctx, New("Fiction", &root.ID)))
}

func TestUpdateRejectsSelfParent(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	c := repo.add(New("Fiction", nil))
	c.ParentID = &c.ID

	err := svc.Update(ctx, c)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateRejectsCycle(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	// a -> b -> c, then re-parent a under c
	a := repo.add(New("A", nil))
	b := repo.add(New("B", &a.ID))
	c := repo.add(New("C", &b.ID))

	a.ParentID = &c.ID
	err := svc.Update(ctx, a)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// legal re-parent still works
	b.ParentID = nil
	assert.NoError(t, svc.Update(ctx, b))
}

func TestCascadeDeleteRemovesSubtreeAndBooks(t *testing.T) {
	ctx := context.Background()
	svc, repo, purger := newTestService()

	root := repo.add(New("Library", nil))
	fiction := repo.add(New("Fiction", &root.ID))
	scifi := repo.add(New("Sci-Fi", &fiction.ID))
	other := repo.add(New("Science", &root.ID))

	require.NoError(t, svc.CascadeDelete(ctx, fiction.ID))

	// fiction subtree gone, siblings intact
	_, err := svc.GetByID(ctx, fiction.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = svc.GetByID(ctx, scifi.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = svc.GetByID(ctx, other.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, root.ID)
	assert.NoError(t, err)

	// books purged for the whole subtree
	require.Len(t, purger.purged, 1)
	assert.ElementsMatch(t, []id.ID{fiction.ID, scifi.ID}, purger.purged[0])
}

func TestCascadeDeleteMissingCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	err := svc.CascadeDelete(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetPathNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.GetPath(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}
