package issue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/domain"
	"librarium/internal/domain/catalogs/book"
	"librarium/internal/domain/catalogs/employee"
	"librarium/internal/domain/catalogs/reader"
)

// fakeTxManager runs the function directly, without a database.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeIssueRepo struct {
	items map[id.ID]*Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{items: make(map[id.ID]*Issue)}
}

func (r *fakeIssueRepo) Create(_ context.Context, doc *Issue) error {
	// Mirrors the partial unique index on open loans
	for _, existing := range r.items {
		if existing.CopyID == doc.CopyID && !existing.IsReturned {
			return apperror.NewConflict("copy already has an open loan")
		}
	}
	cp := *doc
	r.items[doc.ID] = &cp
	return nil
}

func (r *fakeIssueRepo) GetByID(_ context.Context, issueID id.ID) (*Issue, error) {
	doc, ok := r.items[issueID]
	if !ok {
		return nil, apperror.NewNotFound("issue", issueID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeIssueRepo) GetForUpdate(ctx context.Context, issueID id.ID) (*Issue, error) {
	return r.GetByID(ctx, issueID)
}

func (r *fakeIssueRepo) GetOpenByCopy(_ context.Context, copyID id.ID) (*Issue, error) {
	for _, doc := range r.items {
		if doc.CopyID == copyID && !doc.IsReturned {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("open issue for copy", copyID.String())
}

func (r *fakeIssueRepo) Update(_ context.Context, doc *Issue) error {
	existing, ok := r.items[doc.ID]
	if !ok {
		return apperror.NewNotFound("issue", doc.ID.String())
	}
	if existing.Version != doc.Version {
		return apperror.NewConcurrentModification("issue", doc.ID)
	}
	cp := *doc
	cp.Version++
	r.items[doc.ID] = &cp
	return nil
}

func (r *fakeIssueRepo) List(_ context.Context, filter Filter) (domain.ListResult[*Issue], error) {
	var items []*Issue
	now := time.Now().UTC()
	for _, doc := range r.items {
		if filter.ReaderID != nil && doc.ReaderID != *filter.ReaderID {
			continue
		}
		if filter.CopyID != nil && doc.CopyID != *filter.CopyID {
			continue
		}
		if filter.OnlyOpen && doc.IsReturned {
			continue
		}
		if filter.OnlyOverdue && !doc.Overdue(now) {
			continue
		}
		cp := *doc
		items = append(items, &cp)
	}
	return domain.ListResult[*Issue]{Items: items, TotalCount: int64(len(items))}, nil
}

type fakeCopyStore struct {
	copies map[id.ID]*book.Copy
}

func newFakeCopyStore() *fakeCopyStore {
	return &fakeCopyStore{copies: make(map[id.ID]*book.Copy)}
}

func (s *fakeCopyStore) add(status book.CopyStatus) *book.Copy {
	c := book.NewCopy(id.New(), 1)
	c.Status = status
	s.copies[c.ID] = c
	return c
}

func (s *fakeCopyStore) GetCopyForUpdate(_ context.Context, copyID id.ID) (*book.Copy, error) {
	c, ok := s.copies[copyID]
	if !ok {
		return nil, apperror.NewNotFound("book copy", copyID.String())
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCopyStore) UpdateCopy(_ context.Context, c *book.Copy) error {
	if _, ok := s.copies[c.ID]; !ok {
		return apperror.NewNotFound("book copy", c.ID.String())
	}
	cp := *c
	s.copies[c.ID] = &cp
	return nil
}

type fakeReaderStore struct {
	readers map[id.ID]*reader.Reader
}

func (s *fakeReaderStore) add(active bool) *reader.Reader {
	email := "reader@example.com"
	r := reader.New("Reader", &email)
	r.IsActive = active
	s.readers[r.ID] = r
	return r
}

func (s *fakeReaderStore) GetByID(_ context.Context, readerID id.ID) (*reader.Reader, error) {
	r, ok := s.readers[readerID]
	if !ok {
		return nil, apperror.NewNotFound("reader", readerID.String())
	}
	return r, nil
}

type fakeEmployeeStore struct {
	employees map[id.ID]*employee.Employee
}

func (s *fakeEmployeeStore) add(active bool) *employee.Employee {
	e := employee.New("Librarian", "lib", "lib@library.local", employee.RoleLibrarian)
	e.IsActive = active
	s.employees[e.ID] = e
	return e
}

func (s *fakeEmployeeStore) GetByID(_ context.Context, employeeID id.ID) (*employee.Employee, error) {
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, apperror.NewNotFound("employee", employeeID.String())
	}
	return e, nil
}

type fixture struct {
	svc       *Service
	repo      *fakeIssueRepo
	copies    *fakeCopyStore
	readers   *fakeReaderStore
	employees *fakeEmployeeStore
}

func newFixture() *fixture {
	repo := newFakeIssueRepo()
	copies := newFakeCopyStore()
	readers := &fakeReaderStore{readers: make(map[id.ID]*reader.Reader)}
	employees := &fakeEmployeeStore{employees: make(map[id.ID]*employee.Employee)}
	return &fixture{
		svc:       NewService(repo, copies, readers, employees, fakeTxManager{}, nil),
		repo:      repo,
		copies:    copies,
		readers:   readers,
		employees: employees,
	}
}

func dueIn(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, days)
}

func TestIssueHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	emp := f.employees.add(true)

	doc, err := f.svc.Issue(ctx, IssueRequest{
		CopyID:     copy.ID,
		ReaderID:   rdr.ID,
		EmployeeID: emp.ID,
		DueDate:    dueIn(14),
	})
	require.NoError(t, err)

	assert.Equal(t, copy.ID, doc.CopyID)
	assert.Equal(t, rdr.ID, doc.ReaderID)
	assert.Equal(t, emp.ID, doc.EmployeeIssuedID)
	assert.False(t, doc.IsReturned)

	stored, err := f.copies.GetCopyForUpdate(ctx, copy.ID)
	require.NoError(t, err)
	assert.Equal(t, book.CopyStatusIssued, stored.Status)
}

func TestIssueUnavailableCopy(t *testing.T) {
	ctx := context.Background()

	for _, status := range []book.CopyStatus{book.CopyStatusIssued, book.CopyStatusLost, book.CopyStatusRepair} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			copy := f.copies.add(status)
			rdr := f.readers.add(true)
			emp := f.employees.add(true)

			_, err := f.svc.Issue(ctx, IssueRequest{
				CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
			})
			assert.True(t, apperror.IsConflict(err))
		})
	}
}

func TestIssuePastDueDate(t *testing.T) {
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	emp := f.employees.add(true)

	_, err := f.svc.Issue(context.Background(), IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(-2),
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestIssueInactiveReader(t *testing.T) {
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(false)
	emp := f.employees.add(true)

	_, err := f.svc.Issue(context.Background(), IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestIssueMissingReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	emp := f.employees.add(true)

	_, err := f.svc.Issue(ctx, IssueRequest{
		CopyID: id.New(), ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: id.New(), EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: id.New(), DueDate: dueIn(7),
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestDoubleIssueSameCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	emp := f.employees.add(true)

	_, err := f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	require.NoError(t, err)

	_, err = f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestReturnHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	issuer := f.employees.add(true)
	receiver := f.employees.add(true)

	doc, err := f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: issuer.ID, DueDate: dueIn(7),
	})
	require.NoError(t, err)

	returned, err := f.svc.Return(ctx, doc.ID, ReturnRequest{EmployeeID: receiver.ID})
	require.NoError(t, err)

	assert.True(t, returned.IsReturned)
	require.NotNil(t, returned.ReturnDate)
	require.NotNil(t, returned.EmployeeReceivedID)
	assert.Equal(t, receiver.ID, *returned.EmployeeReceivedID)
	// issuer and receiver may differ
	assert.NotEqual(t, returned.EmployeeIssuedID, *returned.EmployeeReceivedID)

	stored, err := f.copies.GetCopyForUpdate(ctx, copy.ID)
	require.NoError(t, err)
	assert.Equal(t, book.CopyStatusAvailable, stored.Status)
}

func TestReturnTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	emp := f.employees.add(true)

	doc, err := f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	require.NoError(t, err)

	_, err = f.svc.Return(ctx, doc.ID, ReturnRequest{EmployeeID: emp.ID})
	require.NoError(t, err)

	_, err = f.svc.Return(ctx, doc.ID, ReturnRequest{EmployeeID: emp.ID})
	assert.True(t, apperror.IsConflict(err))
}

func TestReturnKeepsLostCopyLost(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	emp := f.employees.add(true)

	doc, err := f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	require.NoError(t, err)

	// copy reported lost while on loan
	lost, err := f.copies.GetCopyForUpdate(ctx, copy.ID)
	require.NoError(t, err)
	lost.Status = book.CopyStatusLost
	require.NoError(t, f.copies.UpdateCopy(ctx, lost))

	_, err = f.svc.Return(ctx, doc.ID, ReturnRequest{EmployeeID: emp.ID})
	require.NoError(t, err)

	stored, err := f.copies.GetCopyForUpdate(ctx, copy.ID)
	require.NoError(t, err)
	assert.Equal(t, book.CopyStatusLost, stored.Status)
}

func TestExtend(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	copy := f.copies.add(book.CopyStatusAvailable)
	rdr := f.readers.add(true)
	emp := f.employees.add(true)

	doc, err := f.svc.Issue(ctx, IssueRequest{
		CopyID: copy.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7),
	})
	require.NoError(t, err)

	t.Run("shortening rejected", func(t *testing.T) {
		_, err := f.svc.Extend(ctx, doc.ID, ExtendRequest{NewDueDate: dueIn(3)})
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("forward extension", func(t *testing.T) {
		extended, err := f.svc.Extend(ctx, doc.ID, ExtendRequest{NewDueDate: dueIn(21)})
		require.NoError(t, err)
		assert.True(t, extended.IsExtended)
		assert.WithinDuration(t, dueIn(21), extended.DueDate, time.Second)
	})

	t.Run("closed loan rejected", func(t *testing.T) {
		_, err := f.svc.Return(ctx, doc.ID, ReturnRequest{EmployeeID: emp.ID})
		require.NoError(t, err)

		_, err = f.svc.Extend(ctx, doc.ID, ExtendRequest{NewDueDate: dueIn(30)})
		assert.True(t, apperror.IsConflict(err))
	})
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	rdr := f.readers.add(true)
	other := f.readers.add(true)
	emp := f.employees.add(true)

	c1 := f.copies.add(book.CopyStatusAvailable)
	c2 := f.copies.add(book.CopyStatusAvailable)

	d1, err := f.svc.Issue(ctx, IssueRequest{CopyID: c1.ID, ReaderID: rdr.ID, EmployeeID: emp.ID, DueDate: dueIn(7)})
	require.NoError(t, err)
	_, err = f.svc.Issue(ctx, IssueRequest{CopyID: c2.ID, ReaderID: other.ID, EmployeeID: emp.ID, DueDate: dueIn(7)})
	require.NoError(t, err)

	_, err = f.svc.Return(ctx, d1.ID, ReturnRequest{EmployeeID: emp.ID})
	require.NoError(t, err)

	open, err := f.svc.List(ctx, Filter{OnlyOpen: true, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, open.TotalCount)

	byReader, err := f.svc.List(ctx, Filter{ReaderID: &rdr.ID, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byReader.TotalCount)
}
