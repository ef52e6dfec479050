package issue

import (
	"context"
	"testing"
	"time"

	"pgregory.net/rapid"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/domain/catalogs/book"
)

// TestLedgerInvariants drives the ledger with random operation
// sequences and checks after every step that a copy never carries more
// than one open loan and that its status agrees with the ledger.
func TestLedgerInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		f := newFixture()

		emp := f.employees.add(true)
		rdr := f.readers.add(true)

		copyCount := rapid.IntRange(1, 4).Draw(rt, "copies")
		copyIDs := make([]id.ID, copyCount)
		for i := range copyIDs {
			copyIDs[i] = f.copies.add(book.CopyStatusAvailable).ID
		}

		var issued []id.ID // issue documents created so far

		pickCopy := func(rt *rapid.T) id.ID {
			return copyIDs[rapid.IntRange(0, copyCount-1).Draw(rt, "copy")]
		}

		rt.Repeat(map[string]func(*rapid.T){
			"issue": func(rt *rapid.T) {
				doc, err := f.svc.Issue(ctx, IssueRequest{
					CopyID:     pickCopy(rt),
					ReaderID:   rdr.ID,
					EmployeeID: emp.ID,
					DueDate:    time.Now().UTC().AddDate(0, 0, rapid.IntRange(1, 30).Draw(rt, "days")),
				})
				if err != nil {
					// only a busy copy may refuse
					if !apperror.IsConflict(err) {
						rt.Fatalf("unexpected issue error: %v", err)
					}
					return
				}
				issued = append(issued, doc.ID)
			},
			"return": func(rt *rapid.T) {
				if len(issued) == 0 {
					rt.Skip()
				}
				issueID := issued[rapid.IntRange(0, len(issued)-1).Draw(rt, "issue")]
				_, err := f.svc.Return(ctx, issueID, ReturnRequest{EmployeeID: emp.ID})
				if err != nil && !apperror.IsConflict(err) {
					rt.Fatalf("unexpected return error: %v", err)
				}
			},
			"extend": func(rt *rapid.T) {
				if len(issued) == 0 {
					rt.Skip()
				}
				issueID := issued[rapid.IntRange(0, len(issued)-1).Draw(rt, "issue")]
				_, err := f.svc.Extend(ctx, issueID, ExtendRequest{
					NewDueDate: time.Now().UTC().AddDate(0, 0, 60),
				})
				if err != nil && !apperror.IsConflict(err) && !apperror.IsValidation(err) {
					rt.Fatalf("unexpected extend error: %v", err)
				}
			},
			"": func(rt *rapid.T) {
				// invariant check after every step
				for _, copyID := range copyIDs {
					open := 0
					for _, doc := range f.repo.items {
						if doc.CopyID == copyID && !doc.IsReturned {
							open++
						}
					}
					if open > 1 {
						rt.Fatalf("copy %s has %d open loans", copyID, open)
					}

					c, err := f.copies.GetCopyForUpdate(ctx, copyID)
					if err != nil {
						rt.Fatalf("copy lookup: %v", err)
					}
					if (c.Status == book.CopyStatusIssued) != (open == 1) {
						rt.Fatalf("copy %s status %s disagrees with %d open loans", copyID, c.Status, open)
					}
				}
			},
		})
	})
}
