package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	catalogdto "shelfmate/internal/modules/catalog/dto"
	identitydto "shelfmate/internal/modules/identity/dto"
	libraryout "shelfmate/internal/modules/library/adapter/out"
	"shelfmate/internal/modules/library/dto"
	libraryin "shelfmate/internal/modules/library/port/in"
	"shelfmate/internal/modules/library/service"
	"shelfmate/internal/modules/library/usecase"
	"shelfmate/internal/platform/clock"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type fakeIdentity struct {
	uid      string
	finished map[string]int
}

func (f *fakeIdentity) Register(context.Context, identitydto.RegisterInput) (identitydto.ProfileOutput, error) {
	return identitydto.ProfileOutput{}, nil
}
func (f *fakeIdentity) Login(context.Context, identitydto.LoginInput) (identitydto.LoginOutput, error) {
	return identitydto.LoginOutput{}, nil
}
func (f *fakeIdentity) Logout(context.Context) error { return nil }
func (f *fakeIdentity) Current(context.Context) (string, error) {
	if f.uid == "" {
		return "", apperrors.ErrUnauthenticated
	}
	return f.uid, nil
}
func (f *fakeIdentity) Subscribe(func(string)) func() { return func() {} }
func (f *fakeIdentity) Profile(context.Context) (identitydto.ProfileOutput, error) {
	return identitydto.ProfileOutput{}, nil
}
func (f *fakeIdentity) Rename(context.Context, string) (identitydto.ProfileOutput, error) {
	return identitydto.ProfileOutput{}, nil
}
func (f *fakeIdentity) CreditPoints(context.Context, identitydto.CreditInput) (bool, error) {
	return false, nil
}
func (f *fakeIdentity) RecordBookFinished(_ context.Context, userID string) error {
	f.finished[userID]++
	return nil
}

type fakeCatalog struct {
	books []catalogdto.BookResult
	err   error
}

func (f fakeCatalog) Search(context.Context, catalogdto.SearchInput) ([]catalogdto.BookResult, error) {
	return f.books, f.err
}
func (f fakeCatalog) LookupISBN(context.Context, catalogdto.LookupInput) ([]catalogdto.BookResult, error) {
	return f.books, f.err
}
func (f fakeCatalog) ListPlugins(context.Context) ([]catalogdto.PluginInfo, error) { return nil, nil }
func (f fakeCatalog) Doctor(context.Context) ([]catalogdto.DoctorResult, error)   { return nil, nil }

type harness struct {
	uc       libraryin.Usecase
	identity *fakeIdentity
	dataDir  string
}

func newHarness(t *testing.T, catalog fakeCatalog) harness {
	t.Helper()
	dataDir := t.TempDir()
	db, err := sqlitestore.Open(filepath.Join(dataDir, ".shelfmate", "shelfmate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	identity := &fakeIdentity{uid: "u1", finished: map[string]int{}}
	svc := service.NewBookService(
		clock.Fixed(time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)),
		libraryout.NewSQLiteBookStore(db),
		libraryout.NewVaultBookNotes(dataDir),
		libraryout.NewPDFPageCounter(),
		320,
		nil,
	)
	return harness{uc: usecase.NewInteractor(svc, identity, catalog, tx.NewSQLManager(db)), identity: identity, dataDir: dataDir}
}

func TestAddBookFromCatalogAndTrackProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, fakeCatalog{books: []catalogdto.BookResult{{ISBN: "9788936433598", Title: "채식주의자", Authors: []string{"한강"}}}})

	added, err := h.uc.AddBook(ctx, dto.AddBookInput{ISBN: "9788936433598"})
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	if added.Title != "채식주의자" || added.TotalPages != 320 || added.NotePath == "" {
		t.Fatalf("unexpected added book: %+v", added)
	}
	if _, err := h.uc.AddBook(ctx, dto.AddBookInput{ISBN: "9788936433598", Title: "again"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	if _, err := h.uc.SetTotalPages(ctx, "9788936433598", 200); err != nil {
		t.Fatalf("set total: %v", err)
	}
	book, err := h.uc.SetReadPages(ctx, "9788936433598", 500)
	if err != nil {
		t.Fatalf("set read: %v", err)
	}
	if book.ReadPages != 200 || !book.Finished || book.Percent != 100 {
		t.Fatalf("expected clamp and finish, got %+v", book)
	}
	if _, err := h.uc.SetReadPages(ctx, "9788936433598", 10); err != nil {
		t.Fatalf("set read: %v", err)
	}
	if _, err := h.uc.SetReadPages(ctx, "9788936433598", 200); err != nil {
		t.Fatalf("set read: %v", err)
	}
	if h.identity.finished["u1"] != 1 {
		t.Fatalf("expected one finished book, got %d", h.identity.finished["u1"])
	}

	note, err := os.ReadFile(added.NotePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(note), "- Progress: 200/200 pages (100%)") || !strings.Contains(string(note), "isbn: \"9788936433598\"") {
		t.Fatalf("unexpected note:\n%s", note)
	}
}

func TestApplyReadingDeltaClampsAndCreditsFinish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, fakeCatalog{})
	if _, err := h.uc.AddBook(ctx, dto.AddBookInput{ISBN: "1", Title: "Short", TotalPages: 50}); err != nil {
		t.Fatalf("add book: %v", err)
	}
	book, err := h.uc.ApplyReadingDelta(ctx, dto.ReadingDeltaInput{UserID: "u1", ISBN: "1", Delta: 30})
	if err != nil || book.ReadPages != 30 {
		t.Fatalf("unexpected delta result %+v err=%v", book, err)
	}
	book, err = h.uc.ApplyReadingDelta(ctx, dto.ReadingDeltaInput{UserID: "u1", ISBN: "1", Delta: 30})
	if err != nil || book.ReadPages != 50 || !book.Finished {
		t.Fatalf("expected clamp to total, got %+v err=%v", book, err)
	}
	if h.identity.finished["u1"] != 1 {
		t.Fatalf("expected finish credited once")
	}
	if _, err := h.uc.ApplyReadingDelta(ctx, dto.ReadingDeltaInput{UserID: "u1", ISBN: "missing", Delta: 3}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFavoritesSummaryAndRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, fakeCatalog{})
	for _, isbn := range []string{"1", "2"} {
		if _, err := h.uc.AddBook(ctx, dto.AddBookInput{ISBN: isbn, Title: "Book " + isbn}); err != nil {
			t.Fatalf("add %s: %v", isbn, err)
		}
	}
	fav, err := h.uc.ToggleFavorite(ctx, "2")
	if err != nil || !fav.Favorite {
		t.Fatalf("toggle favorite: %+v err=%v", fav, err)
	}
	favorites, err := h.uc.ListFavorites(ctx)
	if err != nil || len(favorites) != 1 || favorites[0].ISBN != "2" {
		t.Fatalf("unexpected favorites %+v err=%v", favorites, err)
	}
	if book, err := h.uc.SetSummary(ctx, "1", "  quiet and sharp  "); err != nil || book.Summary != "quiet and sharp" {
		t.Fatalf("set summary: %+v err=%v", book, err)
	}
	if err := h.uc.RemoveBook(ctx, "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := h.uc.GetBook(ctx, "1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
	all, err := h.uc.ListBooks(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one remaining book, got %d err=%v", len(all), err)
	}
	h.identity.uid = ""
	if _, err := h.uc.ListBooks(ctx); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAddBookWithoutTitleWhenCatalogDown(t *testing.T) {
	t.Parallel()
	h := newHarness(t, fakeCatalog{err: apperrors.Wrap(apperrors.ErrLookupUnavailable, "lookup", errors.New("offline"))})
	if _, err := h.uc.AddBook(context.Background(), dto.AddBookInput{ISBN: "1"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
