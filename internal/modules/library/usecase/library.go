package usecase

import (
	"context"
	"errors"

	catalogdto "shelfmate/internal/modules/catalog/dto"
	catalogin "shelfmate/internal/modules/catalog/port/in"
	identityin "shelfmate/internal/modules/identity/port/in"
	"shelfmate/internal/modules/library/domain"
	"shelfmate/internal/modules/library/dto"
	libraryin "shelfmate/internal/modules/library/port/in"
	"shelfmate/internal/modules/library/service"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/tx"
)

type Interactor struct {
	svc      *service.BookService
	identity identityin.Usecase
	catalog  catalogin.Usecase
	txm      tx.Manager
}

func NewInteractor(svc *service.BookService, identity identityin.Usecase, catalog catalogin.Usecase, txm tx.Manager) libraryin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, identity: identity, catalog: catalog, txm: txm}
}

func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return dto.BookOutput{}, err
	}
	draft := domain.Book{
		ISBN:       input.ISBN,
		Title:      input.Title,
		Authors:    input.Authors,
		Publisher:  input.Publisher,
		Thumbnail:  input.Thumbnail,
		Contents:   input.Contents,
		TotalPages: input.TotalPages,
	}
	if draft.Title == "" && draft.ISBN != "" && i.catalog != nil {
		draft, err = i.fillFromCatalog(ctx, draft)
		if err != nil {
			return dto.BookOutput{}, err
		}
	}
	book, err := i.svc.Add(ctx, uid, draft)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return i.output(book, i.svc.Mirror(ctx, book)), nil
}

func (i *Interactor) fillFromCatalog(ctx context.Context, draft domain.Book) (domain.Book, error) {
	found, err := i.catalog.LookupISBN(ctx, catalogdto.LookupInput{ISBNs: []string{draft.ISBN}})
	if err != nil {
		if errors.Is(err, apperrors.ErrLookupUnavailable) {
			return domain.Book{}, apperrors.Invalid("title is required while the catalog is unavailable")
		}
		return domain.Book{}, err
	}
	if len(found) == 0 {
		return domain.Book{}, apperrors.Invalid("no catalog entry for isbn " + draft.ISBN)
	}
	meta := found[0]
	draft.ISBN = meta.ISBN
	draft.Title = meta.Title
	draft.Authors = meta.Authors
	draft.Publisher = meta.Publisher
	draft.Thumbnail = meta.Thumbnail
	draft.Contents = meta.Contents
	return draft, nil
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	return i.list(ctx, false)
}

func (i *Interactor) ListFavorites(ctx context.Context) ([]dto.BookOutput, error) {
	return i.list(ctx, true)
}

func (i *Interactor) list(ctx context.Context, favoritesOnly bool) ([]dto.BookOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	books, err := i.svc.List(ctx, uid, favoritesOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, book := range books {
		out = append(out, i.output(book, i.svc.NotePath(book)))
	}
	return out, nil
}

func (i *Interactor) GetBook(ctx context.Context, isbn string) (dto.BookOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return dto.BookOutput{}, err
	}
	book, err := i.svc.Get(ctx, uid, isbn)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return i.output(book, i.svc.NotePath(book)), nil
}

func (i *Interactor) SetTotalPages(ctx context.Context, isbn string, pages int) (dto.BookOutput, error) {
	return i.progress(ctx, func(ctx context.Context, uid string) (domain.Book, bool, error) {
		return i.svc.SetTotalPages(ctx, uid, isbn, pages)
	})
}

func (i *Interactor) SetReadPages(ctx context.Context, isbn string, pages int) (dto.BookOutput, error) {
	return i.progress(ctx, func(ctx context.Context, uid string) (domain.Book, bool, error) {
		return i.svc.SetReadPages(ctx, uid, isbn, pages)
	})
}

func (i *Interactor) ImportPageCount(ctx context.Context, isbn, pdfPath string) (dto.BookOutput, error) {
	pages, err := i.svc.CountPages(ctx, pdfPath)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return i.SetTotalPages(ctx, isbn, pages)
}

// ApplyReadingDelta leaves the note alone so an enclosing transaction can still roll back;
// callers refresh it with SyncNote after commit.
func (i *Interactor) ApplyReadingDelta(ctx context.Context, input dto.ReadingDeltaInput) (dto.BookOutput, error) {
	if input.UserID == "" {
		return dto.BookOutput{}, apperrors.Invalid("user id is required")
	}
	var book domain.Book
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		var finished bool
		var err error
		book, finished, err = i.svc.AddPages(ctx, input.UserID, input.ISBN, input.Delta)
		if err != nil {
			return err
		}
		if finished {
			return i.identity.RecordBookFinished(ctx, input.UserID)
		}
		return nil
	})
	if err != nil {
		return dto.BookOutput{}, err
	}
	return i.output(book, i.svc.NotePath(book)), nil
}

func (i *Interactor) SetSummary(ctx context.Context, isbn, summary string) (dto.BookOutput, error) {
	return i.simple(ctx, func(ctx context.Context, uid string) (domain.Book, error) {
		return i.svc.SetSummary(ctx, uid, isbn, summary)
	})
}

func (i *Interactor) SetRating(ctx context.Context, isbn string, rating int) (dto.BookOutput, error) {
	return i.simple(ctx, func(ctx context.Context, uid string) (domain.Book, error) {
		return i.svc.SetRating(ctx, uid, isbn, rating)
	})
}

func (i *Interactor) ToggleFavorite(ctx context.Context, isbn string) (dto.BookOutput, error) {
	return i.simple(ctx, func(ctx context.Context, uid string) (domain.Book, error) {
		return i.svc.ToggleFavorite(ctx, uid, isbn)
	})
}

func (i *Interactor) SyncNote(ctx context.Context, isbn string) (dto.BookOutput, error) {
	return i.simple(ctx, func(ctx context.Context, uid string) (domain.Book, error) {
		return i.svc.Get(ctx, uid, isbn)
	})
}

func (i *Interactor) RemoveBook(ctx context.Context, isbn string) error {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return err
	}
	return i.svc.Remove(ctx, uid, isbn)
}

// progress runs a page change and credits a first finish in the same transaction.
func (i *Interactor) progress(ctx context.Context, fn func(context.Context, string) (domain.Book, bool, error)) (dto.BookOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return dto.BookOutput{}, err
	}
	var book domain.Book
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		var finished bool
		var err error
		book, finished, err = fn(ctx, uid)
		if err != nil {
			return err
		}
		if finished {
			return i.identity.RecordBookFinished(ctx, uid)
		}
		return nil
	})
	if err != nil {
		return dto.BookOutput{}, err
	}
	return i.output(book, i.svc.Mirror(ctx, book)), nil
}

func (i *Interactor) simple(ctx context.Context, fn func(context.Context, string) (domain.Book, error)) (dto.BookOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return dto.BookOutput{}, err
	}
	book, err := fn(ctx, uid)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return i.output(book, i.svc.Mirror(ctx, book)), nil
}

func (i *Interactor) output(book domain.Book, notePath string) dto.BookOutput {
	return dto.BookOutput{
		ISBN:       book.ISBN,
		Title:      book.Title,
		Authors:    append([]string(nil), book.Authors...),
		Publisher:  book.Publisher,
		Thumbnail:  book.Thumbnail,
		Contents:   book.Contents,
		TotalPages: book.TotalPages,
		ReadPages:  book.ReadPages,
		LeftPages:  book.LeftPages(),
		Percent:    book.Percent(),
		Summary:    book.Summary,
		Rating:     book.Rating,
		Favorite:   book.Favorite,
		Finished:   book.Finished,
		NotePath:   notePath,
		UpdatedAt:  book.UpdatedAt,
	}
}
