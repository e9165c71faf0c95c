package forms

import "context"

// Repo persists forms, categories and downloads. Get returns an error
// matching errors.ErrNotFound when the form does not exist.
type Repo interface {
	ListCategories(ctx context.Context) ([]Category, error)
	List(ctx context.Context, filter Filter, page Page) ([]Form, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Get(ctx context.Context, id int64) (*Form, error)
	Create(ctx context.Context, form *Form) error
	Save(ctx context.Context, form *Form) error
	Delete(ctx context.Context, id int64) error
	RecordDownload(ctx context.Context, userID string, formID int64) error
	CountDownloads(ctx context.Context) (int64, error)
}
