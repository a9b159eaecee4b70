package dashboard

import (
	"context"

	"github.com/victoragudo/hotel-management-system/console/internal/application/usecase"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
)

// Row is one rendered record.
type Row struct {
	ID    string
	Cells []string
}

// PaneView is what the list pane draws.
type PaneView struct {
	Columns     []Column
	Rows        []Row
	Loading     bool
	Refreshing  bool
	Stale       bool
	Err         error
	HasNext     bool
	HasPrevious bool
	Total       *int
	Deleting    bool
}

type Column struct {
	Title string
	Width int
}

// Pane is the list screen of one resource with its record type erased.
type Pane interface {
	Resource() usecase.Resource
	Mount(ctx context.Context)
	Unmount()
	Next(ctx context.Context) bool
	Previous(ctx context.Context) bool
	Refresh()
	Delete(ctx context.Context, id string) error
	View() PaneView
}

// Collection is what a list pane needs from a resource client.
type Collection[T any] interface {
	usecase.Lister[T]
	usecase.Deleter
}

// Columns renders a record type as table cells.
type Columns[T any] struct {
	Headers []Column
	Cells   func(item T) []string
}

type ListPane[T record.Identifiable] struct {
	page    *usecase.ListPage[T]
	columns Columns[T]
}

// NewListPane builds the pane of resource. changed is called, with the resource name, whenever the
// cached page under the pane changes; it must not block.
func NewListPane[T record.Identifiable](deps usecase.Deps, resource usecase.Resource, collection Collection[T], pageSize int, columns Columns[T], changed func(resource string)) *ListPane[T] {
	onChange := func(usecase.ListView[T]) {
		if changed != nil {
			changed(resource.Name)
		}
	}
	return &ListPane[T]{
		page:    usecase.NewListPage[T](deps, resource, collection, collection, resource.Pager(pageSize), onChange),
		columns: columns,
	}
}

func (p *ListPane[T]) Resource() usecase.Resource                  { return p.page.Resource() }
func (p *ListPane[T]) Mount(ctx context.Context)                   { p.page.Mount(ctx) }
func (p *ListPane[T]) Unmount()                                    { p.page.Unmount() }
func (p *ListPane[T]) Next(ctx context.Context) bool               { return p.page.Next(ctx) }
func (p *ListPane[T]) Previous(ctx context.Context) bool           { return p.page.Previous(ctx) }
func (p *ListPane[T]) Refresh()                                    { p.page.Refresh() }
func (p *ListPane[T]) Delete(ctx context.Context, id string) error { return p.page.Delete(ctx, id) }

func (p *ListPane[T]) View() PaneView {
	view := p.page.View()
	out := PaneView{
		Columns:     p.columns.Headers,
		Loading:     view.Loading,
		Refreshing:  view.Refreshing,
		Stale:       view.Stale,
		Err:         view.Err,
		HasNext:     view.HasNext,
		HasPrevious: view.HasPrevious,
		Total:       view.Total,
		Deleting:    p.page.DeleteState() == usecase.DeletePending,
	}
	for _, item := range view.Items {
		out.Rows = append(out.Rows, Row{ID: item.Identifier(), Cells: p.columns.Cells(item)})
	}
	return out
}
