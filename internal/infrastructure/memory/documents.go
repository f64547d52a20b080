package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos y líneas en memoria. Las líneas se borran junto con el documento.
type DocumentRepo struct{ h handle }

func (r *DocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.documents[doc.ID]; ok {
			return domain.ErrDuplicate
		}
		if err := checkDocumentRefs(st, doc.WarehouseID, doc.FromWarehouseID, doc.ToWarehouseID); err != nil {
			return err
		}
		if err := checkLineRefs(st, doc.Lines); err != nil {
			return err
		}
		header := *doc
		header.Lines = nil
		st.documents[doc.ID] = header
		st.lines[doc.ID] = append([]entity.DocumentLine(nil), doc.Lines...)
		return nil
	})
}

func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	var out *entity.Document
	err := r.h.read(func(st *state) error {
		out = loadDocument(st, id)
		return nil
	})
	return out, err
}

// GetForUpdate en memoria la transacción ya es exclusiva.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *DocumentRepo) UpdateHeader(_ context.Context, doc *entity.Document) error {
	return r.h.write(func(st *state) error {
		current, ok := st.documents[doc.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if current.Status != entity.DocStatusDraft {
			return domain.ErrInvalidState
		}
		if err := checkDocumentRefs(st, doc.WarehouseID, doc.FromWarehouseID, doc.ToWarehouseID); err != nil {
			return err
		}
		current.Date = doc.Date
		current.WarehouseID = doc.WarehouseID
		current.FromWarehouseID = doc.FromWarehouseID
		current.ToWarehouseID = doc.ToWarehouseID
		current.SupplierName = doc.SupplierName
		current.CustomerName = doc.CustomerName
		current.Reason = doc.Reason
		current.UpdatedAt = doc.UpdatedAt
		st.documents[doc.ID] = current
		return nil
	})
}

func (r *DocumentRepo) ReplaceLines(_ context.Context, docID string, lines []entity.DocumentLine) error {
	return r.h.write(func(st *state) error {
		current, ok := st.documents[docID]
		if !ok {
			return domain.ErrNotFound
		}
		if current.Status != entity.DocStatusDraft {
			return domain.ErrInvalidState
		}
		if err := checkLineRefs(st, lines); err != nil {
			return err
		}
		st.lines[docID] = append([]entity.DocumentLine(nil), lines...)
		return nil
	})
}

func (r *DocumentRepo) MarkConfirmed(_ context.Context, id, userID string, at time.Time) error {
	return r.h.write(func(st *state) error {
		current, ok := st.documents[id]
		if !ok {
			return domain.ErrNotFound
		}
		if current.Status != entity.DocStatusDraft {
			return domain.ErrAlreadyConfirmed
		}
		current.Status = entity.DocStatusConfirmed
		current.ConfirmedBy = userID
		confirmedAt := at
		current.ConfirmedAt = &confirmedAt
		current.UpdatedAt = at
		st.documents[id] = current
		return nil
	})
}

func (r *DocumentRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	var list []*entity.Document
	err := r.h.read(func(st *state) error {
		for _, d := range st.documents {
			if f.Type != "" && d.Type != f.Type {
				continue
			}
			if f.Status != "" && d.Status != f.Status {
				continue
			}
			if f.WarehouseID != "" && d.WarehouseID != f.WarehouseID &&
				d.FromWarehouseID != f.WarehouseID && d.ToWarehouseID != f.WarehouseID {
				continue
			}
			d := d
			list = append(list, &d)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return paginate(list, f.Limit, f.Offset), err
}

func (r *DocumentRepo) CountLines(_ context.Context, f repository.LineRefFilter) (int, error) {
	var n int
	err := r.h.read(func(st *state) error {
		for _, lines := range st.lines {
			for _, l := range lines {
				if f.ProductID != "" && l.ProductID != f.ProductID {
					continue
				}
				if f.LocationID != "" && l.FromLocationID != f.LocationID && l.ToLocationID != f.LocationID {
					continue
				}
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *DocumentRepo) CountByStatus(_ context.Context, docType entity.DocType, status entity.DocStatus) (int, error) {
	var n int
	err := r.h.read(func(st *state) error {
		for _, d := range st.documents {
			if d.Type == docType && d.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func loadDocument(st *state, id string) *entity.Document {
	d, ok := st.documents[id]
	if !ok {
		return nil
	}
	d.Lines = append([]entity.DocumentLine(nil), st.lines[id]...)
	return &d
}

// checkDocumentRefs y checkLineRefs emulan las FK de la tabla documents/document_lines.
func checkDocumentRefs(st *state, warehouseIDs ...string) error {
	for _, id := range warehouseIDs {
		if id == "" {
			continue
		}
		if _, ok := st.warehouses[id]; !ok {
			return domain.ErrConflict
		}
	}
	return nil
}

func checkLineRefs(st *state, lines []entity.DocumentLine) error {
	for _, l := range lines {
		if _, ok := st.products[l.ProductID]; !ok {
			return domain.ErrConflict
		}
		for _, loc := range []string{l.FromLocationID, l.ToLocationID} {
			if loc == "" {
				continue
			}
			if _, ok := st.locations[loc]; !ok {
				return domain.ErrConflict
			}
		}
	}
	return nil
}
