package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"phonestore-backend/pkg/db/models"
	pkgerrors "phonestore-backend/pkg/errors"
)

// View is a staff note projection.
type View struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service attaches back-office commentary to orders.
type Service interface {
	Create(ctx context.Context, orderID, authorID uuid.UUID, content string) (*View, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]View, error)
}

type service struct {
	repo Repository
}

// NewService wires a notes service over the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notes repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, orderID, authorID uuid.UUID, content string) (*View, error) {
	if orderID == uuid.Nil || authorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and author id are required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note content is required")
	}

	exists, err := s.repo.OrderExists(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	note := &models.StaffNote{
		ID:       uuid.New(),
		OrderID:  orderID,
		AuthorID: authorID,
		Content:  strings.TrimSpace(content),
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create note")
	}

	view := newView(note)
	return &view, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]View, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	notes, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notes")
	}

	views := make([]View, 0, len(notes))
	for i := range notes {
		views = append(views, newView(&notes[i]))
	}
	return views, nil
}

func newView(note *models.StaffNote) View {
	view := View{
		ID:        note.ID,
		OrderID:   note.OrderID,
		AuthorID:  note.AuthorID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
	if note.Author != nil {
		view.AuthorName = note.Author.FullName
	}
	return view
}
