package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var (
	ErrNoSignees          = errors.New("document has no signees to assign the field to")
	ErrUnknownAssignee    = errors.New("assignee is not a signee of the document")
	ErrInvalidPage        = errors.New("page index is out of range")
	ErrInvalidFieldType   = errors.New("unknown field type")
	ErrTextTooLong        = errors.New("text exceeds 100 characters")
	ErrInvalidTextColor   = errors.New("color is not in the allowed palette")
	ErrFieldNotFound      = errors.New("field not found on document")
	ErrEmptyPrefillText   = errors.New("prefilled text must not be empty")
	ErrDegenerateGeometry = errors.New("field geometry has no area")
)

const maxFieldTextLength = 100

// TextColorPalette is the fixed set of colors a text entry may use.
var TextColorPalette = []string{"#000000", "#FF0000", "#00FF00", "#0000FF"}

// defaultFieldSizes are the pixel dimensions a field gets when dropped
// without explicit geometry, before conversion to percent form.
var defaultFieldSizes = map[models.FieldType]struct{ Width, Height float64 }{
	models.FieldSignature: {Width: 500, Height: 100},
	models.FieldInitials:  {Width: 200, Height: 80},
	models.FieldTitleText: {Width: 300, Height: 100},
}

// PrefilledTextSize derives the box for a prefilled text field from its
// content: width grows with the text between a 200px floor and a 400px
// ceiling, height is fixed.
func PrefilledTextSize(text string) (width, height float64) {
	width = float64(utf8.RuneCountInString(text))*8 + 40
	if width < 200 {
		width = 200
	}
	if width > 400 {
		width = 400
	}
	return width, 60
}

// DefaultFieldSize returns the drop size for a field type. Prefilled text is
// content-sized through PrefilledTextSize instead.
func DefaultFieldSize(fieldType models.FieldType) (width, height float64, ok bool) {
	size, ok := defaultFieldSizes[fieldType]
	return size.Width, size.Height, ok
}

// PlacementRequest describes one field drop. Geometry is optional; when
// absent the field lands centered in the visible part of the page at its
// type's default size.
type PlacementRequest struct {
	Type     models.FieldType
	Page     int
	Assignee string // signee email
	Canvas   Canvas
	Viewport Viewport
	Rect     *PixelRect // explicit geometry, overrides the default drop

	// Prefilled text payload
	Text      string
	Color     string
	Bold      bool
	Italic    bool
	Underline bool
}

// PlaceField validates a drop against the document and returns the field in
// its stored percent form. The caller persists it.
func PlaceField(doc *models.Document, req PlacementRequest) (*models.SignatureField, error) {
	if len(doc.Signees) == 0 {
		return nil, ErrNoSignees
	}
	assignee, ok := findSignee(doc, req.Assignee)
	if !ok {
		return nil, ErrUnknownAssignee
	}
	if req.Page < 0 || req.Page >= doc.TotalPages {
		return nil, fmt.Errorf("%w: page %d of %d", ErrInvalidPage, req.Page, doc.TotalPages)
	}

	var width, height float64
	switch req.Type {
	case models.FieldSignature, models.FieldInitials, models.FieldTitleText:
		width, height, _ = DefaultFieldSize(req.Type)
	case models.FieldPrefilledText:
		if req.Text == "" {
			return nil, ErrEmptyPrefillText
		}
		if utf8.RuneCountInString(req.Text) > maxFieldTextLength {
			return nil, ErrTextTooLong
		}
		if req.Color != "" && !paletteContains(req.Color) {
			return nil, ErrInvalidTextColor
		}
		width, height = PrefilledTextSize(req.Text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFieldType, req.Type)
	}

	var rect PixelRect
	if req.Rect != nil {
		rect = clampToCanvas(*req.Rect, req.Canvas)
		if rect.Width <= 0 || rect.Height <= 0 {
			return nil, ErrDegenerateGeometry
		}
	} else {
		cx, cy := VisibleCenter(req.Canvas, req.Viewport)
		rect = CenteredRect(cx, cy, width, height, req.Canvas)
	}

	pct := ToPercent(rect, req.Canvas)

	field := &models.SignatureField{
		ID:            uuid.New(),
		DocumentID:    doc.ID,
		Type:          req.Type,
		PageIndex:     req.Page,
		XPercent:      pct.X,
		YPercent:      pct.Y,
		WidthPercent:  pct.Width,
		HeightPercent: pct.Height,
		AssigneeName:  assignee.Name,
		AssigneeEmail: assignee.Email,
	}
	if req.Type == models.FieldPrefilledText {
		field.Text = req.Text
		field.Color = req.Color
		if field.Color == "" {
			field.Color = TextColorPalette[0]
		}
		field.Bold = req.Bold
		field.Italic = req.Italic
		field.Underline = req.Underline
	}
	return field, nil
}

// FieldsForSignee returns the document's fields assigned to the given email,
// preserving placement order.
func FieldsForSignee(fields []models.SignatureField, email string) []models.SignatureField {
	out := make([]models.SignatureField, 0, len(fields))
	for _, f := range fields {
		if f.AssigneeEmail == email {
			out = append(out, f)
		}
	}
	return out
}

func findSignee(doc *models.Document, email string) (*models.Signee, bool) {
	for i := range doc.Signees {
		if doc.Signees[i].Email == email {
			return &doc.Signees[i], true
		}
	}
	return nil, false
}

func paletteContains(color string) bool {
	for _, c := range TextColorPalette {
		if c == color {
			return true
		}
	}
	return false
}
