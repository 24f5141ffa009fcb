package bizcard

import (
	"fmt"
	"sort"
)

// Card is the user input for a single business card.
type Card struct {
	Name    string `json:"name" form:"name" binding:"max=64"`
	Title   string `json:"title" form:"title" binding:"max=64"`
	Phone   string `json:"phone" form:"phone" binding:"max=32"`
	Email   string `json:"email" form:"email" binding:"omitempty,email,max=128"`
	Website string `json:"website" form:"website" binding:"max=128"`
	Address string `json:"address" form:"address" binding:"max=160"`
	// Font of the name line, Delmon or Noto
	Font string `json:"font" form:"font"`
}

func (c Card) Value(field Field) string {
	switch field {
	case FieldName:
		return c.Name
	case FieldTitle:
		return c.Title
	case FieldPhone:
		return c.Phone
	case FieldEmail:
		return c.Email
	case FieldWebsite:
		return c.Website
	case FieldAddress:
		return c.Address
	default:
		return ""
	}
}

// Apply pushes every value of the card through the form so that bound previews update.
func (c Card) Apply(form *Form) error {
	for _, field := range AllFields() {
		if err := form.Set(field, c.Value(field)); err != nil {
			return fmt.Errorf("failed to set %s: %w", field, err)
		}
	}
	form.SetFont(ParseFontChoice(c.Font))
	return nil
}

// Content binds a fresh form and preview to the card and returns what the preview shows.
func (c Card) Content() (CardContent, error) {
	form := NewForm()
	preview, err := NewPreview(form)
	if err != nil {
		return CardContent{}, err
	}
	defer preview.Close()

	if err := c.Apply(form); err != nil {
		return CardContent{}, err
	}

	return preview.Snapshot(), nil
}

// CardFromRow maps a parsed CSV row, keyed by header, to a card.
// Header matching is case insensitive, unknown columns are ignored. Headers are
// visited in sorted order, so of "Name" and "name" the former wins.
func CardFromRow(row map[string]string) Card {
	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	return cardFromColumns(headers, row)
}

// The first header naming a field sets it, later ones are ignored.
func cardFromColumns(headers []string, row map[string]string) Card {
	var card Card
	seenFont := false
	seen := make(map[Field]bool)

	for _, header := range headers {
		if header == "" {
			continue
		}
		value := row[header]

		if isFontHeader(header) {
			if !seenFont {
				card.Font = value
				seenFont = true
			}
			continue
		}

		field, err := ParseField(header)
		if err != nil || seen[field] {
			continue
		}
		seen[field] = true

		switch field {
		case FieldName:
			card.Name = value
		case FieldTitle:
			card.Title = value
		case FieldPhone:
			card.Phone = value
		case FieldEmail:
			card.Email = value
		case FieldWebsite:
			card.Website = value
		case FieldAddress:
			card.Address = value
		}
	}
	return card
}
