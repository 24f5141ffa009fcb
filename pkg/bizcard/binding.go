package bizcard

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var ErrUnknownField = errors.New("unknown card field")

type Field string

const (
	FieldName    Field = "name"
	FieldTitle   Field = "title"
	FieldPhone   Field = "phone"
	FieldEmail   Field = "email"
	FieldWebsite Field = "website"
	FieldAddress Field = "address"
)

// Fields in the order they are laid out on the card
func AllFields() []Field {
	return []Field{FieldName, FieldTitle, FieldPhone, FieldEmail, FieldWebsite, FieldAddress}
}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllFields(), f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// FontChoice selects the family of the name line only.
type FontChoice string

const (
	FontChoiceDelmon FontChoice = "Delmon"
	FontChoiceNoto   FontChoice = "Noto"
)

// Anything that is not Delmon renders with Noto.
func ParseFontChoice(s string) FontChoice {
	if strings.EqualFold(strings.TrimSpace(s), string(FontChoiceDelmon)) {
		return FontChoiceDelmon
	}
	return FontChoiceNoto
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Form holds the raw input values and pushes every change to its subscribers.
// Subscribers are called synchronously, in subscription order, outside the lock.
type Form struct {
	mu        sync.RWMutex
	nextID    int
	values    map[Field]string
	font      FontChoice
	fieldSubs map[Field][]subscriber[string]
	fontSubs  []subscriber[FontChoice]
}

func NewForm() *Form {
	return &Form{
		values:    make(map[Field]string),
		font:      FontChoiceNoto,
		fieldSubs: make(map[Field][]subscriber[string]),
	}
}

// Subscribe registers fn for changes of field and returns a func that removes it.
func (f *Form) Subscribe(field Field, fn func(value string)) (func(), error) {
	if !slices.Contains(AllFields(), field) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.fieldSubs[field] = append(f.fieldSubs[field], subscriber[string]{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.fieldSubs[field] = slices.DeleteFunc(f.fieldSubs[field], func(s subscriber[string]) bool {
			return s.id == id
		})
	}, nil
}

func (f *Form) SubscribeFont(fn func(FontChoice)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.fontSubs = append(f.fontSubs, subscriber[FontChoice]{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.fontSubs = slices.DeleteFunc(f.fontSubs, func(s subscriber[FontChoice]) bool {
			return s.id == id
		})
	}
}

func (f *Form) Set(field Field, value string) error {
	if !slices.Contains(AllFields(), field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	f.mu.Lock()
	f.values[field] = value
	subs := slices.Clone(f.fieldSubs[field])
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
	return nil
}

func (f *Form) SetFont(choice FontChoice) {
	f.mu.Lock()
	f.font = choice
	subs := slices.Clone(f.fontSubs)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(choice)
	}
}

func (f *Form) Value(field Field) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[field]
}

func (f *Form) Font() FontChoice {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.font
}

// CardContent is what ends up on the rendered card.
type CardContent struct {
	Lines    map[Field]string
	NameFont FontChoice
}

func (cc CardContent) Line(field Field) string {
	return cc.Lines[field]
}

// Preview mirrors the form into display values, like a one-way data binding.
type Preview struct {
	mu          sync.RWMutex
	lines       map[Field]string
	nameFont    FontChoice
	unsubscribe []func()
}

func NewPreview(form *Form) (*Preview, error) {
	p := &Preview{
		lines:    make(map[Field]string),
		nameFont: form.Font(),
	}

	for _, field := range AllFields() {
		p.lines[field] = form.Value(field)

		unsub, err := form.Subscribe(field, func(value string) {
			p.mu.Lock()
			p.lines[field] = value
			p.mu.Unlock()
		})
		if err != nil {
			p.Close()
			return nil, err
		}
		p.unsubscribe = append(p.unsubscribe, unsub)
	}

	p.unsubscribe = append(p.unsubscribe, form.SubscribeFont(func(choice FontChoice) {
		p.mu.Lock()
		p.nameFont = ParseFontChoice(string(choice))
		p.mu.Unlock()
	}))

	return p, nil
}

// Snapshot returns a copy that is safe to hand to the renderer.
func (p *Preview) Snapshot() CardContent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	lines := make(map[Field]string, len(p.lines))
	for k, v := range p.lines {
		lines[k] = v
	}

	return CardContent{Lines: lines, NameFont: p.nameFont}
}

// Close detaches the preview from its form.
func (p *Preview) Close() {
	for _, unsub := range p.unsubscribe {
		unsub()
	}
	p.unsubscribe = nil
}
