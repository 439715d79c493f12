package i18n

import (
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

var supported = []language.Tag{language.Russian, language.English}

var (
	catalogOnce sync.Once
	builder     *catalog.Builder
	knownKeys   map[string]struct{}
)

func sharedCatalog() (*catalog.Builder, map[string]struct{}) {
	catalogOnce.Do(func() {
		builder, knownKeys = buildCatalog()
	})
	return builder, knownKeys
}

// Localizer renders catalog messages and numbers for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]struct{}
	lower   cases.Caser
}

// New picks the closest supported locale; anything unknown falls back to Russian.
func New(locale string) *Localizer {
	tag := language.Russian
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, confidence := language.NewMatcher(supported).Match(parsed)
		if confidence != language.No {
			tag = supported[idx]
		}
	}

	b, known := sharedCatalog()
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
		known:   known,
		lower:   cases.Lower(tag),
	}
}

func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Has reports whether key is present in the catalog.
func (l *Localizer) Has(key string) bool {
	_, ok := l.known[key]
	return ok
}

func (l *Localizer) T(key string, args ...interface{}) string {
	return l.printer.Sprintf(key, args...)
}

func (l *Localizer) Lower(s string) string {
	return l.lower.String(s)
}

// Number formats integral values without decimals and everything else with
// exactly two, using the locale's separators.
func (l *Localizer) Number(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return l.printer.Sprint(number.Decimal(d.IntPart()))
	}
	return l.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}
