// Package i18n holds the user-facing strings of the console in English and
// Russian and the helpers that render domain values with them.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// BaseLocale is used for unknown locales and missing keys.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is a set of locale catalogs registered in an x/text catalog.
type Bundle struct {
	builder  *catalog.Builder
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
}

var defaultBundle = mustLoad()

func mustLoad() *Bundle {
	b, err := LoadFS(localesFS)
	if err != nil {
		panic(err)
	}
	return b
}

// Default returns the embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadFS reads every locales/*.yaml file of fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	b := &Bundle{
		builder:  catalog.NewBuilder(catalog.Fallback(base)),
		messages: map[language.Tag]map[string]string{},
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := b.add(path, file); err != nil {
			return nil, err
		}
	}

	if _, ok := b.messages[base]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	// The matcher prefers its first tag, so the base locale goes first.
	sort.SliceStable(b.tags, func(i, j int) bool { return b.tags[i] == base && b.tags[j] != base })
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(path string, file catalogFile) error {
	name := strings.TrimSuffix(path[strings.LastIndex(path, "/")+1:], ".yaml")
	if strings.TrimSpace(file.Locale) != name {
		return fmt.Errorf("catalog %s: locale %q must match file name", path, file.Locale)
	}
	tag, err := language.Parse(file.Locale)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", path)
	}
	if _, dup := b.messages[tag]; dup {
		return fmt.Errorf("catalog %s: locale %s defined twice", path, tag)
	}

	msgs := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", path)
		}
		if err := b.builder.SetString(tag, key, value); err != nil {
			return fmt.Errorf("catalog %s: key %s: %w", path, key, err)
		}
		msgs[key] = value
	}
	b.messages[tag] = msgs
	b.tags = append(b.tags, tag)
	return nil
}

// Locales returns the available locale tags.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.tags))
	for _, t := range b.tags {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}

// Keys returns the message keys of locale, sorted.
func (b *Bundle) Keys(locale string) []string {
	msgs := b.messages[b.match(locale)]
	keys := make([]string, 0, len(msgs))
	for k := range msgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Bundle) match(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return b.tags[0]
	}
	_, idx, conf := b.matcher.Match(tag)
	if conf == language.No {
		return b.tags[0]
	}
	return b.tags[idx]
}

// Localizer renders messages for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for locale from the default bundle, e.g. "ru" or "en-US".
// Unknown locales fall back to English.
func New(locale string) *Localizer {
	return Default().Localizer(locale)
}

// Localizer returns a Localizer for locale.
func (b *Bundle) Localizer(locale string) *Localizer {
	tag := b.match(locale)
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b.builder))}
}

// Locale returns the resolved locale tag.
func (l *Localizer) Locale() string {
	return l.tag.String()
}

func (l *Localizer) isRussian() bool {
	base, _ := l.tag.Base()
	return base.String() == "ru"
}

// T renders key with args.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Status returns the label of s. Unknown statuses render as is.
func (l *Localizer) Status(s domain.Status) string {
	if !s.IsValid() {
		return string(s)
	}
	return l.T("status." + string(s))
}

// Column returns the header label of c.
func (l *Localizer) Column(c domain.Column) string {
	if !c.IsValid() {
		return string(c)
	}
	return l.T("column." + string(c))
}

// SortIndicator returns the arrow shown next to the active sort column.
func SortIndicator(order domain.SortOrder) string {
	if order == domain.SortOrderDesc {
		return "↓"
	}
	return "↑"
}

// Date formats a client timestamp for display in local time. Missing or
// unparsable timestamps render as "-".
func (l *Localizer) Date(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "-"
	}
	t := domain.ParseTimestamp(raw)
	if t.Equal(time.Unix(0, 0)) {
		return "-"
	}
	if l.isRussian() {
		return t.Local().Format("02.01.2006 15:04")
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// PushResult returns the success line of a dispatch. Offline outcomes are
// reported as sent in demo mode. fallbackCount is used when the server gave
// no count.
func (l *Localizer) PushResult(out gateway.Outcome, fallbackCount int) string {
	n := out.SentCount
	if n == 0 {
		n = fallbackCount
	}
	if out.Offline {
		return l.T("push.demo", n)
	}
	return l.T("push.sent", n)
}

// FieldError renders one validation failure.
func (l *Localizer) FieldError(f domain.FieldError) string {
	switch f.Code {
	case domain.CodeRequired:
		return l.T("form.required")
	case domain.CodeMaxLength:
		return l.T("form.max_length", f.Limit)
	case domain.CodeMinLength:
		return l.T("form.min_length", f.Limit)
	case domain.CodeEmail:
		return l.T("form.email")
	case domain.CodePhone:
		return l.T("form.phone")
	case domain.CodeStatus:
		return l.T("form.status")
	default:
		return f.Reason
	}
}

// Error renders err for the operator. Validation errors are spelled out per
// field; a missing selection gets its own message.
func (l *Localizer) Error(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrNoSelection) {
		return l.T("push.no_selection")
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		parts := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, l.FieldError(f)))
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
