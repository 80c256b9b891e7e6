package i18n

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	b := Default()
	assert.Equal(t, []string{"en-US", "ru-RU"}, b.Locales())
	assert.Equal(t, b.Keys("en-US"), b.Keys("ru-RU"))
}

func TestLocaleResolution(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ru", want: "ru-RU"},
		{in: "ru-ru", want: "ru-RU"},
		{in: "en", want: "en-US"},
		{in: "de-DE", want: "en-US"},
		{in: "", want: "en-US"},
		{in: "not a tag", want: "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.in).Locale())
		})
	}
}

func TestRussianLabels(t *testing.T) {
	l := New("ru")
	assert.Equal(t, "Активен", l.Status(domain.StatusActive))
	assert.Equal(t, "Неактивен", l.Status(domain.StatusInactive))
	assert.Equal(t, "В ожидании", l.Status(domain.StatusPending))
	assert.Equal(t, "archived", l.Status("archived"))

	assert.Equal(t, "Имя", l.Column(domain.ColumnName))
	assert.Equal(t, "Дата создания", l.Column(domain.ColumnCreatedAt))
	assert.Equal(t, "Подключение к серверу недоступно. Показаны демонстрационные данные.", l.T("banner.offline"))
}

func TestPushResult(t *testing.T) {
	ru := New("ru")
	assert.Equal(t, "Push-уведомление успешно отправлено 3 клиентам", ru.PushResult(gateway.Outcome{Success: true, SentCount: 3}, 1))
	assert.Equal(t, "Push-уведомление отправлено в демо-режиме для 2 клиентов", ru.PushResult(gateway.Outcome{Success: true, Offline: true}, 2))

	en := New("en")
	assert.Equal(t, "Push notification sent to 4 clients", en.PushResult(gateway.Outcome{Success: true, Mock: true, SentCount: 4}, 0))
}

func TestErrorRendering(t *testing.T) {
	ru := New("ru")
	assert.Equal(t, "Выберите клиентов для отправки push-уведомления", ru.Error(domain.ErrNoSelection))

	err := domain.Draft{Name: "A", Email: "bad"}.ValidateForm()
	require.Error(t, err)
	msg := ru.Error(err)
	assert.Contains(t, msg, "name: Минимальная длина 2 символов")
	assert.Contains(t, msg, "email: Введите корректный email адрес")

	assert.Equal(t, "title: This field is required", New("en").Error(domain.ValidatePush("", "m")))
	assert.Equal(t, "boom", New("en").Error(fmt.Errorf("boom")))
	assert.Empty(t, New("en").Error(nil))
}

func TestDate(t *testing.T) {
	t.Setenv("TZ", "UTC")
	ru := New("ru")
	assert.Equal(t, "-", ru.Date(""))
	assert.Equal(t, "-", ru.Date("not a date"))
	assert.NotEqual(t, "-", ru.Date("2024-01-15T10:30:00Z"))
	assert.Contains(t, New("en").Date("2024-01-15T10:30:00Z"), "2024")
}

func TestSortIndicator(t *testing.T) {
	assert.Equal(t, "↑", SortIndicator(domain.SortOrderAsc))
	assert.Equal(t, "↓", SortIndicator(domain.SortOrderDesc))
}

func TestLoadFSErrors(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
	}{
		{name: "empty", files: fstest.MapFS{}},
		{name: "locale mismatch", files: fstest.MapFS{
			"locales/en-US.yaml": {Data: []byte("locale: ru-RU\nmessages:\n  a: b\n")},
		}},
		{name: "no base", files: fstest.MapFS{
			"locales/ru-RU.yaml": {Data: []byte("locale: ru-RU\nmessages:\n  a: b\n")},
		}},
		{name: "no messages", files: fstest.MapFS{
			"locales/en-US.yaml": {Data: []byte("locale: en-US\n")},
		}},
		{name: "bad yaml", files: fstest.MapFS{
			"locales/en-US.yaml": {Data: []byte("locale: [\n")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(tt.files)
			assert.Error(t, err)
		})
	}
}

func TestLoadFSCustomCatalog(t *testing.T) {
	b, err := LoadFS(fstest.MapFS{
		"locales/en-US.yaml": {Data: []byte("locale: en-US\nmessages:\n  hello: \"Hello %s\"\n")},
		"locales/ru-RU.yaml": {Data: []byte("locale: ru-RU\nmessages:\n  hello: \"Привет %s\"\n")},
	})
	require.NoError(t, err)

	ru := b.Localizer("ru")
	assert.Equal(t, "Привет Мир", ru.T("hello", "Мир"))
	assert.Equal(t, "Hello Мир", b.Localizer("en").T("hello", "Мир"))
	assert.Equal(t, "missing.key", ru.T("missing.key"))
}
