package bind

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	perr "weeklypedia/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type digestQuery struct {
	Lang  string `json:"lang" validate:"omitempty,wikilang"`
	Days  int    `json:"days" validate:"min=0,max=30"`
	Limit int    `json:"top,omitempty" validate:"min=0"`
	Note  string `json:"-" validate:"max=3"`
	Title string `validate:"max=4"`
}

func TestParseJSON_Decodes(t *testing.T) {
	req := httptest.NewRequest("POST", "/digest", strings.NewReader(`{"lang":"zh-min-nan","days":7,"top":3}`))
	got, err := ParseJSON[digestQuery](req)
	require.NoError(t, err)
	assert.Equal(t, digestQuery{Lang: "zh-min-nan", Days: 7, Limit: 3}, got)
}

func TestParseJSON_Rejects(t *testing.T) {
	cases := map[string]struct {
		body  string
		code  perr.ErrorCode
		field string
	}{
		"empty":         {body: "", code: perr.ErrorCodeJSON},
		"broken":        {body: `{"days":`, code: perr.ErrorCodeJSON},
		"unknown field": {body: `{"edition":"en"}`, code: perr.ErrorCodeJSON},
		"two objects":   {body: `{"days":1} {"days":2}`, code: perr.ErrorCodeJSON},
		"wrong type":    {body: `{"days":"seven"}`, code: perr.ErrorCodeJSON},
		"too many days": {body: `{"days":31}`, code: perr.ErrorCodeValidation, field: "days"},
		"bad lang":      {body: `{"lang":"EN_us"}`, code: perr.ErrorCodeValidation, field: "lang"},
		"oversized":     {body: `{"lang":"` + strings.Repeat("a", MaxBody) + `"}`, code: perr.ErrorCodeJSON},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON[digestQuery](httptest.NewRequest("POST", "/", strings.NewReader(c.body)))
			require.Error(t, err)
			e, ok := perr.As(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, c.code, e.Code())
			assert.Equal(t, c.field, e.Field())
		})
	}
}

type closeSpy struct {
	io.Reader
	closed bool
}

func (c *closeSpy) Close() error { c.closed = true; return errors.New("already gone") }

func TestParseJSON_ClosesBody(t *testing.T) {
	body := &closeSpy{Reader: strings.NewReader(`{"days":2}`)}
	req := httptest.NewRequest("POST", "/", nil)
	req.Body = body

	_, err := ParseJSON[digestQuery](req)
	require.NoError(t, err)
	assert.True(t, body.closed)
}

func TestValidate_Messages(t *testing.T) {
	cases := []struct {
		in    digestQuery
		field string
		msg   string
	}{
		{digestQuery{Days: 99}, "days", "days must be at most 30"},
		{digestQuery{Limit: -1}, "top", "top must be at least 0"},
		{digestQuery{Lang: "x y"}, "lang", "lang must be a wiki language code"},
		{digestQuery{Note: "long"}, "Note", "Note must be at most 3"},
		{digestQuery{Title: "Pages"}, "Title", "Title must be at most 4"},
	}
	for _, c := range cases {
		err := Validate(c.in)
		e, ok := perr.As(err)
		require.True(t, ok, "%+v", c.in)
		assert.Equal(t, perr.ErrorCodeValidation, e.Code())
		assert.Equal(t, c.field, e.Field())
		assert.Equal(t, c.msg, err.Error())
	}
	assert.NoError(t, Validate(digestQuery{Lang: "en", Days: 7}))
}

func TestValidate_NotAStruct(t *testing.T) {
	err := Validate(42)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}

func TestQueryInt(t *testing.T) {
	n, ok, err := QueryInt(httptest.NewRequest("GET", "/?days=14", nil), "days")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 14, n)

	_, ok, err = QueryInt(httptest.NewRequest("GET", "/?days=", nil), "days")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = QueryInt(httptest.NewRequest("GET", "/?days=week", nil), "days")
	assert.EqualError(t, err, "days must be an integer")
}

func TestQueryBool(t *testing.T) {
	for url, want := range map[string]*bool{
		"/":                nil,
		"/?extracts":       ptr(true),
		"/?extracts=0":     ptr(false),
		"/?extracts=true":  ptr(true),
		"/?extracts=FALSE": ptr(false),
	} {
		got, err := QueryBool(httptest.NewRequest("GET", url, nil), "extracts")
		require.NoError(t, err, url)
		assert.Equal(t, want, got, url)
	}

	_, err := QueryBool(httptest.NewRequest("GET", "/?extracts=maybe", nil), "extracts")
	e, _ := perr.As(err)
	require.NotNil(t, e)
	assert.Equal(t, "extracts", e.Field())
}

func TestIsWikiLang(t *testing.T) {
	for _, s := range []string{"en", "simple", "zh-min-nan", "be-tarask", "nds-nl"} {
		assert.True(t, IsWikiLang(s), s)
	}
	for _, s := range []string{"", "e", "EN", "en_us", "-en", "en-", "a-b-c-d", "en.wikipedia"} {
		assert.False(t, IsWikiLang(s), s)
	}
}

func ptr[T any](v T) *T { return &v }
