// Package bind decodes request bodies and query params and validates them
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	perr "weeklypedia/internal/platform/errors"
	"weeklypedia/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps the bytes read from a request body
const MaxBody = 64 << 10

var (
	once  sync.Once
	valid *validator.Validate
	trans ut.Translator
)

func setup() {
	once.Do(func() {
		loc := en.New()
		trans, _ = ut.New(loc, loc).GetTranslator("en")

		valid = validator.New(validator.WithRequiredStructEnabled())
		valid.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(valid, trans)

		message(valid, "min", "{0} must be at least {1}", true)
		message(valid, "max", "{0} must be at most {1}", true)
		_ = valid.RegisterValidation("wikilang", func(fl validator.FieldLevel) bool {
			return IsWikiLang(fl.Field().String())
		})
		message(valid, "wikilang", "{0} must be a wiki language code", false)
	})
}

// message overrides the english text for tag, withParam feeds the tag param in as {1}
func message(v *validator.Validate, tag, text string, withParam bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			params := []string{fe.Field()}
			if withParam {
				params = append(params, fe.Param())
			}
			s, _ := t.T(tag, params...)
			return s
		},
	)
}

// ParseJSON decodes exactly one JSON object into T and validates it
// unknown fields, trailing data and empty bodies are JSON errors
func ParseJSON[T any](r *http.Request) (T, error) {
	var dst T
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dst, perr.JSONErrf("empty body")
		}
		return dst, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, perr.JSONErrf("unexpected trailing data")
	}
	return dst, Validate(dst)
}

// Validate runs struct tags over v, the first failing field is attached to the error
func Validate(v any) error {
	setup()
	err := valid.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		logger.Get().Error().Err(err).Msg("validator misuse")
		return perr.Wrap(err, perr.ErrorCodeValidation, "validation error")
	}
	fe := verrs[0]
	return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(trans)), fe.Field())
}

func queryErr(name, kind string) error {
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be %s", name, kind), name)
}

// QueryInt reads an optional integer query parameter
// absent or empty yields (0, false, nil)
func QueryInt(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, queryErr(name, "an integer")
	}
	return n, true, nil
}

// QueryBool reads an optional boolean query parameter, a bare ?name counts as true
func QueryBool(r *http.Request, name string) (*bool, error) {
	q := r.URL.Query()
	if _, ok := q[name]; !ok {
		return nil, nil
	}
	b := true
	if raw := strings.TrimSpace(q.Get(name)); raw != "" {
		var err error
		if b, err = strconv.ParseBool(raw); err != nil {
			return nil, queryErr(name, "a boolean")
		}
	}
	return &b, nil
}

// wikiLangRE accepts edition codes such as en, simple, zh-min-nan, be-tarask
var wikiLangRE = regexp.MustCompile(`^[a-z][a-z0-9]{1,11}(-[a-z0-9]{1,12}){0,2}$`)

// IsWikiLang reports whether s looks like a wiki language edition code
func IsWikiLang(s string) bool { return wikiLangRE.MatchString(s) }
