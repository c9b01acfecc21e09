package module

import (
	"strings"
	"time"

	"weeklypedia/internal/adapters/extracts"
	"weeklypedia/internal/platform/config"
	"weeklypedia/internal/services/api/digest/service"
)

// Options controls the digest shape and the extract stage
type Options struct {
	Service service.Config

	// EditorColumn is rc_user or rc_actor
	EditorColumn string

	Extracts extracts.Options
}

// FromConfig reads CORE_DIGEST_* and CORE_EXTRACTS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	dc := cfg.Prefix("CORE_DIGEST_")
	ec := cfg.Prefix("CORE_EXTRACTS_")
	def := service.DefaultConfig()

	return Options{
		Service: service.Config{
			DefaultLang:     dc.MayString("LANG", def.DefaultLang),
			DefaultDays:     dc.MayInt("DAYS", def.DefaultDays),
			ContentNS:       dc.MayInt("NS_CONTENT", def.ContentNS),
			ArticlesNS:      dc.MayInt("NS_ARTICLES", def.ArticlesNS),
			TalkNS:          dc.MayInt("NS_TALK", def.TalkNS),
			MainLimit:       dc.MayInt("MAIN_LIMIT", def.MainLimit),
			TalkLimit:       dc.MayInt("TALK_LIMIT", def.TalkLimit),
			QueryTimeout:    dc.MayDuration("QUERY_TIMEOUT", def.QueryTimeout),
			Langs:           dc.MayCSV("LANGS", nil),
			ExtractsEnabled: ec.MayBool("ENABLED", false),
			ExtractLimit:    ec.MayInt("LIMIT", def.ExtractLimit),
			ExtractTimeout:  ec.MayDuration("TIMEOUT", def.ExtractTimeout),
		},
		EditorColumn: strings.ToLower(dc.MayEnum("EDITOR_COLUMN", "rc_user", "rc_user", "rc_actor")),
		Extracts: extracts.Options{
			URLTemplate: ec.MayString("URL_TEMPLATE", ""),
			Contact:     ec.MayString("CONTACT", ""),
			Sentences:   ec.MayInt("SENTENCES", 3),
			Workers:     ec.MayInt("WORKERS", 3),
			RPS:         ec.MayFloat64("RPS", 5),
			Timeout:     ec.MayDuration("REQUEST_TIMEOUT", 10*time.Second),
			Retries:     ec.MayInt("RETRIES", 2),
		},
	}
}
