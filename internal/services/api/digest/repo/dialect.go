package repo

import "fmt"

// dialect holds the SQL for one backend
// the editor column is substituted from a closed set, every value is a bind parameter
type dialect struct {
	name    string
	editor  Editor
	summary string
	top     string
}

func (d dialect) summarySQL() string { return fmt.Sprintf(d.summary, d.editor) }
func (d dialect) topSQL() string     { return fmt.Sprintf(d.top, d.editor) }

// ties on edits break by title in byte order on every backend

var postgresDialect = dialect{
	name: "postgres",
	summary: `
select count(*)::bigint as edits,
       count(distinct rc_title)::bigint as titles,
       count(distinct %[1]s)::bigint as users
from recentchanges
where rc_namespace = $1
and rc_type = 0
and rc_timestamp > $2
`,
	top: `
select rc_title, count(*)::bigint as edits, count(distinct %[1]s)::bigint as users
from recentchanges
where rc_namespace = $1
and rc_type = 0
and rc_timestamp > $2
group by rc_title
order by edits desc, rc_title collate "C" asc
limit $3
`,
}

var sqliteDialect = dialect{
	name: "sqlite",
	summary: `
select count(*) as edits,
       count(distinct rc_title) as titles,
       count(distinct %[1]s) as users
from recentchanges
where rc_namespace = ?
and rc_type = 0
and rc_timestamp > ?
`,
	top: `
select rc_title, count(*) as edits, count(distinct %[1]s) as users
from recentchanges
where rc_namespace = ?
and rc_type = 0
and rc_timestamp > ?
group by rc_title
order by edits desc, rc_title asc
limit ?
`,
}

var clickhouseDialect = dialect{
	name: "clickhouse",
	summary: `
select toInt64(count()) as edits,
       toInt64(uniqExact(rc_title)) as titles,
       toInt64(uniqExact(%[1]s)) as users
from recentchanges
where rc_namespace = ?
and rc_type = 0
and rc_timestamp > ?
`,
	top: `
select rc_title, toInt64(count()) as edits, toInt64(uniqExact(%[1]s)) as users
from recentchanges
where rc_namespace = ?
and rc_type = 0
and rc_timestamp > ?
group by rc_title
order by edits desc, rc_title asc
limit ?
`,
}
