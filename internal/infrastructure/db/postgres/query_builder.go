package postgres

import (
	"strconv"
	"strings"

	"github.com/handcrafted-haven/marketplace/internal/core/listing"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE substring pattern, escaping
// the LIKE metacharacters so user input only ever matches literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// listQuery assembles a filtered, ordered, paginated SELECT plus the matching
// COUNT over the same predicate. Placeholders are numbered as args are added.
type listQuery struct {
	columns string
	from    string
	orderBy string
	where   []string
	args    []any
}

func newListQuery(columns, from, orderBy string) *listQuery {
	return &listQuery{columns: columns, from: from, orderBy: orderBy}
}

func (q *listQuery) bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// Eq adds "col = value".
func (q *listQuery) Eq(col string, v any) *listQuery {
	q.where = append(q.where, col+" = "+q.bind(v))
	return q
}

// Cmp adds "col op value" for a comparison operator.
func (q *listQuery) Cmp(col, op string, v any) *listQuery {
	q.where = append(q.where, col+" "+op+" "+q.bind(v))
	return q
}

// Search adds a case-insensitive substring match across cols, OR-ed together.
// An empty term matches everything and adds nothing.
func (q *listQuery) Search(term string, cols ...string) *listQuery {
	if term == "" || len(cols) == 0 {
		return q
	}
	p := q.bind(containsPattern(term))
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + p
	}
	q.where = append(q.where, "("+strings.Join(parts, " OR ")+")")
	return q
}

func (q *listQuery) predicate() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// Count returns the COUNT(*) statement for the current predicate.
func (q *listQuery) Count() (string, []any) {
	return "SELECT COUNT(*) FROM " + q.from + q.predicate(), append([]any(nil), q.args...)
}

// Page returns the SELECT statement for one page.
func (q *listQuery) Page(p ports.PageRequest) (string, []any) {
	args := append([]any(nil), q.args...)
	args = append(args, p.Size, listing.Offset(p))
	limit := "$" + strconv.Itoa(len(args)-1)
	offset := "$" + strconv.Itoa(len(args))

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(q.columns)
	b.WriteString(" FROM ")
	b.WriteString(q.from)
	b.WriteString(q.predicate())
	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.orderBy)
	}
	b.WriteString(" LIMIT " + limit + " OFFSET " + offset)
	return b.String(), args
}
