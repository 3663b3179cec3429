package client

import "strings"

// reserved holds the characters the search backend treats as query
// operators. They are backslash-escaped in user-supplied terms.
const reserved = `+-=&|><!(){}[]^"~*?:\`

func escape(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		if strings.ContainsRune(reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Match describes how a search term is matched against a field.
// The implementations are [Simple], [Exact], [Regex], [Or] and [And].
type Match interface {
	render() string
}

// Simple matches the term with the backend's default full-text semantics.
type Simple string

// Exact matches the term verbatim.
type Exact string

// Regex matches the term as a regular expression pattern.
type Regex string

// Or combines matches so that any one of them may hit.
type Or []Match

// And combines matches so that all of them must hit.
type And []Match

func (m Simple) render() string { return escape(string(m)) }
func (m Exact) render() string  { return `"` + escape(string(m)) + `"` }
func (m Regex) render() string  { return "/" + escape(string(m)) + "/" }
func (m Or) render() string     { return joinMatches(m, " OR ") }
func (m And) render() string    { return joinMatches(m, " ") }

func joinMatches(ms []Match, sep string) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.render()
	}

	return strings.Join(parts, sep)
}

// Field enumerates the searchable record fields.
type Field string

const (
	FieldEmail          Field = "email"
	FieldIPAddress      Field = "ip_address"
	FieldUsername       Field = "username"
	FieldPassword       Field = "password"
	FieldHashedPassword Field = "hashed_password"
	FieldName           Field = "name"
	FieldDomain         Field = "domain"
	FieldVin            Field = "vin"
	FieldPhone          Field = "phone"
	FieldAddress        Field = "address"
)

// Query is an immutable search request: a single field paired with a
// match mode, or a raw free-text query. Construct one with [Email],
// [Domain], ..., or [FreeText].
type Query struct {
	field Field
	match Match
	raw   string
}

// Email searches the email field.
func Email(m Match) Query { return Query{field: FieldEmail, match: m} }

// IPAddress searches the ip address field.
func IPAddress(m Match) Query { return Query{field: FieldIPAddress, match: m} }

// Username searches the username field.
func Username(m Match) Query { return Query{field: FieldUsername, match: m} }

// Password searches the plaintext password field.
func Password(m Match) Query { return Query{field: FieldPassword, match: m} }

// HashedPassword searches the hashed password field.
func HashedPassword(m Match) Query { return Query{field: FieldHashedPassword, match: m} }

// Name searches the name field.
func Name(m Match) Query { return Query{field: FieldName, match: m} }

// Domain searches the domain field.
func Domain(m Match) Query { return Query{field: FieldDomain, match: m} }

// Vin searches the vehicle identification number field.
func Vin(m Match) Query { return Query{field: FieldVin, match: m} }

// Phone searches the phone field.
func Phone(m Match) Query { return Query{field: FieldPhone, match: m} }

// Address searches the address field.
func Address(m Match) Query { return Query{field: FieldAddress, match: m} }

// FreeText searches with a raw query string, passed to the backend as-is.
func FreeText(raw string) Query { return Query{raw: raw} }

// String renders the query in the backend's search syntax.
func (q Query) String() string {
	if q.field == "" || q.match == nil {
		return q.raw
	}

	return string(q.field) + ":" + q.match.render()
}
