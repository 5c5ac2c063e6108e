package datagen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Daniel", "Nancy", "Matthew", "Lisa",
	"Anthony", "Betty", "Mark", "Margaret", "Steven", "Sandra", "Andrew", "Ashley",
	"Kenneth", "Emily", "Joshua", "Donna", "Kevin", "Michelle", "Brian", "Carol",
	"George", "Amanda", "Timothy", "Melissa", "Ronald", "Deborah", "Jason", "Stephanie",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
	"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
	"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill",
}

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "tempor", "incididunt", "labore", "dolore", "magna", "aliqua", "enim",
	"minim", "veniam", "quis", "nostrud", "exercitation", "ullamco", "laboris",
	"nisi", "aliquip", "commodo", "consequat", "duis", "aute", "irure",
	"product", "service", "platform", "digital", "cloud", "data", "system",
	"network", "security", "performance", "solution", "integration", "analytics",
}

var emailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "protonmail.com",
	"icloud.com", "example.com", "test.com", "company.org", "business.io",
}

var cities = []string{
	"Springfield", "Riverside", "Fairview", "Franklin", "Greenville", "Bristol",
	"Clinton", "Salem", "Madison", "Georgetown", "Arlington", "Ashland",
}

var countries = []string{
	"United States", "Canada", "United Kingdom", "Germany", "France", "Japan",
	"Australia", "Brazil", "India", "Mexico", "Spain", "Netherlands",
}

var companySuffixes = []string{"Inc", "LLC", "Group", "Labs", "Systems", "Holdings", "Partners"}

var currencyCodes = []string{
	"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "CNY", "SEK", "NZD",
}

// Faker synthesizes default column values when no override,
// distribution, or enum applies. Anchor fixes the "now" used for
// date/timestamp lookback windows so a run is a pure function of its
// inputs.
type Faker struct {
	rng    *RNG
	anchor time.Time
}

func NewFaker(rng *RNG, anchor time.Time) *Faker {
	return &Faker{rng: rng, anchor: anchor}
}

// fakeContext carries what a generator needs about the column at hand.
type fakeContext struct {
	col      *schema.Column
	rowIndex int
	isPK     bool
	cons     *TableConstraints
}

// typeRule pairs a type-name predicate with a generator. Rules are
// evaluated in declared order; the first match wins.
type typeRule struct {
	match func(t string) bool
	gen   func(f *Faker, ctx fakeContext) any
}

var typeRules = []typeRule{
	{matchExact("uuid"), (*Faker).fakeUUID},
	{matchAny("smallint", "int2", "smallserial", "serial2"), intGen(1, 32000)},
	{matchAny("integer", "int", "int4", "serial", "serial4", "mediumint"), intGen(1, 1_000_000)},
	{matchAny("bigint", "int8", "bigserial", "serial8"), intGen(1, 1_000_000_000)},
	{matchAny("numeric", "decimal", "real", "float4", "double precision", "float8", "float", "double", "money"), (*Faker).fakeFloat},
	{matchBool, (*Faker).fakeBool},
	{matchAny("timestamp", "timestamptz", "timestamp with time zone", "timestamp without time zone", "datetime"), (*Faker).fakeTimestamp},
	{matchExact("date"), (*Faker).fakeDate},
	{matchAny("time", "timetz", "time with time zone", "time without time zone"), (*Faker).fakeTime},
	{matchAny("json", "jsonb"), func(*Faker, fakeContext) any { return map[string]any{} }},
	{matchArray, func(*Faker, fakeContext) any { return []any{} }},
	{matchText, (*Faker).fakeText},
}

// namedRule pairs a column-name predicate with a text generator.
// Checked in declared order, first match wins; the order encodes
// pattern priority (email before name, etc.).
type namedRule struct {
	match func(name string) bool
	gen   func(f *Faker, ctx fakeContext) any
}

var nameRules = []namedRule{
	{nameContains("email"), (*Faker).fakeEmail},
	{nameContains("first_name", "firstname"), func(f *Faker, _ fakeContext) any { return f.pick(firstNames) }},
	{nameContains("last_name", "lastname", "surname"), func(f *Faker, _ fakeContext) any { return f.pick(lastNames) }},
	{nameContains("username", "user_name", "login"), (*Faker).fakeUsername},
	{nameContains("name"), func(f *Faker, _ fakeContext) any { return f.pick(firstNames) + " " + f.pick(lastNames) }},
	{nameContains("phone", "mobile"), (*Faker).fakePhone},
	{nameContains("address", "street"), (*Faker).fakeAddress},
	{nameContains("city"), func(f *Faker, _ fakeContext) any { return f.pick(cities) }},
	{nameContains("country"), func(f *Faker, _ fakeContext) any { return f.pick(countries) }},
	{nameContains("zip", "postal"), (*Faker).fakePostalCode},
	{nameContains("url", "link", "website"), (*Faker).fakeURL},
	{nameContains("description", "content", "body", "comment", "notes"), (*Faker).fakeSentences},
	{nameContains("title", "subject"), (*Faker).fakeTitle},
	{nameContains("company", "organization", "vendor"), (*Faker).fakeCompany},
	{nameContains("currency"), func(f *Faker, _ fakeContext) any { return f.pick(currencyCodes) }},
}

// Default produces a value for the column from its declared type,
// walking the type strategy table in order. Unmatched types fall back
// to a single generic text token.
func (f *Faker) Default(col *schema.Column, rowIndex int, isPK bool, cons *TableConstraints) any {
	ctx := fakeContext{col: col, rowIndex: rowIndex, isPK: isPK, cons: cons}
	t := schema.NormalizeType(col.Type)
	for _, rule := range typeRules {
		if rule.match(t) {
			return rule.gen(f, ctx)
		}
	}
	return f.pick(loremWords)
}

func matchExact(name string) func(string) bool {
	return func(t string) bool { return t == name }
}

func matchAny(names ...string) func(string) bool {
	return func(t string) bool {
		for _, n := range names {
			if t == n {
				return true
			}
		}
		return false
	}
}

func matchBool(t string) bool {
	return t == "boolean" || t == "bool"
}

// matchArray detects the postgres conventions: a [] suffix or a _
// element-type prefix.
func matchArray(t string) bool {
	return strings.HasSuffix(t, "[]") || strings.HasPrefix(t, "_") || t == "array"
}

func matchText(t string) bool {
	switch t {
	case "text", "varchar", "character varying", "char", "character", "citext", "bpchar", "tinytext", "mediumtext", "longtext", "string":
		return true
	}
	return false
}

func nameContains(needles ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range needles {
			if strings.Contains(name, n) {
				return true
			}
		}
		return false
	}
}

// intGen returns integers in the type's magnitude band, narrowed by
// check-constraint bounds. Primary-key members instead count up from 1
// so uniqueness needs no tracking.
func intGen(defMin, defMax int) func(*Faker, fakeContext) any {
	return func(f *Faker, ctx fakeContext) any {
		if ctx.isPK {
			return ctx.rowIndex + 1
		}
		min, max := defMin, defMax
		if ctx.cons != nil {
			min, max = ctx.cons.ApplyRangeBounds(ctx.col.Name, min, max)
		}
		return f.rng.IntBetween(min, max)
	}
}

func (f *Faker) fakeFloat(ctx fakeContext) any {
	min, max := 0, 10000
	if ctx.cons != nil {
		min, max = ctx.cons.ApplyRangeBounds(ctx.col.Name, min, max)
	}
	v := f.rng.FloatBetween(float64(min), float64(max))
	return roundCents(v)
}

func roundCents(v float64) float64 {
	return float64(int(v*100)) / 100
}

func (f *Faker) fakeBool(fakeContext) any {
	return f.rng.Bernoulli(0.5)
}

func (f *Faker) fakeUUID(fakeContext) any {
	// Reader is the seeded stream, so UUIDs reproduce with the seed.
	id, err := uuid.NewRandomFromReader(f.rng.src)
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}

func (f *Faker) recentInstant() time.Time {
	hours := f.rng.IntBetween(0, 365*24)
	return f.anchor.Add(-time.Duration(hours) * time.Hour)
}

func (f *Faker) fakeTimestamp(fakeContext) any {
	return f.recentInstant().Format("2006-01-02 15:04:05")
}

func (f *Faker) fakeDate(fakeContext) any {
	return f.recentInstant().Format("2006-01-02")
}

func (f *Faker) fakeTime(fakeContext) any {
	s := f.recentInstant().Format("2006-01-02 15:04:05")
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return "00:00:00"
	}
	return t.Format("15:04:05")
}

// fakeText routes through the column-name pattern table; no match
// falls back to a generic shape chosen at random.
func (f *Faker) fakeText(ctx fakeContext) any {
	name := strings.ToLower(ctx.col.Name)
	for _, rule := range nameRules {
		if rule.match(name) {
			return rule.gen(f, ctx)
		}
	}
	return f.genericText(ctx)
}

func (f *Faker) genericText(ctx fakeContext) any {
	switch f.rng.IntBetween(0, 5) {
	case 0:
		return f.pick(loremWords)
	case 1:
		return f.words(2 + f.rng.IntBetween(0, 2))
	case 2:
		return f.fakeSentences(ctx)
	case 3:
		return f.fakeSlug(ctx)
	case 4:
		return fmt.Sprintf("%s%06d", f.pick(loremWords), f.rng.IntBetween(0, 999999))
	default:
		return f.fakeURL(ctx)
	}
}

func (f *Faker) pick(pool []string) string {
	return pool[f.rng.IntBetween(0, len(pool)-1)]
}

func (f *Faker) words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = f.pick(loremWords)
	}
	return strings.Join(parts, " ")
}

func (f *Faker) fakeEmail(ctx fakeContext) any {
	return fmt.Sprintf("%s.%s_%d@%s",
		strings.ToLower(f.pick(firstNames)),
		strings.ToLower(f.pick(lastNames)),
		ctx.rowIndex+1,
		f.pick(emailDomains),
	)
}

func (f *Faker) fakeUsername(ctx fakeContext) any {
	return fmt.Sprintf("%s_%s_%d",
		strings.ToLower(f.pick(firstNames)),
		strings.ToLower(f.pick(lastNames)),
		ctx.rowIndex+1,
	)
}

func (f *Faker) fakePhone(fakeContext) any {
	return fmt.Sprintf("+1-%03d-%03d-%04d",
		f.rng.IntBetween(200, 999), f.rng.IntBetween(0, 999), f.rng.IntBetween(0, 9999))
}

func (f *Faker) fakeAddress(fakeContext) any {
	return fmt.Sprintf("%d %s St", f.rng.IntBetween(1, 9999), f.pick(lastNames))
}

func (f *Faker) fakePostalCode(fakeContext) any {
	return fmt.Sprintf("%05d", f.rng.IntBetween(0, 99999))
}

func (f *Faker) fakeURL(fakeContext) any {
	return fmt.Sprintf("https://example.com/%s/%d", f.pick(loremWords), f.rng.IntBetween(1, 999))
}

func (f *Faker) fakeSentences(fakeContext) any {
	count := 1 + f.rng.IntBetween(0, 2)
	parts := make([]string, count)
	for i := range parts {
		s := f.words(5 + f.rng.IntBetween(0, 7))
		parts[i] = strings.ToUpper(s[:1]) + s[1:] + "."
	}
	return strings.Join(parts, " ")
}

func (f *Faker) fakeTitle(fakeContext) any {
	s := f.words(2 + f.rng.IntBetween(0, 3))
	return strings.ToUpper(s[:1]) + s[1:]
}

func (f *Faker) fakeCompany(fakeContext) any {
	return f.pick(lastNames) + " " + f.pick(companySuffixes)
}

func (f *Faker) fakeSlug(ctx fakeContext) any {
	n := 2 + f.rng.IntBetween(0, 2)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = f.pick(loremWords)
	}
	return fmt.Sprintf("%s-%d", strings.Join(parts, "-"), ctx.rowIndex+1)
}
