package datagen

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/scenario"
	"github.com/samarhussain007/TDF-Test-Data-Factory-generator/internal/schema"
)

func int64Ptr(n int64) *int64 { return &n }

var testAnchor = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func runOpts(seed int64) Options {
	return Options{Seed: int64Ptr(seed), Anchor: testAnchor}
}

func orgUsersSchema() *schema.Document {
	return &schema.Document{
		TableOrder: []string{"organizations", "users"},
		Tables: map[string]*schema.Table{
			"organizations": {
				Name:       "organizations",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "name", Type: "text"},
				},
			},
			"users": {
				Name:       "users",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "org_id", Type: "bigint"},
					{Name: "email", Type: "text"},
				},
				ForeignKeys: []schema.ForeignKey{
					{Name: "users_org_fk", Columns: []string{"org_id"}, RefTable: "organizations", RefColumns: []string{"id"}},
				},
			},
		},
	}
}

func TestRunOrganizationsAndUsers(t *testing.T) {
	doc := orgUsersSchema()
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"organizations": {Count: intPtr(3)},
			"users": {PerParent: &scenario.PerParentConfig{
				Parent: "organizations", FkColumns: []string{"org_id"}, Min: 2, Max: 2,
			}},
		},
		TableOrder: []string{"organizations", "users"},
	}

	result, err := Run(doc, scn, runOpts(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orgs := result.Data["organizations"]
	users := result.Data["users"]
	if len(orgs) != 3 {
		t.Fatalf("organizations = %d rows, want 3", len(orgs))
	}
	if len(users) != 6 {
		t.Fatalf("users = %d rows, want exactly 6", len(users))
	}

	// Each org is referenced exactly twice.
	refs := make(map[any]int)
	for _, row := range users {
		refs[row["org_id"]]++
	}
	for _, org := range orgs {
		if refs[org["id"]] != 2 {
			t.Errorf("org %v referenced %d times, want 2", org["id"], refs[org["id"]])
		}
	}
}

func TestRunIntegerPKsCountUp(t *testing.T) {
	doc := orgUsersSchema()
	scn := &scenario.Document{
		Tables:     map[string]*scenario.TableConfig{"organizations": {Count: intPtr(5)}},
		TableOrder: []string{"organizations"},
	}

	result, err := Run(doc, scn, runOpts(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["organizations"] {
		if row["id"] != i+1 {
			t.Errorf("row %d id = %v, want %d", i, row["id"], i+1)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	doc := orgUsersSchema()
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"organizations": {Count: intPtr(4)},
			"users": {PerParent: &scenario.PerParentConfig{
				Parent: "organizations", FkColumns: []string{"org_id"}, Min: 1, Max: 3,
			}},
		},
		TableOrder: []string{"organizations", "users"},
	}

	first, err := Run(doc, scn, runOpts(1234))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Run(doc, scn, runOpts(1234))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.Data, second.Data) {
		t.Error("identical seed and anchor produced different datasets")
	}

	third, err := Run(doc, scn, runOpts(1235))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reflect.DeepEqual(first.Data, third.Data) {
		t.Error("different seeds produced identical datasets")
	}
}

func TestRunScenarioSeedUsedWhenNoOverride(t *testing.T) {
	doc := orgUsersSchema()
	scn := &scenario.Document{
		Seed:       int64Ptr(555),
		Tables:     map[string]*scenario.TableConfig{"organizations": {Count: intPtr(2)}},
		TableOrder: []string{"organizations"},
	}

	result, err := Run(doc, scn, Options{Anchor: testAnchor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Plan.Seed != 555 {
		t.Errorf("plan seed = %d, want scenario seed 555", result.Plan.Seed)
	}
}

func TestRunOverridePriority(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"products"},
		Tables: map[string]*schema.Table{
			"products": {
				Name:       "products",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "status", Type: "text", EnumValues: []string{"active", "archived"}},
					{Name: "tier", Type: "text"},
					{Name: "price", Type: "integer"},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"products": {
				Count: intPtr(50),
				Overrides: map[string]*scenario.Override{
					// Fixed value beats the enum.
					"status": {Value: "frozen"},
					"tier":   {OneOf: []any{"gold", "silver"}},
					"price":  {Range: &scenario.NumericRange{Min: 10, Max: 20}},
				},
			},
		},
		TableOrder: []string{"products"},
	}

	result, err := Run(doc, scn, runOpts(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["products"] {
		if row["status"] != "frozen" {
			t.Fatalf("row %d status = %v, want fixed override", i, row["status"])
		}
		if row["tier"] != "gold" && row["tier"] != "silver" {
			t.Fatalf("row %d tier = %v, want oneOf member", i, row["tier"])
		}
		price, ok := row["price"].(int)
		if !ok || price < 10 || price > 20 {
			t.Fatalf("row %d price = %v, want integer in [10, 20]", i, row["price"])
		}
	}
}

func TestRunDistributionAndEnum(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"orders"},
		Tables: map[string]*schema.Table{
			"orders": {
				Name:       "orders",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "status", Type: "text"},
					{Name: "channel", Type: "text", EnumValues: []string{"web", "store"}},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"orders": {
				Count: intPtr(200),
				Distributions: map[string]scenario.Distribution{
					"status": {Values: []string{"completed", "pending"}, Weights: []float64{0.8, 0.2}},
				},
			},
		},
		TableOrder: []string{"orders"},
	}

	result, err := Run(doc, scn, runOpts(8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["orders"] {
		if row["status"] != "completed" && row["status"] != "pending" {
			t.Fatalf("row %d status = %v, want distribution member", i, row["status"])
		}
		if row["channel"] != "web" && row["channel"] != "store" {
			t.Fatalf("row %d channel = %v, want enum member", i, row["channel"])
		}
	}
}

func TestRunNullRates(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"profiles"},
		Tables: map[string]*schema.Table{
			"profiles": {
				Name:       "profiles",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "bio", Type: "text", Nullable: true},
					{Name: "nickname", Type: "text", Nullable: true},
					{Name: "email", Type: "text"},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"profiles": {
				Count: intPtr(100),
				NullRates: map[string]float64{
					"bio":      1.0,
					"nickname": 0.0,
				},
			},
		},
		TableOrder: []string{"profiles"},
	}

	result, err := Run(doc, scn, runOpts(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["profiles"] {
		if row["bio"] != nil {
			t.Fatalf("row %d bio = %v, rate 1.0 must always null", i, row["bio"])
		}
		// An explicit zero rate suppresses the ambient noise too.
		if row["nickname"] == nil {
			t.Fatalf("row %d nickname is null despite rate 0.0", i)
		}
		// Non-nullable columns never receive nulls.
		if row["email"] == nil {
			t.Fatalf("row %d email is null despite NOT NULL", i)
		}
	}
}

func TestRunAmbientNullRate(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"profiles"},
		Tables: map[string]*schema.Table{
			"profiles": {
				Name:       "profiles",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "bio", Type: "text", Nullable: true},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables:     map[string]*scenario.TableConfig{"profiles": {Count: intPtr(2000)}},
		TableOrder: []string{"profiles"},
	}

	result, err := Run(doc, scn, runOpts(17))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nulls := 0
	for _, row := range result.Data["profiles"] {
		if row["bio"] == nil {
			nulls++
		}
	}
	rate := float64(nulls) / 2000
	if rate < 0.02 || rate > 0.09 {
		t.Errorf("ambient null rate = %.3f, want about 0.05", rate)
	}
}

func TestRunRules(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"orders"},
		Tables: map[string]*schema.Table{
			"orders": {
				Name:       "orders",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "status", Type: "text"},
					{Name: "cancelled_reason", Type: "text", Nullable: true},
					{Name: "shipped_at", Type: "timestamp", Nullable: true},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"orders": {
				Count: intPtr(100),
				Distributions: map[string]scenario.Distribution{
					"status": {Values: []string{"cancelled", "shipped"}, Weights: []float64{0.5, 0.5}},
				},
				Rules: []scenario.Rule{
					{
						When: map[string]any{"status": "cancelled"},
						Set:  map[string]any{"cancelled_reason": "customer_request", "shipped_at": nil},
					},
					{
						When: map[string]any{"status": "shipped"},
						Set:  map[string]any{"shipped_at": scenario.GenerateValue, "cancelled_reason": nil},
					},
				},
			},
		},
		TableOrder: []string{"orders"},
	}

	result, err := Run(doc, scn, runOpts(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["orders"] {
		switch row["status"] {
		case "cancelled":
			if row["cancelled_reason"] != "customer_request" {
				t.Fatalf("row %d cancelled without reason: %v", i, row["cancelled_reason"])
			}
			if row["shipped_at"] != nil {
				t.Fatalf("row %d cancelled but shipped_at = %v", i, row["shipped_at"])
			}
		case "shipped":
			if row["shipped_at"] == nil {
				t.Fatalf("row %d shipped but shipped_at is null", i)
			}
			if row["cancelled_reason"] != nil {
				t.Fatalf("row %d shipped but cancelled_reason = %v", i, row["cancelled_reason"])
			}
		}
	}
}

func TestRunRuleDottedKeyNeverMatches(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"orders"},
		Tables: map[string]*schema.Table{
			"orders": {
				Name:       "orders",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "note", Type: "text", Nullable: true},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"orders": {
				Count:     intPtr(20),
				NullRates: map[string]float64{"note": 1.0},
				Rules: []scenario.Rule{
					{When: map[string]any{"users.status": "active"}, Set: map[string]any{"note": "matched"}},
				},
			},
		},
		TableOrder: []string{"orders"},
	}

	result, err := Run(doc, scn, runOpts(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["orders"] {
		if row["note"] == "matched" {
			t.Fatalf("row %d matched a dotted cross-table condition", i)
		}
	}
}

func TestRunSkipsGeneratedColumns(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"items"},
		Tables: map[string]*schema.Table{
			"items": {
				Name:       "items",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "name", Type: "text"},
					{Name: "search_vector", Type: "tsvector", IsGenerated: true},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables:     map[string]*scenario.TableConfig{"items": {Count: intPtr(5)}},
		TableOrder: []string{"items"},
	}

	result, err := Run(doc, scn, runOpts(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["items"] {
		if _, present := row["search_vector"]; present {
			t.Fatalf("row %d has a value for a generated column", i)
		}
	}
}

func m2mSchema() *schema.Document {
	return &schema.Document{
		TableOrder: []string{"students", "courses", "enrollments"},
		Tables: map[string]*schema.Table{
			"students": {
				Name:       "students",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "name", Type: "text"},
				},
			},
			"courses": {
				Name:       "courses",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "title", Type: "text"},
				},
			},
			"enrollments": {
				Name:       "enrollments",
				PrimaryKey: []string{"student_id", "course_id"},
				Columns: []schema.Column{
					{Name: "student_id", Type: "bigint", IsPrimary: true},
					{Name: "course_id", Type: "bigint", IsPrimary: true},
				},
				ForeignKeys: []schema.ForeignKey{
					{Name: "enr_student_fk", Columns: []string{"student_id"}, RefTable: "students", RefColumns: []string{"id"}},
					{Name: "enr_course_fk", Columns: []string{"course_id"}, RefTable: "courses", RefColumns: []string{"id"}},
				},
			},
		},
	}
}

func TestRunM2MNoDuplicatePairs(t *testing.T) {
	doc := m2mSchema()
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"students": {Count: intPtr(10)},
			"courses":  {Count: intPtr(8)},
			"enrollments": {M2M: &scenario.M2MConfig{
				Left: "students", LeftColumns: []string{"student_id"},
				Right: "courses", RightColumns: []string{"course_id"},
				Min: 2, Max: 5,
			}},
		},
		TableOrder: []string{"students", "courses", "enrollments"},
	}

	result, err := Run(doc, scn, runOpts(55))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	perStudent := make(map[any]map[any]bool)
	for _, row := range result.Data["enrollments"] {
		courses := perStudent[row["student_id"]]
		if courses == nil {
			courses = make(map[any]bool)
			perStudent[row["student_id"]] = courses
		}
		if courses[row["course_id"]] {
			t.Fatalf("student %v enrolled twice in course %v", row["student_id"], row["course_id"])
		}
		courses[row["course_id"]] = true
	}
	for student, courses := range perStudent {
		if len(courses) < 2 || len(courses) > 5 {
			t.Errorf("student %v has %d enrollments, want [2, 5]", student, len(courses))
		}
	}
}

func TestRunM2MSmallPoolWarns(t *testing.T) {
	doc := m2mSchema()
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"students": {Count: intPtr(3)},
			"courses":  {Count: intPtr(2)},
			"enrollments": {M2M: &scenario.M2MConfig{
				Left: "students", LeftColumns: []string{"student_id"},
				Right: "courses", RightColumns: []string{"course_id"},
				Min: 5, Max: 5,
			}},
		},
		TableOrder: []string{"students", "courses", "enrollments"},
	}

	result, err := Run(doc, scn, runOpts(55))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a small-pool warning")
	}
	if !strings.Contains(result.Warnings[0], "courses") {
		t.Errorf("warning does not name the right table: %q", result.Warnings[0])
	}
	// Each student gets the whole pool instead of 5.
	if len(result.Data["enrollments"]) != 6 {
		t.Errorf("enrollments = %d rows, want 3 students x 2 courses", len(result.Data["enrollments"]))
	}
}

func TestRunCompositeKeyPropagation(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"regions", "shipments"},
		Tables: map[string]*schema.Table{
			"regions": {
				Name:       "regions",
				PrimaryKey: []string{"country", "code"},
				Columns: []schema.Column{
					{Name: "country", Type: "text", IsPrimary: true},
					{Name: "code", Type: "integer", IsPrimary: true},
				},
			},
			"shipments": {
				Name:       "shipments",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "region_country", Type: "text"},
					{Name: "region_code", Type: "integer"},
				},
				ForeignKeys: []schema.ForeignKey{
					{
						Name:       "ship_region_fk",
						Columns:    []string{"region_country", "region_code"},
						RefTable:   "regions",
						RefColumns: []string{"country", "code"},
					},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"regions": {Count: intPtr(4)},
			"shipments": {PerParent: &scenario.PerParentConfig{
				Parent: "regions", FkColumns: []string{"region_country", "region_code"}, Min: 1, Max: 2,
			}},
		},
		TableOrder: []string{"regions", "shipments"},
	}

	result, err := Run(doc, scn, runOpts(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type key struct {
		country any
		code    any
	}
	parents := make(map[key]bool)
	for _, row := range result.Data["regions"] {
		parents[key{row["country"], row["code"]}] = true
	}
	for i, row := range result.Data["shipments"] {
		k := key{row["region_country"], row["region_code"]}
		if !parents[k] {
			t.Fatalf("shipment %d references unknown region %v", i, k)
		}
	}
}

func TestRunRepairsRelationalChecks(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"inventory"},
		Tables: map[string]*schema.Table{
			"inventory": {
				Name:       "inventory",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "on_hand", Type: "integer"},
					{Name: "reserved", Type: "integer"},
				},
				Checks: []schema.CheckConstraint{
					{Name: "inv_reserved_check", Expression: "(reserved <= on_hand)"},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables:     map[string]*scenario.TableConfig{"inventory": {Count: intPtr(200)}},
		TableOrder: []string{"inventory"},
	}

	result, err := Run(doc, scn, runOpts(31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["inventory"] {
		reserved := row["reserved"].(int)
		onHand := row["on_hand"].(int)
		if reserved > onHand {
			t.Fatalf("row %d reserved %d > on_hand %d", i, reserved, onHand)
		}
	}
}

func TestRunRangeChecksNarrowDefaults(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"patients"},
		Tables: map[string]*schema.Table{
			"patients": {
				Name:       "patients",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "age", Type: "integer"},
				},
				Checks: []schema.CheckConstraint{
					{Name: "patients_age_check", Expression: "(age >= 1 AND age <= 90)"},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables:     map[string]*scenario.TableConfig{"patients": {Count: intPtr(500)}},
		TableOrder: []string{"patients"},
	}

	result, err := Run(doc, scn, runOpts(13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result.Data["patients"] {
		age := row["age"].(int)
		if age < 1 || age > 90 {
			t.Fatalf("row %d age = %d, outside check range", i, age)
		}
	}
}

func TestRunEmptyDistributionFails(t *testing.T) {
	doc := &schema.Document{
		TableOrder: []string{"orders"},
		Tables: map[string]*schema.Table{
			"orders": {
				Name:       "orders",
				PrimaryKey: []string{"id"},
				Columns: []schema.Column{
					{Name: "id", Type: "bigint", IsPrimary: true},
					{Name: "status", Type: "text"},
				},
			},
		},
	}
	scn := &scenario.Document{
		Tables: map[string]*scenario.TableConfig{
			"orders": {
				Count: intPtr(1),
				Distributions: map[string]scenario.Distribution{
					"status": {Values: []string{"a"}, Weights: []float64{0}},
				},
			},
		},
		TableOrder: []string{"orders"},
	}

	_, err := Run(doc, scn, runOpts(1))
	if err == nil {
		t.Fatal("expected error for zero-weight distribution")
	}
	if _, ok := err.(*EmptyWeightMapError); !ok {
		t.Errorf("expected EmptyWeightMapError, got %T", err)
	}
}
