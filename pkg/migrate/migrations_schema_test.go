package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestMigrationsContainConstraints(t *testing.T) {
	cases := map[string][]string{
		"create_catalog": {
			"CREATE TABLE IF NOT EXISTS coffees",
			"price numeric(10,2) NOT NULL",
			"CONSTRAINT ux_tags_name UNIQUE (name)",
			"FOREIGN KEY (coffee_id) REFERENCES coffees(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS coffees",
		},
		"create_carts": {
			"CREATE TABLE IF NOT EXISTS cart_items",
			"CONSTRAINT ux_cart_items_cart_coffee UNIQUE (cart_id, coffee_id)",
			"CHECK (quantity BETWEEN 1 AND 5)",
			"DROP TABLE IF EXISTS carts",
		},
		"create_orders": {
			"CREATE TABLE IF NOT EXISTS order_items",
			"FOREIGN KEY (coffee_id) REFERENCES coffees(id) ON DELETE SET NULL",
			"CHECK (total_amount = items_total + shipping_fee)",
			"DROP TABLE IF EXISTS orders",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}
