package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedCatalog(db)
	seedSales(db)
	seedVouchers(db)

	log.Println("Seeding completed successfully!")
}

func seedCatalog(db *sql.DB) {
	fmt.Println("Seeding Product Types...")
	types := []struct {
		Name             string
		HasVariants      bool
		ShippingRequired bool
	}{
		{"Physical", true, true},
		{"Digital", false, false},
	}
	typeIDs := make(map[string]int64)
	for _, t := range types {
		var id int64
		err := db.QueryRow(`
			INSERT INTO product_types (name, has_variants, shipping_required)
			VALUES ($1, $2, $3)
			RETURNING id;
		`, t.Name, t.HasVariants, t.ShippingRequired).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed product type %s: %v", t.Name, err)
			continue
		}
		typeIDs[t.Name] = id
	}

	fmt.Println("Seeding Categories...")
	categories := []struct {
		Name string
		Slug string
	}{
		{"Apparel", "apparel"},
		{"Accessories", "accessories"},
		{"Groceries", "groceries"},
		{"Books", "books"},
	}
	catIDs := make(map[string]int64)
	for _, c := range categories {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name;
		`, c.Name, c.Slug)
		if err != nil {
			log.Printf("Failed to upsert category %s: %v", c.Name, err)
		}
		var id int64
		if err := db.QueryRow("SELECT id FROM categories WHERE slug = $1", c.Slug).Scan(&id); err != nil {
			log.Printf("Failed to get ID for category %s: %v", c.Name, err)
			continue
		}
		catIDs[c.Slug] = id
	}

	fmt.Println("Seeding Products...")
	products := []struct {
		Name     string
		Slug     string
		Type     string
		Category string
		Price    string
		SKU      string
		Stock    int
	}{
		{"Plain Cotton T-Shirt", "plain-cotton-t-shirt", "Physical", "apparel", "19.90", "TSHIRT-PLAIN", 120},
		{"Hooded Sweatshirt", "hooded-sweatshirt", "Physical", "apparel", "49.00", "HOODIE-GREY", 60},
		{"Leather Belt", "leather-belt", "Physical", "accessories", "29.50", "BELT-LTHR", 35},
		{"Canvas Tote Bag", "canvas-tote-bag", "Physical", "accessories", "12.00", "TOTE-CANVAS", 200},
		{"Single Origin Coffee 250g", "single-origin-coffee", "Physical", "groceries", "9.80", "COFFEE-250", 80},
		{"Paperback Novel", "paperback-novel", "Physical", "books", "14.20", "BOOK-NOVEL", 45},
	}
	for _, p := range products {
		catID, ok := catIDs[p.Category]
		if !ok {
			log.Printf("Missing category ID for %s", p.Category)
			continue
		}
		var productID int64
		err := db.QueryRow(`
			INSERT INTO products (name, slug, product_type_id, category_id, price, currency, published)
			VALUES ($1, $2, $3, $4, $5, 'EUR', TRUE)
			ON CONFLICT (slug) DO UPDATE SET price = EXCLUDED.price
			RETURNING id;
		`, p.Name, p.Slug, typeIDs[p.Type], catID, p.Price).Scan(&productID)
		if err != nil {
			log.Printf("Failed to upsert product %s: %v", p.Slug, err)
			continue
		}

		var variantID int64
		err = db.QueryRow(`
			INSERT INTO product_variants (product_id, sku, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name
			RETURNING id;
		`, productID, p.SKU, p.Name).Scan(&variantID)
		if err != nil {
			log.Printf("Failed to upsert variant %s: %v", p.SKU, err)
			continue
		}

		_, err = db.Exec(`
			INSERT INTO stocks (variant_id, location, quantity, quantity_allocated, min_days, max_days)
			VALUES ($1, 'default', $2, 0, 2, 5)
			ON CONFLICT ON CONSTRAINT stocks_variant_location
			DO UPDATE SET quantity = EXCLUDED.quantity;
		`, variantID, p.Stock)
		if err != nil {
			log.Printf("Failed to upsert stock for %s: %v", p.SKU, err)
		}
	}
}

func seedSales(db *sql.DB) {
	fmt.Println("Seeding Sales...")
	var saleID int64
	err := db.QueryRow(`
		INSERT INTO sales (name, type, value)
		VALUES ('Apparel week', 'percentage', 10)
		RETURNING id;
	`).Scan(&saleID)
	if err != nil {
		log.Printf("Failed to seed sale: %v", err)
		return
	}
	_, err = db.Exec(`
		INSERT INTO sale_categories (sale_id, category_id)
		SELECT $1, id FROM categories WHERE slug = 'apparel'
		ON CONFLICT DO NOTHING;
	`, saleID)
	if err != nil {
		log.Printf("Failed to scope sale: %v", err)
	}
}

func seedVouchers(db *sql.DB) {
	fmt.Println("Seeding Vouchers...")
	vouchers := []struct {
		Code      string
		Name      string
		Type      string
		ValueType string
		Value     string
		Limit     sql.NullString
		Usage     sql.NullInt64
	}{
		{"WELCOME10", "Welcome discount", "value", "percentage", "10", sql.NullString{}, sql.NullInt64{}},
		{"FREESHIP", "Free shipping", "shipping", "fixed", "100", sql.NullString{}, sql.NullInt64{Int64: 500, Valid: true}},
		{"BIGSPENDER", "5 off orders over 100", "value", "fixed", "5", sql.NullString{String: "100", Valid: true}, sql.NullInt64{}},
	}
	for _, v := range vouchers {
		_, err := db.Exec(`
			INSERT INTO vouchers (code, name, type, value_type, value, currency, limit_amount, usage_limit)
			VALUES ($1, $2, $3, $4, $5, 'EUR', $6, $7)
			ON CONFLICT (code) DO UPDATE SET value = EXCLUDED.value;
		`, v.Code, v.Name, v.Type, v.ValueType, v.Value, v.Limit, v.Usage)
		if err != nil {
			log.Printf("Failed to seed voucher %s: %v", v.Code, err)
		}
	}
}
