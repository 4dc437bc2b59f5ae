package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice. %MONEY%, %TIME% and
// %JSON% are replaced with the dialect's native types.
var migrations = [][]string{
	// Migration 1: users, catalog, inventory
	{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'STAFF',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at %TIME% NOT NULL,
			CONSTRAINT users_role_check CHECK (role IN ('ADMIN', 'MANAGER', 'STAFF'))
		)`,

		`CREATE TABLE categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			parent_id TEXT REFERENCES categories(id) ON DELETE RESTRICT,
			display_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX idx_categories_parent ON categories(parent_id)`,

		`CREATE TABLE products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sku TEXT NOT NULL UNIQUE,
			barcode TEXT UNIQUE,
			description TEXT,
			category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			price %MONEY% NOT NULL,
			cost_price %MONEY%,
			images %JSON% NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at %TIME% NOT NULL,
			updated_at %TIME% NOT NULL
		)`,
		`CREATE INDEX idx_products_category ON products(category_id)`,

		`CREATE TABLE product_variants (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			sku TEXT NOT NULL UNIQUE,
			price %MONEY% NOT NULL,
			attributes %JSON% NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE INDEX idx_product_variants_product ON product_variants(product_id)`,

		`CREATE TABLE inventories (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
			quantity INTEGER NOT NULL DEFAULT 0,
			reserved_qty INTEGER NOT NULL DEFAULT 0,
			low_stock_threshold INTEGER NOT NULL DEFAULT 10,
			updated_at %TIME% NOT NULL,
			CONSTRAINT inventories_quantity_check CHECK (quantity >= 0),
			CONSTRAINT inventories_reserved_qty_check CHECK (reserved_qty >= 0 AND reserved_qty <= quantity)
		)`,

		// Append-only log. product_id is a plain reference so history
		// survives product deletion.
		`CREATE TABLE stock_movements (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			type TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			reference_type TEXT NOT NULL,
			reference_id TEXT NOT NULL,
			note TEXT,
			created_at %TIME% NOT NULL,
			created_by TEXT NOT NULL,
			CONSTRAINT stock_movements_type_check CHECK (type IN ('IN', 'OUT', 'ADJUSTMENT', 'RETURN', 'RESERVE', 'RELEASE'))
		)`,
		`CREATE INDEX idx_stock_movements_product ON stock_movements(product_id)`,
		`CREATE INDEX idx_stock_movements_created ON stock_movements(created_at)`,
	},

	// Migration 2: customers and orders
	{
		`CREATE TABLE customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT UNIQUE,
			email TEXT,
			address TEXT,
			points INTEGER NOT NULL DEFAULT 0,
			created_at %TIME% NOT NULL,
			CONSTRAINT customers_points_check CHECK (points >= 0)
		)`,

		`CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			customer_id TEXT REFERENCES customers(id) ON DELETE SET NULL,
			subtotal %MONEY% NOT NULL,
			discount %MONEY% NOT NULL DEFAULT 0,
			tax %MONEY% NOT NULL DEFAULT 0,
			total %MONEY% NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			payment_status TEXT NOT NULL DEFAULT 'UNPAID',
			payment_method TEXT,
			note TEXT,
			created_at %TIME% NOT NULL,
			created_by TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			CONSTRAINT orders_status_check CHECK (status IN ('PENDING', 'PROCESSING', 'COMPLETED', 'CANCELLED')),
			CONSTRAINT orders_payment_status_check CHECK (payment_status IN ('UNPAID', 'PARTIAL', 'PAID', 'REFUNDED'))
		)`,
		`CREATE INDEX idx_orders_created ON orders(created_at)`,
		`CREATE INDEX idx_orders_status ON orders(status, payment_status)`,
		`CREATE INDEX idx_orders_customer ON orders(customer_id)`,

		`CREATE TABLE order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
			name TEXT NOT NULL,
			price %MONEY% NOT NULL,
			quantity INTEGER NOT NULL,
			discount %MONEY% NOT NULL DEFAULT 0,
			total %MONEY% NOT NULL,
			CONSTRAINT order_items_quantity_check CHECK (quantity > 0)
		)`,
		`CREATE INDEX idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX idx_order_items_product ON order_items(product_id)`,
	},
}
