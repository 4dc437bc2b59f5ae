package schema

import "github.com/nguyenlanh282/poscake-skill/internal/domain"

var (
	idField  = Field{Name: "id", Type: String, ID: true, Default: "uuid()"}
	moneyDB  = "Decimal(10, 2)"
	created  = Field{Name: "createdAt", Type: DateTime, Default: "now()"}
	updated  = Field{Name: "updatedAt", Type: DateTime, UpdatedAt: true}
	isActive = Field{Name: "isActive", Type: Boolean, Default: "true"}
)

// POS returns the point-of-sale schema. Each call returns a fresh copy.
func POS() *Model {
	return &Model{
		Provider: "postgresql",
		EnvURL:   "DATABASE_URL",
		Entities: []Entity{
			{
				Name: "User", Table: "users", Section: "USERS & AUTH",
				Fields: []Field{
					idField,
					{Name: "email", Type: String, Unique: true},
					{Name: "name", Type: String},
					{Name: "password", Type: String, Column: "password_hash"},
					{Name: "role", Type: "Role", Default: string(domain.RoleStaff)},
					isActive,
					created,
					{Name: "orders", Type: "Order", List: true, Back: true},
				},
			},
			{
				Name: "Category", Table: "categories", Section: "PRODUCTS",
				Fields: []Field{
					idField,
					{Name: "name", Type: String},
					{Name: "slug", Type: String, Unique: true},
					{Name: "parentId", Type: String, Optional: true},
					{Name: "parent", Type: "Category", Optional: true, Relation: &Relation{
						Name: "CategoryTree", Fields: []string{"parentId"}, References: []string{"id"}, OnDelete: Restrict,
					}},
					{Name: "children", Type: "Category", List: true, Back: true, Relation: &Relation{Name: "CategoryTree"}},
					{Name: "products", Type: "Product", List: true, Back: true},
					{Name: "order", Type: Int, Default: "0", Column: "display_order"},
				},
				Indexes: [][]string{{"parentId"}},
			},
			{
				Name: "Product", Table: "products",
				Fields: []Field{
					idField,
					{Name: "name", Type: String},
					{Name: "sku", Type: String, Unique: true},
					{Name: "barcode", Type: String, Optional: true, Unique: true},
					{Name: "description", Type: String, Optional: true},
					{Name: "categoryId", Type: String},
					{Name: "category", Type: "Category", Relation: &Relation{
						Fields: []string{"categoryId"}, References: []string{"id"}, OnDelete: Restrict,
					}},
					{Name: "price", Type: Decimal, DBType: moneyDB},
					{Name: "costPrice", Type: Decimal, Optional: true, DBType: moneyDB},
					{Name: "images", Type: String, List: true},
					isActive,
					created,
					updated,
					{Name: "variants", Type: "ProductVariant", List: true, Back: true},
					{Name: "inventory", Type: "Inventory", Optional: true, Back: true},
					{Name: "orderItems", Type: "OrderItem", List: true, Back: true},
				},
				Indexes: [][]string{{"categoryId"}},
			},
			{
				Name: "ProductVariant", Table: "product_variants",
				Fields: []Field{
					idField,
					{Name: "productId", Type: String},
					{Name: "product", Type: "Product", Relation: &Relation{
						Fields: []string{"productId"}, References: []string{"id"}, OnDelete: Cascade,
					}},
					{Name: "name", Type: String},
					{Name: "sku", Type: String, Unique: true},
					{Name: "price", Type: Decimal, DBType: moneyDB},
					{Name: "attributes", Type: JSON},
					isActive,
				},
				Indexes: [][]string{{"productId"}},
			},
			{
				Name: "Inventory", Table: "inventories", Section: "INVENTORY",
				Fields: []Field{
					idField,
					{Name: "productId", Type: String, Unique: true},
					{Name: "product", Type: "Product", Relation: &Relation{
						Fields: []string{"productId"}, References: []string{"id"}, OnDelete: Cascade,
					}},
					{Name: "quantity", Type: Int, Default: "0"},
					{Name: "reservedQty", Type: Int, Default: "0"},
					{Name: "lowStockThreshold", Type: Int, Default: "10"},
					updated,
				},
			},
			{
				Name: "StockMovement", Table: "stock_movements",
				Fields: []Field{
					idField,
					{Name: "productId", Type: String},
					{Name: "type", Type: String},
					{Name: "quantity", Type: Int},
					{Name: "referenceType", Type: String},
					{Name: "referenceId", Type: String},
					{Name: "note", Type: String, Optional: true},
					created,
					{Name: "createdBy", Type: String},
				},
				Indexes: [][]string{{"productId"}, {"createdAt"}},
			},
			{
				Name: "Customer", Table: "customers", Section: "ORDERS",
				Fields: []Field{
					idField,
					{Name: "name", Type: String},
					{Name: "phone", Type: String, Optional: true, Unique: true},
					{Name: "email", Type: String, Optional: true},
					{Name: "address", Type: String, Optional: true},
					{Name: "points", Type: Int, Default: "0"},
					created,
					{Name: "orders", Type: "Order", List: true, Back: true},
				},
			},
			{
				Name: "Order", Table: "orders",
				Fields: []Field{
					idField,
					{Name: "orderNumber", Type: String, Unique: true},
					{Name: "customerId", Type: String, Optional: true},
					{Name: "customer", Type: "Customer", Optional: true, Relation: &Relation{
						Fields: []string{"customerId"}, References: []string{"id"}, OnDelete: SetNull,
					}},
					{Name: "items", Type: "OrderItem", List: true, Back: true},
					{Name: "subtotal", Type: Decimal, DBType: moneyDB},
					{Name: "discount", Type: Decimal, Default: "0", DBType: moneyDB},
					{Name: "tax", Type: Decimal, Default: "0", DBType: moneyDB},
					{Name: "total", Type: Decimal, DBType: moneyDB},
					{Name: "status", Type: "OrderStatus", Default: string(domain.OrderPending)},
					{Name: "paymentStatus", Type: "PaymentStatus", Default: string(domain.PaymentUnpaid)},
					{Name: "paymentMethod", Type: String, Optional: true},
					{Name: "note", Type: String, Optional: true},
					created,
					{Name: "createdBy", Type: String},
					{Name: "user", Type: "User", Relation: &Relation{
						Fields: []string{"createdBy"}, References: []string{"id"}, OnDelete: Restrict,
					}},
				},
				Indexes: [][]string{{"createdAt"}, {"status", "paymentStatus"}, {"customerId"}},
			},
			{
				Name: "OrderItem", Table: "order_items",
				Fields: []Field{
					idField,
					{Name: "orderId", Type: String},
					{Name: "order", Type: "Order", Relation: &Relation{
						Fields: []string{"orderId"}, References: []string{"id"}, OnDelete: Cascade,
					}},
					{Name: "productId", Type: String},
					{Name: "product", Type: "Product", Relation: &Relation{
						Fields: []string{"productId"}, References: []string{"id"}, OnDelete: Restrict,
					}},
					{Name: "name", Type: String},
					{Name: "price", Type: Decimal, DBType: moneyDB},
					{Name: "quantity", Type: Int},
					{Name: "discount", Type: Decimal, Default: "0", DBType: moneyDB},
					{Name: "total", Type: Decimal, DBType: moneyDB},
				},
				Indexes: [][]string{{"orderId"}, {"productId"}},
			},
		},
		Enums: []Enum{
			{Name: "Role", Values: enumValues(domain.Roles)},
			{Name: "OrderStatus", Values: enumValues(domain.OrderStatuses)},
			{Name: "PaymentStatus", Values: enumValues(domain.PaymentStatuses)},
		},
	}
}

func enumValues[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
