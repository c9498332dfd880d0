package types

// Demo table names. Every caller refers to tables through these constants.
const (
	TableProducts              = "products"
	TableCustomers             = "customers"
	TableOrders                = "orders"
	TableOrderItems            = "order_items"
	TableBadDesign             = "bad_design"
	TableUsers                 = "users"
	TableProductsSurrogate     = "products_surrogate"
	TableEmployeesUnnormalized = "employees_unnormalized"
	TableEmployees             = "employees"
	TableDepartments           = "departments"
	TableEmployeeSkills        = "employee_skills"
	TableUsersConstraints      = "users_constraints"
	TableProductsConstraints   = "products_constraints"
	TableOrdersConstraints     = "orders_constraints"
)

// StatusPending is the default status of a new order.
const StatusPending = "pending"

// Time layouts for timestamps stored as plain text.
const (
	// ISOTimestamp matches JavaScript's Date.toISOString in UTC.
	ISOTimestamp = "2006-01-02T15:04:05.000Z07:00"
	// LocalDateTime is the display format of DEFAULT created_at values.
	LocalDateTime = "2006/01/02 15:04:05"
	// LocalDate is LocalDateTime without the clock.
	LocalDate = "2006/01/02"
)

func num(name string) Column  { return Column{Name: name, Type: KindNumber} }
func text(name string) Column { return Column{Name: name, Type: KindText} }

// DemoSchema returns the schema of every demo table, grouped by the design
// principle it illustrates. Each call returns a fresh copy.
func DemoSchema() Schema {
	return Schema{
		// Entity separation and relationships.
		{
			Name:       TableProducts,
			Columns:    []Column{num("product_id"), text("name"), num("price"), text("description")},
			PrimaryKey: []string{"product_id"},
			NotNull:    []string{"name", "price"},
			Checks:     []Check{{Column: "price", Min: 0}},
		},
		{
			Name:       TableCustomers,
			Columns:    []Column{num("customer_id"), text("name"), text("email")},
			PrimaryKey: []string{"customer_id"},
			NotNull:    []string{"name", "email"},
			Unique:     []string{"email"},
		},
		{
			Name:        TableOrders,
			Columns:     []Column{num("order_id"), num("customer_id"), text("order_date"), num("total_amount")},
			PrimaryKey:  []string{"order_id"},
			NotNull:     []string{"customer_id", "order_date"},
			ForeignKeys: []ForeignKey{{Column: "customer_id", RefTable: TableCustomers, RefColumn: "customer_id"}},
			Checks:      []Check{{Column: "total_amount", Min: 0}},
		},
		{
			Name:       TableOrderItems,
			Columns:    []Column{num("order_item_id"), num("order_id"), num("product_id"), num("quantity"), num("unit_price")},
			PrimaryKey: []string{"order_item_id"},
			NotNull:    []string{"order_id", "product_id", "quantity", "unit_price"},
			ForeignKeys: []ForeignKey{
				{Column: "order_id", RefTable: TableOrders, RefColumn: "order_id"},
				{Column: "product_id", RefTable: TableProducts, RefColumn: "product_id"},
			},
			Checks: []Check{{Column: "quantity", Min: 1}, {Column: "unit_price", Min: 0}},
		},
		// Counter-example: products and customers mixed in one table.
		{
			Name: TableBadDesign,
			Columns: []Column{
				num("product_id"), text("name"), num("price"),
				num("customer_id"), text("customer_name"), text("customer_email"),
			},
		},
		// Keys.
		{
			Name:          TableUsers,
			Columns:       []Column{num("user_id"), text("username"), text("email"), text("phone")},
			PrimaryKey:    []string{"user_id"},
			NotNull:       []string{"username"},
			CandidateKeys: []string{"user_id", "username", "email", "phone"},
		},
		{
			Name:       TableProductsSurrogate,
			Columns:    []Column{num("product_id"), text("sku"), text("name"), num("price")},
			PrimaryKey: []string{"product_id"},
			NotNull:    []string{"sku", "name", "price"},
			Unique:     []string{"sku"},
		},
		// Normalization.
		{
			Name: TableEmployeesUnnormalized,
			Columns: []Column{
				num("employee_id"), text("employee_name"), num("department_id"),
				text("department_name"), text("skills"),
			},
			PrimaryKey: []string{"employee_id"},
		},
		{
			Name:       TableDepartments,
			Columns:    []Column{num("department_id"), text("department_name")},
			PrimaryKey: []string{"department_id"},
			NotNull:    []string{"department_name"},
		},
		{
			Name:        TableEmployees,
			Columns:     []Column{num("employee_id"), text("employee_name"), num("department_id")},
			PrimaryKey:  []string{"employee_id"},
			NotNull:     []string{"employee_name"},
			ForeignKeys: []ForeignKey{{Column: "department_id", RefTable: TableDepartments, RefColumn: "department_id"}},
		},
		{
			Name:        TableEmployeeSkills,
			Columns:     []Column{num("employee_id"), text("skill")},
			PrimaryKey:  []string{"employee_id", "skill"},
			ForeignKeys: []ForeignKey{{Column: "employee_id", RefTable: TableEmployees, RefColumn: "employee_id"}},
		},
		// Constraints.
		{
			Name:       TableUsersConstraints,
			Columns:    []Column{num("user_id"), text("username"), text("email")},
			PrimaryKey: []string{"user_id"},
			NotNull:    []string{"username", "email"},
			Unique:     []string{"username", "email"},
		},
		{
			Name:       TableProductsConstraints,
			Columns:    []Column{num("product_id"), text("name"), num("price"), num("stock")},
			PrimaryKey: []string{"product_id"},
			NotNull:    []string{"name", "price", "stock"},
			Checks:     []Check{{Column: "price", Min: 0}, {Column: "stock", Min: 0}},
		},
		{
			Name: TableOrdersConstraints,
			Columns: []Column{
				num("order_id"), num("customer_id"), text("status"),
				text("created_at"), num("total_amount"),
			},
			PrimaryKey:  []string{"order_id"},
			NotNull:     []string{"customer_id", "status", "created_at"},
			ForeignKeys: []ForeignKey{{Column: "customer_id", RefTable: TableCustomers, RefColumn: "customer_id"}},
			Checks:      []Check{{Column: "total_amount", Min: 0}},
			Defaults: []Default{
				{Column: "status", Value: Text(StatusPending)},
				{Column: "created_at", CurrentTime: true},
			},
		},
	}
}
