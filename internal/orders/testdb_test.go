package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/angelmondragon/kitchenline-backend/internal/inventory"
	"github.com/angelmondragon/kitchenline-backend/internal/notifications"
	"github.com/angelmondragon/kitchenline-backend/pkg/db"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/angelmondragon/kitchenline-backend/pkg/stock"
	"github.com/angelmondragon/kitchenline-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const ordersDDL = `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  address TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  reference_number TEXT,
  proof_image TEXT,
  delivery_instructions TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  is_reviewed BOOLEAN NOT NULL DEFAULT 0,
  is_walk_in BOOLEAN NOT NULL DEFAULT 0,
  cancellation_reason TEXT,
  rider_id TEXT,
  delivery_proof_image TEXT,
  delivery_fee NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  inventory_deducted_at DATETIME,
  completed_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  line_no INTEGER NOT NULL DEFAULT 0,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  size TEXT,
  addons TEXT NOT NULL DEFAULT '[]',
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_key TEXT NOT NULL UNIQUE,
  stock NUMERIC NOT NULL DEFAULT 0 CHECK (stock >= 0),
  unit TEXT NOT NULL,
  expiration_date DATETIME,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`

type stubProducts struct {
	products map[uuid.UUID]models.Product
}

func (s *stubProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := map[uuid.UUID]models.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type stubUsers struct {
	users map[uuid.UUID]models.User
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

type sentNotification struct {
	UserID *uuid.UUID
	Role   *enums.UserRole
	Msg    notifications.Message
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, msg notifications.Message) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{UserID: &userID, Msg: msg})
	return &models.Notification{UserID: &userID, Type: msg.Type}, nil
}

func (r *recordingNotifier) NotifyRole(ctx context.Context, role enums.UserRole, msg notifications.Message) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{Role: &role, Msg: msg})
	return &models.Notification{Role: &role, Type: msg.Type}, nil
}

func (r *recordingNotifier) last() sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

type workflowFixture struct {
	conn      *gorm.DB
	svc       *service
	repo      Repository
	inventory inventory.Repository
	products  *stubProducts
	users     *stubUsers
	notifier  *recordingNotifier

	customer uuid.UUID
	admin    uuid.UUID
	rider    uuid.UUID
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	for _, stmt := range strings.Split(ordersDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		require.NoError(t, conn.Exec(stmt).Error)
	}

	f := &workflowFixture{
		conn:     conn,
		repo:     NewRepository(conn),
		products: &stubProducts{products: map[uuid.UUID]models.Product{}},
		notifier: &recordingNotifier{},
		customer: uuid.New(),
		admin:    uuid.New(),
		rider:    uuid.New(),
	}
	f.users = &stubUsers{users: map[uuid.UUID]models.User{
		f.customer: {ID: f.customer, Name: "Carla", Role: enums.UserRoleCustomer},
		f.admin:    {ID: f.admin, Name: "Ada", Role: enums.UserRoleAdmin},
		f.rider:    {ID: f.rider, Name: "Rico", Role: enums.UserRoleRider},
	}}

	policy := stock.NewPolicy(nil, decimal.NewFromInt(5), decimal.NewFromInt(10))
	f.inventory = inventory.NewRepository(conn)
	ledger, err := inventory.NewLedger(f.inventory, policy)
	require.NoError(t, err)

	svc, err := NewService(f.repo, db.FromConn(conn), f.products, f.users, ledger, f.notifier, Options{
		DeliveryFee: decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	f.svc = svc.(*service)
	return f
}

func (f *workflowFixture) customerActor() Actor { return Actor{UserID: f.customer, Role: enums.UserRoleCustomer} }
func (f *workflowFixture) adminActor() Actor    { return Actor{UserID: f.admin, Role: enums.UserRoleAdmin} }
func (f *workflowFixture) riderActor() Actor    { return Actor{UserID: f.rider, Role: enums.UserRoleRider} }

func (f *workflowFixture) addProduct(name string, ingredients ...types.ProductIngredient) uuid.UUID {
	id := uuid.New()
	f.products.products[id] = models.Product{ID: id, Name: name, Price: decimal.NewFromInt(100), Ingredients: ingredients}
	return id
}

func (f *workflowFixture) addStock(t *testing.T, name string, qty int64) uuid.UUID {
	t.Helper()
	item := &models.InventoryItem{
		Name:    name,
		NameKey: stock.NormalizeName(name),
		Stock:   decimal.NewFromInt(qty),
		Unit:    "kg",
		Status:  enums.StockStatusInStock,
	}
	require.NoError(t, f.inventory.Create(context.Background(), item))
	return item.ID
}

func (f *workflowFixture) stockOf(t *testing.T, id uuid.UUID) *models.InventoryItem {
	t.Helper()
	item, err := f.inventory.FindByID(context.Background(), id)
	require.NoError(t, err)
	return item
}

func testAddress() types.Address {
	return types.Address{
		Recipient: "Carla Santos",
		Phone:     "09171234567",
		Street:    "12 Mabini St",
		City:      "Quezon City",
	}
}

func (f *workflowFixture) codInput(productID uuid.UUID, qty int) PlaceOrderInput {
	return PlaceOrderInput{
		UserID: f.customer,
		Items: []OrderItemInput{{
			ProductID: productID,
			Name:      "Milk Tea",
			Quantity:  qty,
			UnitPrice: decimal.NewFromInt(100),
		}},
		Address:       testAddress(),
		PaymentMethod: enums.PaymentMethodCOD,
		Total:         decimal.NewFromInt(int64(100*qty + 15)),
	}
}

// placeAt places a COD order and walks it to status as admin.
func (f *workflowFixture) placeAt(t *testing.T, input PlaceOrderInput, status enums.OrderStatus) *OrderDTO {
	t.Helper()
	ctx := context.Background()
	order, err := f.svc.PlaceOrder(ctx, f.customerActor(), input)
	require.NoError(t, err)
	if status == enums.OrderStatusPending {
		return order
	}
	order, err = f.svc.TransitionStatus(ctx, f.adminActor(), order.ID, TransitionInput{Status: status})
	require.NoError(t, err)
	return order
}
