package services

import (
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-food-api/apperr"
	"campus-food-api/models"
)

type orderFixture struct {
	svc      *OrderService
	student  *models.User
	vendor   *models.User
	delivery *models.User
	canteen  *models.Canteen
	tea      *models.MenuItem
	samosa   *models.MenuItem
}

func newOrderFixture(t *testing.T) (*orderFixture, *OrderService) {
	db := newTestDB(t)
	f := &orderFixture{}
	f.student = seedUser(t, db, "Asha", "asha@campus.test", models.RoleStudent)
	f.vendor = seedUser(t, db, "Ravi", "ravi@campus.test", models.RoleVendor)
	f.delivery = seedUser(t, db, "Dev", "dev@campus.test", models.RoleDelivery)
	f.canteen = seedCanteen(t, db, "Main Canteen", "9876543210", &f.vendor.ID)
	f.tea = seedMenuItem(t, db, f.canteen.ID, "Tea", 50)
	f.samosa = seedMenuItem(t, db, f.canteen.ID, "Samosa", 120)
	f.svc = NewOrderService(db)
	return f, f.svc
}

func TestCreateOrderComputesFrozenTotal(t *testing.T) {
	f, svc := newOrderFixture(t)

	order, waURL, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{
		{MenuItemID: f.tea.ID, Quantity: 2},
		{MenuItemID: f.samosa.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPlaced, order.Status)
	assert.Equal(t, int64(2*50+120), order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(50), order.Items[0].UnitPrice)
	assert.Equal(t, int64(120), order.Items[1].UnitPrice)
	assert.NotEmpty(t, waURL)

	// A later menu price change must not touch the stored total or the
	// line snapshots.
	require.NoError(t, f.svc.db.Model(f.tea).Update("price", 999).Error)

	var reloaded models.Order
	require.NoError(t, f.svc.db.Preload("Items").First(&reloaded, order.ID).Error)
	assert.Equal(t, int64(220), reloaded.TotalAmount)
	assert.Equal(t, int64(50), reloaded.Items[0].UnitPrice)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f, svc := newOrderFixture(t)

	_, _, err := svc.Create(f.student.ID, f.canteen.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	var count int64
	f.svc.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrderBadQuantity(t *testing.T) {
	f, svc := newOrderFixture(t)

	_, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{
		{MenuItemID: f.tea.ID, Quantity: 0},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
}

func TestCreateOrderUnknownCanteen(t *testing.T) {
	f, svc := newOrderFixture(t)

	_, _, err := svc.Create(f.student.ID, 4242, []OrderLine{
		{MenuItemID: f.tea.ID, Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateOrderUnknownMenuItem(t *testing.T) {
	f, svc := newOrderFixture(t)

	_, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{
		{MenuItemID: 4242, Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateOrderRejectsCrossCanteenItems(t *testing.T) {
	f, svc := newOrderFixture(t)
	other := seedCanteen(t, f.svc.db, "Other Canteen", "9123456789", nil)
	foreign := seedMenuItem(t, f.svc.db, other.ID, "Dosa", 80)

	_, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{
		{MenuItemID: f.tea.ID, Quantity: 1},
		{MenuItemID: foreign.ID, Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	// The rejected order must leave nothing behind: no header, no lines.
	var orders, items int64
	f.svc.db.Model(&models.Order{}).Count(&orders)
	f.svc.db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestCreateOrderWhatsAppLink(t *testing.T) {
	f, svc := newOrderFixture(t)

	order, waURL, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{
		{MenuItemID: f.tea.ID, Quantity: 2},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(waURL, "https://wa.me/919876543210?text="))

	parsed, err := url.Parse(waURL)
	require.NoError(t, err)
	msg := parsed.Query().Get("text")
	assert.Contains(t, msg, "New Order #")
	assert.Contains(t, msg, "- Item ")
	assert.Contains(t, msg, "x 2")
	_ = order
}

func TestAcceptOrderHappyPath(t *testing.T) {
	f, svc := newOrderFixture(t)
	order, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{{MenuItemID: f.tea.ID, Quantity: 1}})
	require.NoError(t, err)

	accepted, err := svc.Accept(order.ID, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)
}

func TestAcceptOrderWrongVendor(t *testing.T) {
	f, svc := newOrderFixture(t)
	order, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{{MenuItemID: f.tea.ID, Quantity: 1}})
	require.NoError(t, err)

	stranger := seedUser(t, f.svc.db, "Moh", "moh@campus.test", models.RoleVendor)

	_, err = svc.Accept(order.ID, stranger.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Status untouched
	reloaded, loadErr := svc.load(order.ID)
	require.NoError(t, loadErr)
	assert.Equal(t, models.StatusPlaced, reloaded.Status)
}

func TestTransitionsAreStrictlyLinear(t *testing.T) {
	f, svc := newOrderFixture(t)
	order, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{{MenuItemID: f.tea.ID, Quantity: 1}})
	require.NoError(t, err)

	// deliver a placed order: skips accepted
	_, err = svc.Deliver(order.ID, f.delivery.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))

	_, err = svc.Accept(order.ID, f.vendor.ID)
	require.NoError(t, err)

	// accept twice: strict, not idempotent
	_, err = svc.Accept(order.ID, f.vendor.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))

	_, err = svc.Deliver(order.ID, f.delivery.ID)
	require.NoError(t, err)

	// delivered is terminal
	_, err = svc.Accept(order.ID, f.vendor.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	_, err = svc.Deliver(order.ID, f.delivery.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))

	reloaded, loadErr := svc.load(order.ID)
	require.NoError(t, loadErr)
	assert.Equal(t, models.StatusDelivered, reloaded.Status)
}

func TestAcceptOrderNotFound(t *testing.T) {
	f, svc := newOrderFixture(t)

	_, err := svc.Accept(4242, f.vendor.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestConcurrentAcceptHasOneWinner(t *testing.T) {
	f, svc := newOrderFixture(t)
	order, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{{MenuItemID: f.tea.ID, Quantity: 1}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Accept(order.ID, f.vendor.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, rejects int
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
			rejects++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, rejects)

	reloaded, loadErr := svc.load(order.ID)
	require.NoError(t, loadErr)
	assert.Equal(t, models.StatusAccepted, reloaded.Status)
}

func TestListOperations(t *testing.T) {
	f, svc := newOrderFixture(t)

	first, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{{MenuItemID: f.tea.ID, Quantity: 1}})
	require.NoError(t, err)
	second, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 2}})
	require.NoError(t, err)

	mine, err := svc.OrdersForUser(f.student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID) // insertion order
	assert.Equal(t, second.ID, mine[1].ID)

	placed, err := svc.PlacedForVendor(f.vendor.ID)
	require.NoError(t, err)
	assert.Len(t, placed, 2)

	// A vendor without a canteen sees an empty list, not an error.
	orphan := seedUser(t, f.svc.db, "Nil", "nil@campus.test", models.RoleVendor)
	none, err := svc.PlacedForVendor(orphan.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Accept(first.ID, f.vendor.ID)
	require.NoError(t, err)

	accepted, err := svc.AcceptedGlobally()
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, first.ID, accepted[0].ID)

	placed, err = svc.PlacedForVendor(f.vendor.ID)
	require.NoError(t, err)
	assert.Len(t, placed, 1)
}

func TestGetOwnedEnforcesOwnership(t *testing.T) {
	f, svc := newOrderFixture(t)
	order, _, err := svc.Create(f.student.ID, f.canteen.ID, []OrderLine{{MenuItemID: f.tea.ID, Quantity: 1}})
	require.NoError(t, err)

	other := seedUser(t, f.svc.db, "Bee", "bee@campus.test", models.RoleStudent)

	_, err = svc.GetOwned(order.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	got, err := svc.GetOwned(order.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, models.StatusPlaced, got.StatusHistory[0].ToStatus)
}
