package connector

import (
	"context"

	"github.com/adamwoolhether/shopapi/dispatch"
)

// itemDetail is a collection nested below an order item.
type itemDetail string

const (
	attributes itemDetail = "attributes"
	properties itemDetail = "properties"
)

// Orders connects to the order endpoint and its nested items, item
// attributes and properties, totals and history.
type Orders struct {
	*Endpoint
}

// NewOrders binds an order connector to r.
func NewOrders(r Requester) (*Orders, error) {
	e, err := NewEndpoint(r, Route(OrdersRoute))
	if err != nil {
		return nil, err
	}
	return &Orders{Endpoint: e}, nil
}

// UpdateStatus changes the status of an order.
func (o *Orders) UpdateStatus(ctx context.Context, orderID int, data any) (*dispatch.Response, error) {
	if err := checkID("orderID", orderID); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return o.requester.Patch(ctx, o.sub(orderID, "status"), data)
}

// GetHistory returns the status history of an order.
func (o *Orders) GetHistory(ctx context.Context, orderID int) (*dispatch.Response, error) {
	if err := checkID("orderID", orderID); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "history"), nil)
}

// GetHistoryByID returns one status history entry of an order.
func (o *Orders) GetHistoryByID(ctx context.Context, orderID, historyID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("historyID", historyID)); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "history", historyID), nil)
}

// Items ///////////////////////////////////////////////////////////////////////////////////////

// CreateItem adds an item to an order.
func (o *Orders) CreateItem(ctx context.Context, orderID int, data any) (*dispatch.Response, error) {
	if err := checkID("orderID", orderID); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return o.requester.Post(ctx, o.sub(orderID, "items"), data)
}

// GetItems returns the items of an order.
func (o *Orders) GetItems(ctx context.Context, orderID int) (*dispatch.Response, error) {
	if err := checkID("orderID", orderID); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "items"), nil)
}

// GetItem returns a single order item.
func (o *Orders) GetItem(ctx context.Context, orderID, itemID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID)); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "items", itemID), nil)
}

// UpdateItem replaces an order item.
func (o *Orders) UpdateItem(ctx context.Context, orderID, itemID int, data any) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID)); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return o.requester.Put(ctx, o.sub(orderID, "items", itemID), data)
}

// DeleteItem removes an item from an order.
func (o *Orders) DeleteItem(ctx context.Context, orderID, itemID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID)); err != nil {
		return nil, err
	}

	return o.requester.Delete(ctx, o.sub(orderID, "items", itemID), nil)
}

// Item attributes and properties //////////////////////////////////////////////////////////////

// CreateAttribute adds an attribute to an order item.
func (o *Orders) CreateAttribute(ctx context.Context, orderID, itemID int, data any) (*dispatch.Response, error) {
	return o.createItemDetail(ctx, attributes, orderID, itemID, data)
}

// CreateProperty adds a property to an order item.
func (o *Orders) CreateProperty(ctx context.Context, orderID, itemID int, data any) (*dispatch.Response, error) {
	return o.createItemDetail(ctx, properties, orderID, itemID, data)
}

// GetAttributes returns the attributes of an order item.
func (o *Orders) GetAttributes(ctx context.Context, orderID, itemID int) (*dispatch.Response, error) {
	return o.getItemDetails(ctx, attributes, orderID, itemID)
}

// GetProperties returns the properties of an order item.
func (o *Orders) GetProperties(ctx context.Context, orderID, itemID int) (*dispatch.Response, error) {
	return o.getItemDetails(ctx, properties, orderID, itemID)
}

// GetAttribute returns a single order item attribute.
func (o *Orders) GetAttribute(ctx context.Context, orderID, itemID, attributeID int) (*dispatch.Response, error) {
	return o.getItemDetail(ctx, attributes, orderID, itemID, attributeID)
}

// GetProperty returns a single order item property.
func (o *Orders) GetProperty(ctx context.Context, orderID, itemID, propertyID int) (*dispatch.Response, error) {
	return o.getItemDetail(ctx, properties, orderID, itemID, propertyID)
}

// UpdateAttribute replaces an order item attribute.
func (o *Orders) UpdateAttribute(ctx context.Context, orderID, itemID, attributeID int, data any) (*dispatch.Response, error) {
	return o.updateItemDetail(ctx, attributes, orderID, itemID, attributeID, data)
}

// UpdateProperty replaces an order item property.
func (o *Orders) UpdateProperty(ctx context.Context, orderID, itemID, propertyID int, data any) (*dispatch.Response, error) {
	return o.updateItemDetail(ctx, properties, orderID, itemID, propertyID, data)
}

// DeleteAttribute removes an attribute from an order item.
func (o *Orders) DeleteAttribute(ctx context.Context, orderID, itemID, attributeID int) (*dispatch.Response, error) {
	return o.deleteItemDetail(ctx, attributes, orderID, itemID, attributeID)
}

// DeleteProperty removes a property from an order item.
func (o *Orders) DeleteProperty(ctx context.Context, orderID, itemID, propertyID int) (*dispatch.Response, error) {
	return o.deleteItemDetail(ctx, properties, orderID, itemID, propertyID)
}

func (o *Orders) createItemDetail(ctx context.Context, kind itemDetail, orderID, itemID int, data any) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID)); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return o.requester.Post(ctx, o.sub(orderID, "items", itemID, kind), data)
}

func (o *Orders) getItemDetails(ctx context.Context, kind itemDetail, orderID, itemID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID)); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "items", itemID, kind), nil)
}

func (o *Orders) getItemDetail(ctx context.Context, kind itemDetail, orderID, itemID, detailID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID), named(kind.idArg(), detailID)); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "items", itemID, kind, detailID), nil)
}

func (o *Orders) updateItemDetail(ctx context.Context, kind itemDetail, orderID, itemID, detailID int, data any) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID), named(kind.idArg(), detailID)); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return o.requester.Put(ctx, o.sub(orderID, "items", itemID, kind, detailID), data)
}

func (o *Orders) deleteItemDetail(ctx context.Context, kind itemDetail, orderID, itemID, detailID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("itemID", itemID), named(kind.idArg(), detailID)); err != nil {
		return nil, err
	}

	return o.requester.Delete(ctx, o.sub(orderID, "items", itemID, kind, detailID), nil)
}

func (k itemDetail) idArg() string {
	if k == attributes {
		return "attributeID"
	}
	return "propertyID"
}

// Totals //////////////////////////////////////////////////////////////////////////////////////

// CreateTotal adds a total line to an order.
func (o *Orders) CreateTotal(ctx context.Context, orderID int, data any) (*dispatch.Response, error) {
	if err := checkID("orderID", orderID); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return o.requester.Post(ctx, o.sub(orderID, "totals"), data)
}

// GetTotals returns the total lines of an order.
func (o *Orders) GetTotals(ctx context.Context, orderID int) (*dispatch.Response, error) {
	if err := checkID("orderID", orderID); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "totals"), nil)
}

// GetTotal returns a single order total line.
func (o *Orders) GetTotal(ctx context.Context, orderID, totalID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("totalID", totalID)); err != nil {
		return nil, err
	}

	return o.requester.Get(ctx, o.sub(orderID, "totals", totalID), nil)
}

// UpdateTotal replaces an order total line.
func (o *Orders) UpdateTotal(ctx context.Context, orderID, totalID int, data any) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("totalID", totalID)); err != nil {
		return nil, err
	}
	if err := checkData("data", data); err != nil {
		return nil, err
	}

	return o.requester.Put(ctx, o.sub(orderID, "totals", totalID), data)
}

// DeleteTotal removes a total line from an order.
func (o *Orders) DeleteTotal(ctx context.Context, orderID, totalID int) (*dispatch.Response, error) {
	if err := checkIDs(named("orderID", orderID), named("totalID", totalID)); err != nil {
		return nil, err
	}

	return o.requester.Delete(ctx, o.sub(orderID, "totals", totalID), nil)
}
