package connector

import (
	"context"

	"github.com/adamwoolhether/shopapi/dispatch"
	"github.com/adamwoolhether/shopapi/getopts"
)

// Resource routes.
const (
	AddressesRoute      = "/addresses"
	ZonesRoute          = "/zones"
	CountriesRoute      = "/countries"
	CustomersRoute      = "/customers"
	CategoriesRoute     = "/categories"
	CategoryIconsRoute  = "/category_icons"
	CategoryImagesRoute = "/category_images"
	EmailsRoute         = "/emails"
	AttachmentsRoute    = "/attachments"
	OrdersRoute         = "/orders"
	ProductsRoute       = "/products"
	ProductImagesRoute  = "/product_images"
)

// Addresses connects to the address endpoint.
type Addresses struct {
	*Endpoint
}

// NewAddresses binds an address connector to r.
func NewAddresses(r Requester) (*Addresses, error) {
	e, err := NewEndpoint(r, Route(AddressesRoute))
	if err != nil {
		return nil, err
	}
	return &Addresses{Endpoint: e}, nil
}

// Zones connects to the zone endpoint.
type Zones struct {
	*Endpoint
}

// NewZones binds a zone connector to r.
func NewZones(r Requester) (*Zones, error) {
	e, err := NewEndpoint(r, Route(ZonesRoute))
	if err != nil {
		return nil, err
	}
	return &Zones{Endpoint: e}, nil
}

// Countries connects to the country endpoint.
type Countries struct {
	*Endpoint
}

// NewCountries binds a country connector to r.
func NewCountries(r Requester) (*Countries, error) {
	e, err := NewEndpoint(r, Route(CountriesRoute))
	if err != nil {
		return nil, err
	}
	return &Countries{Endpoint: e}, nil
}

// GetZones returns the zones of a country.
func (c *Countries) GetZones(ctx context.Context, countryID int) (*dispatch.Response, error) {
	if err := checkID("countryID", countryID); err != nil {
		return nil, err
	}

	return c.requester.Get(ctx, c.sub(countryID, "zones"), nil)
}

// Customers connects to the customer endpoint.
type Customers struct {
	*Endpoint
}

// NewCustomers binds a customer connector to r.
func NewCustomers(r Requester) (*Customers, error) {
	e, err := NewEndpoint(r, Route(CustomersRoute))
	if err != nil {
		return nil, err
	}
	return &Customers{Endpoint: e}, nil
}

// GetGuests returns the guest accounts, modified by opts.
func (c *Customers) GetGuests(ctx context.Context, opts *getopts.GetOptions) (*dispatch.Response, error) {
	return c.requester.Get(ctx, c.Route(), getopts.Merge(opts, map[string]any{"type": "guests"}))
}

// GetAddresses returns the addresses of a customer.
func (c *Customers) GetAddresses(ctx context.Context, customerID int) (*dispatch.Response, error) {
	if err := checkID("customerID", customerID); err != nil {
		return nil, err
	}

	return c.requester.Get(ctx, c.sub(customerID, "addresses"), nil)
}
